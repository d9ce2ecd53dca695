// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package oem

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Attributes is a set of BIOS or BMC attributes as staged on a settings resource.
type Attributes map[string]any

// Body wraps the attributes into the PATCH body of a settings resource.
func (a Attributes) Body() map[string]any {
	return map[string]any{"Attributes": map[string]any(a)}
}

// Merge returns the union of the given sets; later sets win.
func Merge(sets ...Attributes) Attributes {
	out := Attributes{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// IsSubMap reports whether every key of sub is present in main with the same
// value. Nested objects are compared recursively. Values are compared by their
// JSON form so that json.Number and Go numbers compare equal.
func IsSubMap(main, sub map[string]any) bool {
	for k, vSub := range sub {
		vMain, ok := main[k]
		if !ok {
			return false
		}
		switch vSubTyped := vSub.(type) {
		case map[string]any:
			vMainTyped, ok := vMain.(map[string]any)
			if !ok || !IsSubMap(vMainTyped, vSubTyped) {
				return false
			}
		default:
			if !equalValue(vMain, vSub) {
				return false
			}
		}
	}
	return true
}

// Mismatches returns, for every key of want not satisfied by have, the
// expected and actual values in their textual form.
func Mismatches(have, want map[string]any) map[string][2]string {
	out := map[string][2]string{}
	for k, v := range want {
		cur, ok := have[k]
		if ok && equalValue(cur, v) {
			continue
		}
		actual := "<unset>"
		if ok {
			actual = fmt.Sprint(cur)
		}
		out[k] = [2]string{fmt.Sprint(v), actual}
	}
	return out
}

func equalValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ab) == string(bb)
}
