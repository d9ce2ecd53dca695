// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// CheckAttributeTypes validates requested BIOS attributes against the current
// attribute set of the BMC. Unknown names and values whose JSON kind differs
// from the current value are rejected.
func CheckAttributeTypes(current, requested map[string]any) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(requested)) {
		value := requested[name]
		cur, ok := current[name]
		if !ok {
			errs = append(errs, fmt.Errorf("attribute %s not found", name))
			continue
		}
		// null means the BMC does not expose the current value, accept anything
		if cur == nil {
			continue
		}
		if want, got := kindOf(cur), kindOf(value); want != got {
			errs = append(errs, fmt.Errorf("attribute '%s's' value '%v' has wrong type. needed '%s' got '%s'", name, value, want, got))
		}
	}
	return errors.Join(errs...)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Diff returns the keys of requested whose value differs from current.
func Diff(current, requested map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range requested {
		if cur, ok := current[k]; !ok || !equalJSON(cur, v) {
			out[k] = v
		}
	}
	return out
}

func equalJSON(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
