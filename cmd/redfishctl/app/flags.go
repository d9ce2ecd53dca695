// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a pflag.Value accepting only what parse accepts.
type enumValue[T ~string] struct {
	value *T
	parse func(string) (T, error)
	typ   string
}

var _ pflag.Value = &enumValue[string]{}

func newEnumValue[T ~string](p *T, parse func(string) (T, error), typ string) *enumValue[T] {
	return &enumValue[T]{value: p, parse: parse, typ: typ}
}

func (e *enumValue[T]) String() string { return string(*e.value) }

func (e *enumValue[T]) Set(s string) error {
	v, err := e.parse(s)
	if err != nil {
		return err
	}
	*e.value = v
	return nil
}

func (e *enumValue[T]) Type() string { return e.typ }

// parseAttributes turns KEY=VALUE pairs into BIOS attributes. Values that
// are valid JSON keep their type, everything else is a string.
func parseAttributes(pairs []string) (map[string]any, error) {
	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected KEY=VALUE", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		attrs[key] = v
	}
	return attrs, nil
}
