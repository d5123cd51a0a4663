// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey is one term of a --sort value.
type SortKey struct {
	Key        string
	Descending bool
	// Exact compares strings case sensitively.
	Exact bool
}

// ParseSort reads a comma separated --sort value. Each term names a column by
// key or title, case insensitively. A leading "-" sorts descending and a
// leading "!" compares exactly; "-!" combines both. An empty value keeps the
// rows in the order they were produced.
func ParseSort(value string, columns []Column) ([]SortKey, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var keys []SortKey
	for _, term := range strings.Split(value, ",") {
		term = strings.TrimSpace(term)

		var sk SortKey
		if rest, ok := strings.CutPrefix(term, "-"); ok {
			sk.Descending = true
			term = rest
		}
		if rest, ok := strings.CutPrefix(term, "!"); ok {
			sk.Exact = true
			term = rest
		}

		col, ok := findColumn(term, columns)
		if !ok {
			return nil, fmt.Errorf("invalid --sort key %q: must be one of %v", term, columnKeys(columns))
		}
		sk.Key = col.Key
		keys = append(keys, sk)
	}
	return keys, nil
}

func findColumn(name string, columns []Column) (Column, bool) {
	for _, col := range columns {
		if strings.EqualFold(name, col.Key) || (col.Title != "" && strings.EqualFold(name, col.Title)) {
			return col, true
		}
	}
	return Column{}, false
}

func columnKeys(columns []Column) []string {
	keys := make([]string, 0, len(columns))
	for _, col := range columns {
		keys = append(keys, col.Key)
	}
	return keys
}

// SortRows orders rows in place. Numbers compare numerically and everything
// else by its table text. Ties keep their original order.
func SortRows(rows []map[string]interface{}, keys []SortKey) {
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(rows, func(a, b map[string]interface{}) int {
		for _, sk := range keys {
			c := compareValues(a[sk.Key], b[sk.Key], sk.Exact)
			if c == 0 {
				continue
			}
			if sk.Descending {
				return -c
			}
			return c
		}
		return 0
	})
}

func compareValues(a, b interface{}, exact bool) int {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return cmp.Compare(an, bn)
	}

	as, bs := InterfaceToString(a), InterfaceToString(b)
	if !exact {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
