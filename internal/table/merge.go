// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apalominor/lakehouse-challenge/internal/dataset"
)

// dedupe returns the rows of ds that survive precombining: one row per
// record key, the one with the largest precombine value. On equal values the
// later row wins. Rows are returned in order of first key appearance.
func dedupe(ds *dataset.Dataset, keyCol, preCol int) ([]int, error) {
	n := int(ds.Count())
	winner := make(map[string]int, n)
	var order []string
	for r := 0; r < n; r++ {
		k, err := recordKey(ds.Value(r, keyCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		prev, seen := winner[k]
		if !seen {
			order = append(order, k)
			winner[k] = r
			continue
		}
		if compareValues(ds.Value(r, preCol), ds.Value(prev, preCol)) >= 0 {
			winner[k] = r
		}
	}
	rows := make([]int, len(order))
	for i, k := range order {
		rows[i] = winner[k]
	}
	return rows, nil
}

// merge lays incoming rows over the stored partition. Stored rows keep
// their position unless an incoming row with the same key replaces them;
// incoming rows with new keys follow in their own order.
func merge(stored, incoming *dataset.Dataset, keyCol int, rows []dataset.RowRef) ([]dataset.RowRef, error) {
	if err := sameSchema(stored, incoming); err != nil {
		return nil, err
	}
	storedKey, err := stored.ColumnIndex(incoming.Schema().Field(keyCol).Name)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]dataset.RowRef, len(rows))
	var order []string
	for _, ref := range rows {
		k, err := recordKey(ref.Data.Value(ref.Row, keyCol))
		if err != nil {
			return nil, err
		}
		byKey[k] = ref
		order = append(order, k)
	}

	out := make([]dataset.RowRef, 0, int(stored.Count())+len(rows))
	used := make(map[string]bool, len(rows))
	for r := 0; r < int(stored.Count()); r++ {
		k, err := recordKey(stored.Value(r, storedKey))
		if err != nil {
			return nil, fmt.Errorf("stored row %d: %w", r, err)
		}
		if ref, ok := byKey[k]; ok {
			out = append(out, ref)
			used[k] = true
			continue
		}
		out = append(out, dataset.RowRef{Data: stored, Row: r})
	}
	for _, k := range order {
		if !used[k] {
			out = append(out, byKey[k])
		}
	}
	return out, nil
}

func sameSchema(stored, incoming *dataset.Dataset) error {
	want := incoming.Fields()
	got := stored.Fields()
	if len(want) != len(got) {
		return fmt.Errorf("%w: stored table has %d columns, incoming data has %d", ErrSchemaMismatch, len(got), len(want))
	}
	storedTypes := make(map[string]string, len(got))
	for _, f := range got {
		storedTypes[f.Name] = f.NativeType
	}
	for _, f := range want {
		t, ok := storedTypes[f.Name]
		if !ok {
			return fmt.Errorf("%w: column %s is not in the stored table", ErrSchemaMismatch, f.Name)
		}
		if t != f.NativeType {
			return fmt.Errorf("%w: column %s is %s in the stored table, %s in incoming data", ErrSchemaMismatch, f.Name, t, f.NativeType)
		}
	}
	return nil
}

func recordKey(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", ErrNullRecordKey
	case string:
		return t, nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// compareValues orders precombine values. Nulls sort first; values of
// different kinds compare by their text.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmpOrdered(x, y)
		}
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmpOrdered(boolInt(x), boolInt(y))
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmpOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
