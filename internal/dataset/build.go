// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package dataset

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
)

// RowRef points at one row of a dataset.
type RowRef struct {
	Data *Dataset
	Row  int
}

// Assemble builds a dataset with the given schema from rows of other
// datasets. Columns are matched by name; a column missing from a source row
// becomes null.
func Assemble(mem memory.Allocator, schema *arrow.Schema, rows []RowRef) (*Dataset, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	// column positions are resolved once per source dataset
	positions := make(map[*Dataset][]int)
	for _, ref := range rows {
		pos, ok := positions[ref.Data]
		if !ok {
			pos = make([]int, len(schema.Fields()))
			for i, f := range schema.Fields() {
				pos[i] = -1
				if idx := ref.Data.Schema().FieldIndices(f.Name); len(idx) > 0 {
					pos[i] = idx[0]
				}
			}
			positions[ref.Data] = pos
		}
		for i, f := range schema.Fields() {
			var v any
			if pos[i] >= 0 {
				v = ref.Data.Value(ref.Row, pos[i])
			}
			if err := appendValue(rb.Field(i), f.Type, v); err != nil {
				return nil, fmt.Errorf("column %s: %w", f.Name, err)
			}
		}
	}

	rec := rb.NewRecord()
	defer rec.Release()
	return New(mem, rec), nil
}

// Take returns the selected rows of d, in the order given.
func (d *Dataset) Take(rows []int) (*Dataset, error) {
	refs := make([]RowRef, len(rows))
	for i, r := range rows {
		refs[i] = RowRef{Data: d, Row: r}
	}
	return Assemble(d.mem, d.Schema(), refs)
}

// Concat appends datasets that share a schema.
func Concat(mem memory.Allocator, schema *arrow.Schema, parts ...*Dataset) (*Dataset, error) {
	var refs []RowRef
	for _, p := range parts {
		for r := 0; r < int(p.Count()); r++ {
			refs = append(refs, RowRef{Data: p, Row: r})
		}
	}
	return Assemble(mem, schema, refs)
}

func appendValue(b array.Builder, dt arrow.DataType, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch bb := b.(type) {
	case *array.StringBuilder:
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		bb.Append(s)
	case *array.Int32Builder:
		switch n := v.(type) {
		case int32:
			bb.Append(n)
		default:
			return fmt.Errorf("cannot store %T in int32 column", v)
		}
	case *array.Int64Builder:
		switch n := v.(type) {
		case int64:
			bb.Append(n)
		case int32:
			bb.Append(int64(n))
		default:
			return fmt.Errorf("cannot store %T in int64 column", v)
		}
	case *array.Float64Builder:
		switch n := v.(type) {
		case float64:
			bb.Append(n)
		case int64:
			bb.Append(float64(n))
		case int32:
			bb.Append(float64(n))
		default:
			return fmt.Errorf("cannot store %T in float64 column", v)
		}
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot store %T in boolean column", v)
		}
		bb.Append(bv)
	case *array.Date32Builder:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("cannot store %T in date column", v)
		}
		bb.Append(timeToDate(t))
	case *array.TimestampBuilder:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("cannot store %T in timestamp column", v)
		}
		bb.Append(timeToTimestamp(t, dt.(*arrow.TimestampType).Unit))
	default:
		return fmt.Errorf("unsupported column type %s", dt)
	}
	return nil
}
