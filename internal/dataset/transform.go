// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package dataset

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
)

// CastToDate returns a copy of d whose named column holds dates. Timestamps
// are truncated to their UTC day; strings are parsed and become null when
// they do not hold a date or timestamp.
func (d *Dataset) CastToDate(name string) (*Dataset, error) {
	idx, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	src := d.rec.Column(idx)
	switch src.DataType().ID() {
	case arrow.DATE32:
		return New(d.mem, d.rec), nil
	case arrow.TIMESTAMP, arrow.STRING:
	default:
		return nil, fmt.Errorf("cannot cast column %s of type %s to date", name, NativeType(src.DataType()))
	}

	b := array.NewDate32Builder(d.mem)
	defer b.Release()
	for i := 0; i < src.Len(); i++ {
		switch v := valueAt(src, i).(type) {
		case time.Time:
			b.Append(timeToDate(v))
		case string:
			if t, ok := parseTime(v); ok {
				b.Append(timeToDate(t))
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}
	}
	col := b.NewArray()
	defer col.Release()

	return d.replaceColumn(idx, arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Date32, Nullable: true}, col), nil
}

// WithTimestamp returns a copy of d with a timestamp column holding t in
// every row. An existing column with the same name is replaced, otherwise
// the column is appended.
func (d *Dataset) WithTimestamp(name string, t time.Time) *Dataset {
	dt := arrow.FixedWidthTypes.Timestamp_us
	b := array.NewTimestampBuilder(d.mem, dt.(*arrow.TimestampType))
	defer b.Release()
	v := timeToTimestamp(t, arrow.Microsecond)
	for i := int64(0); i < d.Count(); i++ {
		b.Append(v)
	}
	col := b.NewArray()
	defer col.Release()

	field := arrow.Field{Name: name, Type: dt, Nullable: true}
	if idx, err := d.ColumnIndex(name); err == nil {
		return d.replaceColumn(idx, field, col)
	}
	return d.replaceColumn(int(d.rec.NumCols()), field, col)
}

// replaceColumn swaps column idx for col, appending when idx is one past
// the last column.
func (d *Dataset) replaceColumn(idx int, field arrow.Field, col arrow.Array) *Dataset {
	fields := append([]arrow.Field(nil), d.rec.Schema().Fields()...)
	cols := append([]arrow.Array(nil), d.rec.Columns()...)
	if idx == len(fields) {
		fields = append(fields, field)
		cols = append(cols, col)
	} else {
		fields[idx] = field
		cols[idx] = col
	}
	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, d.rec.NumRows())
	defer rec.Release()
	return New(d.mem, rec)
}
