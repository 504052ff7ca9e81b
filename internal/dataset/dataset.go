// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package dataset holds the in-memory tabular dataset the job operates on.
// Columns are Arrow arrays; every column reports an engine-native type tag
// such as "LongType" or "TimestampType".
package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
)

// ErrColumnNotFound is returned when a named column is absent.
var ErrColumnNotFound = errors.New("column not found")

// Native type tags reported by Field.NativeType.
const (
	StringType    = "StringType"
	IntegerType   = "IntegerType"
	LongType      = "LongType"
	DoubleType    = "DoubleType"
	BooleanType   = "BooleanType"
	TimestampType = "TimestampType"
	DateType      = "DateType"
)

// Field is a column name and its native type tag.
type Field struct {
	Name       string
	NativeType string
}

// NativeType returns the type tag for an Arrow data type. Types without a
// tag of their own are reported by their Arrow name.
func NativeType(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return StringType
	case arrow.INT32:
		return IntegerType
	case arrow.INT64:
		return LongType
	case arrow.FLOAT64:
		return DoubleType
	case arrow.BOOL:
		return BooleanType
	case arrow.TIMESTAMP:
		return TimestampType
	case arrow.DATE32:
		return DateType
	default:
		return dt.String()
	}
}

// ArrowType returns the Arrow type used to store a native type tag.
func ArrowType(native string) (arrow.DataType, error) {
	switch native {
	case StringType:
		return arrow.BinaryTypes.String, nil
	case IntegerType:
		return arrow.PrimitiveTypes.Int32, nil
	case LongType:
		return arrow.PrimitiveTypes.Int64, nil
	case DoubleType:
		return arrow.PrimitiveTypes.Float64, nil
	case BooleanType:
		return arrow.FixedWidthTypes.Boolean, nil
	case TimestampType:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case DateType:
		return arrow.FixedWidthTypes.Date32, nil
	default:
		return nil, fmt.Errorf("unsupported native type %q", native)
	}
}

// Dataset is an immutable batch of rows. Transformations return a new
// Dataset; callers Release datasets they no longer need.
type Dataset struct {
	mem memory.Allocator
	rec arrow.Record
}

// New wraps rec. The dataset takes its own reference to rec.
func New(mem memory.Allocator, rec arrow.Record) *Dataset {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	rec.Retain()
	return &Dataset{mem: mem, rec: rec}
}

// Release drops the dataset's reference to its columns.
func (d *Dataset) Release() {
	if d != nil && d.rec != nil {
		d.rec.Release()
		d.rec = nil
	}
}

// Record returns the underlying Arrow record.
func (d *Dataset) Record() arrow.Record { return d.rec }

// Schema returns the Arrow schema.
func (d *Dataset) Schema() *arrow.Schema { return d.rec.Schema() }

// Count returns the number of rows.
func (d *Dataset) Count() int64 { return d.rec.NumRows() }

// Fields returns the columns in source order.
func (d *Dataset) Fields() []Field {
	fields := d.rec.Schema().Fields()
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: f.Name, NativeType: NativeType(f.Type)}
	}
	return out
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	idx := d.rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return idx[0], nil
}

// Value returns the Go value at (row, col): string, int32, int64, float64,
// bool or time.Time (UTC), or nil for nulls.
func (d *Dataset) Value(row, col int) any {
	return valueAt(d.rec.Column(col), row)
}

// Row returns all values of one row.
func (d *Dataset) Row(row int) []any {
	out := make([]any, d.rec.NumCols())
	for i := range out {
		out[i] = d.Value(row, i)
	}
	return out
}

func valueAt(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Date32:
		return dateToTime(a.Value(i))
	case *array.Timestamp:
		return timestampToTime(a.Value(i), a.DataType().(*arrow.TimestampType).Unit)
	default:
		return nil
	}
}

const secondsPerDay = 24 * 60 * 60

func dateToTime(d arrow.Date32) time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func timeToDate(t time.Time) arrow.Date32 {
	y, m, day := t.UTC().Date()
	return arrow.Date32(time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

func timestampToTime(v arrow.Timestamp, unit arrow.TimeUnit) time.Time {
	switch unit {
	case arrow.Second:
		return time.Unix(int64(v), 0).UTC()
	case arrow.Millisecond:
		return time.UnixMilli(int64(v)).UTC()
	case arrow.Nanosecond:
		return time.Unix(0, int64(v)).UTC()
	default:
		return time.UnixMicro(int64(v)).UTC()
	}
}

func timeToTimestamp(t time.Time, unit arrow.TimeUnit) arrow.Timestamp {
	switch unit {
	case arrow.Second:
		return arrow.Timestamp(t.Unix())
	case arrow.Millisecond:
		return arrow.Timestamp(t.UnixMilli())
	case arrow.Nanosecond:
		return arrow.Timestamp(t.UnixNano())
	default:
		return arrow.Timestamp(t.UnixMicro())
	}
}
