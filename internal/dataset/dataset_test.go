// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package dataset

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersCSV = `customer_id,name,balance,vip,signup_date,created_at,loyalty_points
1,Ana,10.5,true,2024-01-15,2024-01-15 10:00:00,3000000000
2,Luis,7,false,2024-01-16,2024-01-16T11:30:00Z,12
3,,,,2024-02-01,2024-02-01,
`

func readCustomers(t *testing.T, mem memory.Allocator) *Dataset {
	t.Helper()
	ds, err := ReadCSV(mem, CSVOptions{InferSchema: true}, Source{Name: "customers.csv", Reader: strings.NewReader(customersCSV)})
	require.NoError(t, err)
	return ds
}

func TestReadCSV_InfersTypes(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ds := readCustomers(t, mem)
	defer ds.Release()

	assert.Equal(t, int64(3), ds.Count())
	assert.Equal(t, []Field{
		{Name: "customer_id", NativeType: IntegerType},
		{Name: "name", NativeType: StringType},
		{Name: "balance", NativeType: DoubleType},
		{Name: "vip", NativeType: BooleanType},
		{Name: "signup_date", NativeType: DateType},
		{Name: "created_at", NativeType: TimestampType},
		{Name: "loyalty_points", NativeType: LongType},
	}, ds.Fields())

	assert.Equal(t, int32(1), ds.Value(0, 0))
	assert.Nil(t, ds.Value(2, 1), "empty cells are null")
	assert.Equal(t, 7.0, ds.Value(1, 2))
	assert.Equal(t, time.Date(2024, 1, 16, 11, 30, 0, 0, time.UTC), ds.Value(1, 5))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ds.Value(2, 5))
	assert.Equal(t, int64(3000000000), ds.Value(0, 6))
}

func TestReadCSV_WithoutInference(t *testing.T) {
	ds, err := ReadCSV(nil, CSVOptions{}, Source{Name: "a", Reader: strings.NewReader("id,n\n1,2\n")})
	require.NoError(t, err)
	defer ds.Release()
	assert.Equal(t, []Field{{"id", StringType}, {"n", StringType}}, ds.Fields())
}

func TestReadCSV_MultipleSources(t *testing.T) {
	ds, err := ReadCSV(nil, CSVOptions{InferSchema: true},
		Source{Name: "a.csv", Reader: strings.NewReader("id,v\n1,x\n")},
		Source{Name: "empty.csv", Reader: strings.NewReader("")},
		Source{Name: "b.csv", Reader: strings.NewReader("id,v\n2,y\n")},
	)
	require.NoError(t, err)
	defer ds.Release()
	assert.Equal(t, int64(2), ds.Count())
	assert.Equal(t, "y", ds.Value(1, 1))
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		wantErr string
	}{
		{
			name:    "no header",
			sources: []Source{{Name: "a", Reader: strings.NewReader("")}},
			wantErr: "no csv header",
		},
		{
			name: "header mismatch",
			sources: []Source{
				{Name: "a", Reader: strings.NewReader("id,v\n1,x\n")},
				{Name: "b", Reader: strings.NewReader("id,w\n1,x\n")},
			},
			wantErr: "does not match",
		},
		{
			name:    "duplicate column",
			sources: []Source{{Name: "a", Reader: strings.NewReader("id,id\n1,2\n")}},
			wantErr: "duplicate column",
		},
		{
			name:    "ragged row",
			sources: []Source{{Name: "a", Reader: strings.NewReader("id,v\n1\n")}},
			wantErr: "reading a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(nil, CSVOptions{InferSchema: true}, tt.sources...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInferValueAndMerge(t *testing.T) {
	assert.Equal(t, IntegerType, inferValue("42"))
	assert.Equal(t, LongType, inferValue("9223372036854775807"))
	assert.Equal(t, DoubleType, inferValue("1e3"))
	assert.Equal(t, StringType, inferValue("Inf"))
	assert.Equal(t, StringType, inferValue("0x10"))
	assert.Equal(t, BooleanType, inferValue("TRUE"))
	assert.Equal(t, DateType, inferValue("2024-03-01"))
	assert.Equal(t, TimestampType, inferValue("2024-03-01T10:00:00+02:00"))
	assert.Equal(t, StringType, inferValue("hello"))

	assert.Equal(t, LongType, mergeTypes(IntegerType, LongType))
	assert.Equal(t, DoubleType, mergeTypes(DoubleType, IntegerType))
	assert.Equal(t, TimestampType, mergeTypes(DateType, TimestampType))
	assert.Equal(t, StringType, mergeTypes(BooleanType, IntegerType))
	assert.Equal(t, IntegerType, mergeTypes("", IntegerType))
}

func TestCastToDate(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ds := readCustomers(t, mem)
	defer ds.Release()

	cast, err := ds.CastToDate("created_at")
	require.NoError(t, err)
	defer cast.Release()

	idx, err := cast.ColumnIndex("created_at")
	require.NoError(t, err)
	assert.Equal(t, DateType, cast.Fields()[idx].NativeType)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cast.Value(0, idx))
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), cast.Value(1, idx))
	assert.Equal(t, TimestampType, ds.Fields()[idx].NativeType, "source dataset is unchanged")

	_, err = ds.CastToDate("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = ds.CastToDate("customer_id")
	assert.Error(t, err)
}

func TestCastToDate_FromStrings(t *testing.T) {
	ds, err := ReadCSV(nil, CSVOptions{}, Source{Name: "a", Reader: strings.NewReader("d\n2024-05-06 08:00:00\nnot a date\n")})
	require.NoError(t, err)
	defer ds.Release()

	cast, err := ds.CastToDate("d")
	require.NoError(t, err)
	defer cast.Release()
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), cast.Value(0, 0))
	assert.Nil(t, cast.Value(1, 0))
}

func TestWithTimestamp(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ds := readCustomers(t, mem)
	defer ds.Release()

	now := time.Date(2026, 10, 17, 9, 30, 0, 123456000, time.UTC)
	out := ds.WithTimestamp("ingestion_date", now)
	defer out.Release()

	fields := out.Fields()
	require.Len(t, fields, 8)
	assert.Equal(t, Field{"ingestion_date", TimestampType}, fields[7])
	for r := 0; r < int(out.Count()); r++ {
		assert.Equal(t, now, out.Value(r, 7))
	}

	replaced := out.WithTimestamp("ingestion_date", now.Add(time.Hour))
	defer replaced.Release()
	assert.Len(t, replaced.Fields(), 8)
	assert.Equal(t, now.Add(time.Hour), replaced.Value(0, 7))
}

func TestTakeAndConcat(t *testing.T) {
	ds := readCustomers(t, nil)
	defer ds.Release()

	sub, err := ds.Take([]int{2, 0})
	require.NoError(t, err)
	defer sub.Release()
	assert.Equal(t, int64(2), sub.Count())
	assert.Equal(t, int32(3), sub.Value(0, 0))
	assert.Equal(t, int32(1), sub.Value(1, 0))

	all, err := Concat(nil, ds.Schema(), sub, ds)
	require.NoError(t, err)
	defer all.Release()
	assert.Equal(t, int64(5), all.Count())
	assert.Equal(t, ds.Row(1), all.Row(3))
}

func TestParquetRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()

	ds := readCustomers(t, mem)
	defer ds.Release()
	cast, err := ds.CastToDate("created_at")
	require.NoError(t, err)
	defer cast.Release()

	data, err := cast.ParquetBytes()
	require.NoError(t, err)

	back, err := ReadParquet(context.Background(), mem, data)
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, cast.Fields(), back.Fields())
	require.Equal(t, cast.Count(), back.Count())
	for r := 0; r < int(cast.Count()); r++ {
		assert.Equal(t, cast.Row(r), back.Row(r))
	}
}
