// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Map_SingleRecognizedTag(t *testing.T) {
	m := NewMapper(DefaultRules, MatchSubstring)

	tests := map[string]string{
		"StringType":    "string",
		"IntegerType":   "int",
		"LongType":      "long",
		"DoubleType":    "double",
		"TimestampType": "timestamp",
		"DateType":      "date",
	}
	for native, want := range tests {
		t.Run(native, func(t *testing.T) {
			assert.Equal(t, want, m.Map(native))
		})
	}
}

func TestMapper_Map_FallsThrough(t *testing.T) {
	m := NewMapper(DefaultRules, MatchSubstring)
	assert.Equal(t, "BooleanType", m.Map("BooleanType"))
	assert.Equal(t, "DecimalType(10,2)", m.Map("DecimalType(10,2)"))
	assert.Equal(t, "", m.Map(""))
}

func TestMapper_Map_FirstRuleWins(t *testing.T) {
	m := NewMapper(DefaultRules, MatchSubstring)
	// both LongType and DateType occur; LongType is declared first
	assert.Equal(t, "long", m.Map("MapType(LongType,DateType)"))
	assert.Equal(t, "string", m.Map("ArrayType(StringType)"))

	reordered := NewMapper([]Rule{
		{Pattern: "DateType", Type: "date"},
		{Pattern: "LongType", Type: "long"},
	}, MatchSubstring)
	assert.Equal(t, "date", reordered.Map("MapType(LongType,DateType)"))
}

func TestMapper_Map_Exact(t *testing.T) {
	m := NewMapper(DefaultRules, MatchExact)
	assert.Equal(t, "long", m.Map("LongType"))
	assert.Equal(t, "ArrayType(StringType)", m.Map("ArrayType(StringType)"))
}

func TestMapper_Describe(t *testing.T) {
	m := NewMapper(DefaultRules, MatchSubstring)

	got := m.Describe([]NativeField{
		{Name: "id", NativeType: "LongType"},
		{Name: "name", NativeType: "StringType"},
		{Name: "created_at", NativeType: "TimestampType"},
	})
	assert.Equal(t, []Field{
		{Name: "id", Type: "long"},
		{Name: "name", Type: "string"},
		{Name: "created_at", Type: "timestamp"},
	}, got)

	assert.Empty(t, m.Describe(nil))
}

func TestMapper_Describe_PreservesOrder(t *testing.T) {
	m := NewMapper(DefaultRules, MatchSubstring)
	in := []NativeField{
		{Name: "z", NativeType: "DateType"},
		{Name: "a", NativeType: "BooleanType"},
		{Name: "m", NativeType: "IntegerType"},
	}
	got := m.Describe(in)
	require.Len(t, got, len(in))
	for i := range in {
		assert.Equal(t, in[i].Name, got[i].Name)
	}
}

func TestHiveRules(t *testing.T) {
	m := NewMapper(HiveRules, MatchExact)
	assert.Equal(t, "bigint", m.Map("LongType"))
	assert.Equal(t, "boolean", m.Map("BooleanType"))
	assert.Equal(t, "date", m.Map("DateType"))
}

func TestParseMatchMode(t *testing.T) {
	mode, err := ParseMatchMode("exact")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, mode)

	mode, err = ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchSubstring, mode)

	_, err = ParseMatchMode("fuzzy")
	assert.Error(t, err)
}
