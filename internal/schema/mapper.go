// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schema maps engine-native column types onto small, portable type
// vocabularies.
package schema

import (
	"fmt"
	"strings"
)

// MatchMode selects how a Rule's pattern is compared with a native type tag.
type MatchMode int

const (
	// MatchSubstring matches when the pattern occurs anywhere in the tag.
	MatchSubstring MatchMode = iota
	// MatchExact matches only when the tag equals the pattern.
	MatchExact
)

// ParseMatchMode converts "substring" or "exact" into a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "substring":
		return MatchSubstring, nil
	case "exact":
		return MatchExact, nil
	default:
		return 0, fmt.Errorf("unknown match mode %q", s)
	}
}

// Rule maps native type tags matching Pattern to Type.
type Rule struct {
	Pattern string
	Type    string
}

// DefaultRules is the portable vocabulary written into manifests. No pattern
// is a substring of another, so declaration order only matters for tags that
// embed several of them, e.g. "ArrayType(LongType)"; the first rule wins.
var DefaultRules = []Rule{
	{Pattern: "StringType", Type: "string"},
	{Pattern: "IntegerType", Type: "int"},
	{Pattern: "LongType", Type: "long"},
	{Pattern: "DoubleType", Type: "double"},
	{Pattern: "TimestampType", Type: "timestamp"},
	{Pattern: "DateType", Type: "date"},
}

// HiveRules maps native tags to catalog column types.
var HiveRules = []Rule{
	{Pattern: "TimestampType", Type: "timestamp"},
	{Pattern: "DateType", Type: "date"},
	{Pattern: "StringType", Type: "string"},
	{Pattern: "IntegerType", Type: "int"},
	{Pattern: "LongType", Type: "bigint"},
	{Pattern: "DoubleType", Type: "double"},
	{Pattern: "BooleanType", Type: "boolean"},
}

// NativeField is a column as reported by the dataset.
type NativeField struct {
	Name       string
	NativeType string
}

// Field is a column with its mapped type.
type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Mapper translates native type tags using an ordered rule list.
type Mapper struct {
	Rules []Rule
	Mode  MatchMode
}

// NewMapper returns a Mapper over rules.
func NewMapper(rules []Rule, mode MatchMode) *Mapper {
	return &Mapper{Rules: rules, Mode: mode}
}

// Map returns the type of the first rule matching native, or native itself
// when no rule matches.
func (m *Mapper) Map(native string) string {
	for _, r := range m.Rules {
		if m.matches(r.Pattern, native) {
			return r.Type
		}
	}
	return native
}

func (m *Mapper) matches(pattern, native string) bool {
	if m.Mode == MatchExact {
		return native == pattern
	}
	return strings.Contains(native, pattern)
}

// Describe maps every field, preserving order.
func (m *Mapper) Describe(fields []NativeField) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: f.Name, Type: m.Map(f.NativeType)}
	}
	return out
}
