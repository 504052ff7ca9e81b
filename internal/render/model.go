// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package render

import (
	"strings"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
)

// TypeResolver converts portable manifest types to target type strings.
type TypeResolver interface {
	// PrimitiveType maps a manifest type such as "long" to a target type.
	PrimitiveType(portable string) string

	// FormatTableName formats the dataset name for the target.
	FormatTableName(dataset string) string
}

// TableData is the input handed to format templates.
type TableData struct {
	Name        string
	Description string
	Columns     []Column
	PartitionBy []string
	Properties  []Property
}

// Column is a resolved column.
type Column struct {
	Name string
	Type string
}

// Property is an ordered key/value table property.
type Property struct {
	Key   string
	Value string
}

// Prepare resolves every manifest column with resolver.
func Prepare(m *manifest.Manifest, resolver TypeResolver) *TableData {
	data := &TableData{
		Name:        resolver.FormatTableName(m.Dataset),
		Description: m.Description,
		Columns:     make([]Column, len(m.Schema)),
	}
	for i, f := range m.Schema {
		data.Columns[i] = Column{Name: f.Name, Type: resolver.PrimitiveType(f.Type)}
	}
	if m.PartitionBy != "" && m.PartitionBy != manifest.NoPartition {
		data.PartitionBy = []string{m.PartitionBy}
	}
	if m.AccessLevel.TagKey != "" {
		data.Properties = append(data.Properties, Property{Key: m.AccessLevel.TagKey, Value: m.AccessLevel.TagValue})
	}
	return data
}

// ToPascalCase converts snake_case or kebab-case to PascalCase.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return sb.String()
}
