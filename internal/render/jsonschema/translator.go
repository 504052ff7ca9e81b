// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jsonschema renders a manifest as a JSON Schema describing one row.
package jsonschema

import (
	"encoding/json"
	"fmt"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/google/jsonschema-go/jsonschema"
)

// Translator renders JSON Schema documents.
type Translator struct{}

// FileExtension returns the file extension for JSON Schema files.
func (t *Translator) FileExtension() string {
	return ".schema.json"
}

// Render builds an object schema with one property per manifest column.
// Properties keep the manifest's column order.
func (t *Translator) Render(m *manifest.Manifest) ([]byte, error) {
	s := &jsonschema.Schema{
		Title:         m.Dataset,
		Description:   m.Description,
		Type:          "object",
		Properties:    make(map[string]*jsonschema.Schema, len(m.Schema)),
		PropertyOrder: make([]string, 0, len(m.Schema)),
	}
	for _, f := range m.Schema {
		s.Properties[f.Name] = property(f.Type)
		s.PropertyOrder = append(s.PropertyOrder, f.Name)
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return append(out, '\n'), nil
}

func property(portable string) *jsonschema.Schema {
	switch portable {
	case "int", "long":
		return &jsonschema.Schema{Type: "integer"}
	case "double":
		return &jsonschema.Schema{Type: "number"}
	case "boolean", "BooleanType":
		return &jsonschema.Schema{Type: "boolean"}
	case "timestamp":
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case "date":
		return &jsonschema.Schema{Type: "string", Format: "date"}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}
