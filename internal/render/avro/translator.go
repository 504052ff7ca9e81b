// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package avro renders a manifest as an Apache Avro record schema.
package avro

import (
	"encoding/json"
	"fmt"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/render"
)

// Translator renders Avro schema definitions.
type Translator struct {
	// Namespace defaults to "lakejob".
	Namespace string
}

// FileExtension returns the file extension for Avro schema files.
func (t *Translator) FileExtension() string {
	return ".avsc"
}

// avroRecord represents an Avro record schema.
type avroRecord struct {
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Doc       string      `json:"doc,omitempty"`
	Fields    []avroField `json:"fields"`
}

// avroField represents a field within an Avro record. CSV columns may hold
// empty cells, so every field is a union with null.
type avroField struct {
	Name    string `json:"name"`
	Type    []any  `json:"type"`
	Default any    `json:"default"`
}

// avroLogicalType represents an Avro logical type.
type avroLogicalType struct {
	Type        string `json:"type"`
	LogicalType string `json:"logicalType"`
}

// Render converts the manifest to an Avro schema JSON document.
func (t *Translator) Render(m *manifest.Manifest) ([]byte, error) {
	data := render.Prepare(m, &resolver{})

	ns := t.Namespace
	if ns == "" {
		ns = "lakejob"
	}
	root := avroRecord{
		Type:      "record",
		Name:      data.Name,
		Namespace: ns,
		Doc:       data.Description,
		Fields:    make([]avroField, 0, len(data.Columns)),
	}
	for _, c := range data.Columns {
		root.Fields = append(root.Fields, avroField{
			Name: c.Name,
			Type: []any{"null", avroType(c.Type)},
		})
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Avro schema: %w", err)
	}
	return append(out, '\n'), nil
}

func avroType(t string) any {
	switch t {
	case "date":
		return avroLogicalType{Type: "int", LogicalType: "date"}
	case "timestamp-micros":
		return avroLogicalType{Type: "long", LogicalType: "timestamp-micros"}
	}
	return t
}
