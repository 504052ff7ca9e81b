// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pyspark renders a manifest as a PySpark StructType.
package pyspark

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/render"
)

// Translator renders PySpark schema definitions.
type Translator struct{}

// FileExtension returns the file extension for PySpark files.
func (t *Translator) FileExtension() string {
	return ".py"
}

// Render converts the manifest to a module exposing _schema(), which
// returns the StructType of one row. Every field is nullable, as CSV
// inference produces them.
func (t *Translator) Render(m *manifest.Manifest) ([]byte, error) {
	data := render.Prepare(m, &resolver{})
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("dataset %s has no columns", m.Dataset)
	}

	var sb strings.Builder

	// only the types in use are imported
	imports := map[string]bool{"StructField": true, "StructType": true}
	for _, c := range data.Columns {
		imports[c.Type] = true
	}
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("from pyspark.sql.types import (\n")
	for _, name := range names {
		sb.WriteString("    " + name + ",\n")
	}
	sb.WriteString(")\n\n\n")

	sb.WriteString("def _schema():\n")
	if data.Description != "" {
		sb.WriteString(`    """` + strings.ReplaceAll(data.Description, `"""`, `\"\"\"`) + `"""` + "\n")
	}
	sb.WriteString("    return StructType([\n")
	for i, c := range data.Columns {
		sb.WriteString(fmt.Sprintf(`        StructField(%q, %s(), nullable=True)`, c.Name, c.Type))
		if i < len(data.Columns)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    ])\n")

	return []byte(sb.String()), nil
}
