// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package sparksql renders Spark DDL for a manifest.
package sparksql

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/render"
)

//go:embed sparksql.sql.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"last": func(i int, cols []render.Column) bool {
		return i == len(cols)-1
	},
	"join": strings.Join,
	"quote": func(s string) string {
		return strings.ReplaceAll(s, "'", "\\'")
	},
}).ParseFS(tmplFS, "sparksql.sql.tmpl"))

// Translator renders a manifest as a Spark SQL CREATE TABLE statement.
type Translator struct {
	// Database qualifies the table name when set.
	Database string
}

// FileExtension returns the file extension for SQL files.
func (t *Translator) FileExtension() string {
	return ".sql"
}

// Render converts the manifest to a CREATE TABLE statement.
func (t *Translator) Render(m *manifest.Manifest) ([]byte, error) {
	data := render.Prepare(m, &resolver{database: t.Database})
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("dataset %s has no columns", m.Dataset)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "sparksql.sql.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}
