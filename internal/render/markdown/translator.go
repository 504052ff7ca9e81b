// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package markdown renders a manifest as a markdown data dictionary.
package markdown

import (
	"bytes"
	"embed"
	"fmt"
	"slices"
	"text/template"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/render"
)

//go:embed markdown.md.tmpl
var tmplFS embed.FS

var funcMap = template.FuncMap{
	"partitionKey": func(name string, keys []string) bool {
		return slices.Contains(keys, name)
	},
}

var tmpl = template.Must(template.New("markdown.md.tmpl").Funcs(funcMap).ParseFS(tmplFS, "markdown.md.tmpl"))

// Translator renders markdown documentation.
type Translator struct{}

// FileExtension returns the file extension for markdown files.
func (t *Translator) FileExtension() string {
	return ".md"
}

// Render converts the manifest to a column table followed by its access
// level tags.
func (t *Translator) Render(m *manifest.Manifest) ([]byte, error) {
	data := render.Prepare(m, &resolver{})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "markdown.md.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}
