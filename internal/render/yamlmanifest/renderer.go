// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package yamlmanifest renders the manifest itself.
package yamlmanifest

import "github.com/apalominor/lakehouse-challenge/internal/manifest"

// Renderer writes the manifest document as YAML.
type Renderer struct{}

// FileExtension returns the file extension for YAML files.
func (r *Renderer) FileExtension() string {
	return ".yaml"
}

// Render encodes m.
func (r *Renderer) Render(m *manifest.Manifest) ([]byte, error) {
	return m.Marshal()
}
