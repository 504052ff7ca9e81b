// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package markdown

import "github.com/apalominor/lakehouse-challenge/internal/render"

type resolver struct{}

func (r *resolver) PrimitiveType(portable string) string {
	return portable
}

func (r *resolver) FormatTableName(dataset string) string {
	return render.ToPascalCase(dataset)
}
