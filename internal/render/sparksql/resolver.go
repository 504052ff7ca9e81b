// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package sparksql

import "strings"

type resolver struct {
	database string
}

func (r *resolver) PrimitiveType(portable string) string {
	switch portable {
	case "string":
		return "STRING"
	case "int":
		return "INT"
	case "long":
		return "BIGINT"
	case "double":
		return "DOUBLE"
	case "timestamp":
		return "TIMESTAMP"
	case "date":
		return "DATE"
	case "boolean", "BooleanType":
		return "BOOLEAN"
	default:
		return strings.ToUpper(portable)
	}
}

func (r *resolver) FormatTableName(dataset string) string {
	if r.database == "" {
		return dataset
	}
	return r.database + "." + dataset
}
