// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package avro

import "strings"

type resolver struct{}

func (r *resolver) PrimitiveType(portable string) string {
	switch portable {
	case "int":
		return "int"
	case "long":
		return "long"
	case "double":
		return "double"
	case "boolean", "BooleanType":
		return "boolean"
	case "date":
		return "date"
	case "timestamp":
		return "timestamp-micros"
	default:
		return "string"
	}
}

// FormatTableName makes dataset a valid Avro name.
func (r *resolver) FormatTableName(dataset string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, dataset)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "_" + name
	}
	return name
}
