// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pyspark

type resolver struct{}

func (r *resolver) PrimitiveType(portable string) string {
	switch portable {
	case "int":
		return "IntegerType"
	case "long":
		return "LongType"
	case "double":
		return "DoubleType"
	case "timestamp":
		return "TimestampType"
	case "date":
		return "DateType"
	case "boolean", "BooleanType":
		return "BooleanType"
	default:
		return "StringType"
	}
}

func (r *resolver) FormatTableName(dataset string) string {
	return dataset
}
