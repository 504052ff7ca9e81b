// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
)

// ErrNoHeader is returned when none of the inputs has a header row.
var ErrNoHeader = errors.New("no csv header found")

// CSVOptions controls CSV parsing.
type CSVOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// InferSchema detects column types from the data. When false every
	// column is read as StringType.
	InferSchema bool
}

// Source is one named CSV input.
type Source struct {
	Name   string
	Reader io.Reader
}

// ReadCSV reads sources that each start with the same header row and
// concatenates their rows. Empty cells are nulls. Empty sources are skipped.
func ReadCSV(mem memory.Allocator, opts CSVOptions, sources ...Source) (*Dataset, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	var (
		header []string
		rows   [][]string
	)
	for _, src := range sources {
		r := csv.NewReader(src.Reader)
		if opts.Delimiter != 0 {
			r.Comma = opts.Delimiter
		}
		r.FieldsPerRecord = 0

		h, err := r.Read()
		if err == io.EOF {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading header from %s: %w", src.Name, err)
		}
		if len(h) > 0 {
			h[0] = strings.TrimPrefix(h[0], "\ufeff")
		}
		if header == nil {
			if err := checkHeader(h); err != nil {
				return nil, fmt.Errorf("%s: %w", src.Name, err)
			}
			header = h
		} else if !slices.Equal(header, h) {
			return nil, fmt.Errorf("%s: header %v does not match %v", src.Name, h, header)
		}

		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", src.Name, err)
			}
			rows = append(rows, rec)
		}
	}
	if header == nil {
		return nil, ErrNoHeader
	}

	types := make([]string, len(header))
	for col := range header {
		types[col] = StringType
		if opts.InferSchema {
			types[col] = inferColumn(rows, col)
		}
	}
	return buildFromStrings(mem, header, types, rows)
}

func checkHeader(h []string) error {
	seen := make(map[string]bool, len(h))
	for _, name := range h {
		if name == "" {
			return errors.New("empty column name in header")
		}
		if seen[name] {
			return fmt.Errorf("duplicate column %q in header", name)
		}
		seen[name] = true
	}
	return nil
}

func buildFromStrings(mem memory.Allocator, header, types []string, rows [][]string) (*Dataset, error) {
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		dt, err := ArrowType(types[i])
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()
	for n, row := range rows {
		for i, f := range fields {
			v, err := parseAs(row[i], types[i])
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", n+1, f.Name, err)
			}
			if err := appendValue(rb.Field(i), f.Type, v); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", n+1, f.Name, err)
			}
		}
	}
	rec := rb.NewRecord()
	defer rec.Release()
	return New(mem, rec), nil
}

// inferColumn widens the per-cell types of one column. Columns with no
// values at all are strings.
func inferColumn(rows [][]string, col int) string {
	t := ""
	for _, row := range rows {
		t = mergeTypes(t, inferValue(row[col]))
		if t == StringType {
			break
		}
	}
	if t == "" {
		return StringType
	}
	return t
}

// inferValue returns the narrowest type tag that can hold s, or "" for
// an empty cell.
func inferValue(s string) string {
	switch {
	case s == "":
		return ""
	case fitsInt(s, 32):
		return IntegerType
	case fitsInt(s, 64):
		return LongType
	case isDouble(s):
		return DoubleType
	case strings.EqualFold(s, "true") || strings.EqualFold(s, "false"):
		return BooleanType
	}
	if _, ok := parseDate(s); ok {
		return DateType
	}
	if _, ok := parseTimestamp(s); ok {
		return TimestampType
	}
	return StringType
}

var numericRank = map[string]int{IntegerType: 1, LongType: 2, DoubleType: 3}

func mergeTypes(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	}
	ra, aNum := numericRank[a]
	rb, bNum := numericRank[b]
	if aNum && bNum {
		if ra > rb {
			return a
		}
		return b
	}
	if (a == DateType && b == TimestampType) || (a == TimestampType && b == DateType) {
		return TimestampType
	}
	return StringType
}

func fitsInt(s string, bits int) bool {
	_, err := strconv.ParseInt(s, 10, bits)
	return err == nil
}

func isDouble(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	// ParseFloat also accepts hex floats and spelled out infinities.
	lower := strings.ToLower(s)
	return !strings.HasPrefix(strings.TrimLeft(lower, "+-"), "0x") &&
		!strings.Contains(lower, "inf") && !strings.Contains(lower, "nan")
}

const dateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// parseTimestamp parses s as UTC unless it carries an offset.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseTime accepts either a timestamp or a bare date.
func parseTime(s string) (time.Time, bool) {
	if t, ok := parseTimestamp(s); ok {
		return t, true
	}
	return parseDate(s)
}

func parseAs(s, native string) (any, error) {
	if s == "" {
		return nil, nil
	}
	switch native {
	case StringType:
		return s, nil
	case IntegerType:
		n, err := strconv.ParseInt(s, 10, 32)
		return int32(n), err
	case LongType:
		return strconv.ParseInt(s, 10, 64)
	case DoubleType:
		return strconv.ParseFloat(s, 64)
	case BooleanType:
		return strconv.ParseBool(strings.ToLower(s))
	case DateType, TimestampType:
		t, ok := parseTime(s)
		if !ok {
			return nil, fmt.Errorf("cannot parse %q as %s", s, native)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported native type %q", native)
	}
}
