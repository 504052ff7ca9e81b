// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/compress"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
)

const parquetRowGroupSize = 64 * 1024

// WriteParquet encodes d as a snappy compressed parquet file.
func (d *Dataset) WriteParquet(w io.Writer) error {
	tbl := array.NewTableFromRecords(d.Schema(), []arrow.Record{d.rec})
	defer tbl.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(false),
	)
	if err := pqarrow.WriteTable(tbl, w, parquetRowGroupSize, props, pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("writing parquet: %w", err)
	}
	return nil
}

// ParquetBytes returns d encoded as a parquet file.
func (d *Dataset) ParquetBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteParquet(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadParquet decodes a whole parquet file into a single dataset.
func ReadParquet(ctx context.Context, mem memory.Allocator, data []byte) (*Dataset, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	pf, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}
	defer pf.Close() //nolint:errcheck

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}
	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading parquet: %w", err)
	}
	defer tbl.Release()

	// a table may be split into several chunks; gather them into one record
	var parts []*Dataset
	defer func() {
		for _, p := range parts {
			p.Release()
		}
	}()
	tr := array.NewTableReader(tbl, parquetRowGroupSize)
	defer tr.Release()
	for tr.Next() {
		parts = append(parts, New(mem, tr.Record()))
	}
	return Concat(mem, tbl.Schema(), parts...)
}
