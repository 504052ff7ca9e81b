// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package job

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v10/arrow/memory"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
)

// ErrNoInput is returned when the input location holds no CSV objects.
var ErrNoInput = errors.New("no csv input")

const (
	csvExt = ".csv"
	// fetchConcurrency bounds the number of objects downloaded at once.
	fetchConcurrency = 8
)

// ReadInput reads the CSV object at loc, or every CSV object below it when
// loc is a prefix, and infers the column types. It also returns the keys read.
func ReadInput(ctx context.Context, store storage.Store, loc storage.Location, mem memory.Allocator) (*dataset.Dataset, []string, error) {
	var keys []string
	if strings.HasSuffix(strings.ToLower(loc.Key), csvExt) {
		keys = []string{loc.Key}
	} else {
		all, err := store.List(ctx, loc.Bucket, loc.Prefix())
		if err != nil {
			return nil, nil, err
		}
		for _, k := range all {
			if strings.HasSuffix(strings.ToLower(k), csvExt) {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return nil, nil, fmt.Errorf("%w under %v", ErrNoInput, loc)
		}
	}

	// Objects are fetched concurrently but keep their listing order.
	sources := make([]dataset.Source, len(keys))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(fetchConcurrency)
	for i, k := range keys {
		i, k := i, k
		eg.Go(func() error {
			data, err := store.Get(egCtx, loc.Bucket, k)
			if err != nil {
				return fmt.Errorf("reading %v: %w", storage.Location{Bucket: loc.Bucket, Key: k}, err)
			}
			sources[i] = dataset.Source{Name: k, Reader: bytes.NewReader(data)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	ds, err := dataset.ReadCSV(mem, dataset.CSVOptions{InferSchema: true}, sources...)
	if err != nil {
		return nil, nil, err
	}
	return ds, keys, nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
