// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apalominor/lakehouse-challenge/internal/storage"
)

// brokenGetStore fails Get for one key.
type brokenGetStore struct {
	storage.Store
	key string
}

func (b *brokenGetStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if key == b.key {
		return nil, errors.New("connection reset")
	}
	return b.Store.Get(ctx, bucket, key)
}

func TestReadInput_ManyObjectsKeepListingOrder(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFSStore(t.TempDir())

	var want []string
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("in/part-%02d.csv", i)
		body := fmt.Sprintf("id,name\n%d,row-%d\n", i, i)
		require.NoError(t, store.Put(ctx, "raw", key, []byte(body), "text/csv"))
		want = append(want, key)
	}

	ds, keys, err := ReadInput(ctx, store, storage.Location{Bucket: "raw", Key: "in"}, nil)
	require.NoError(t, err)
	defer ds.Release()

	assert.Equal(t, want, keys)
	require.EqualValues(t, 20, ds.Count())
	col, err := ds.ColumnIndex("name")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Equal(t, fmt.Sprintf("row-%d", i), ds.Value(i, col))
	}
}

func TestReadInput_FetchErrorIsReported(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFSStore(t.TempDir())
	for i := 0; i < 3; i++ {
		require.NoError(t, fs.Put(ctx, "raw", fmt.Sprintf("in/%d.csv", i), []byte("id\n1\n"), "text/csv"))
	}
	store := &brokenGetStore{Store: fs, key: "in/1.csv"}

	_, _, err := ReadInput(ctx, store, storage.Location{Bucket: "raw", Key: "in"}, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "in/1.csv"), err.Error())
	assert.Contains(t, err.Error(), "connection reset")
}
