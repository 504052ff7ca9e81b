// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FSStore is a Store on the local filesystem. Each bucket is a directory
// below Root and keys are slash separated paths inside it.
type FSStore struct {
	Root string
}

var _ Store = (*FSStore)(nil)

// NewFSStore returns a store rooted at root.
func NewFSStore(root string) *FSStore {
	return &FSStore{Root: root}
}

// StoreFor returns the store serving loc: a filesystem store rooted at "/"
// for file locations, remote otherwise.
func StoreFor(loc Location, remote Store) Store {
	if loc.Local() {
		return NewFSStore(string(filepath.Separator))
	}
	return remote
}

func (s *FSStore) path(bucket, key string) (string, error) {
	if bucket == "" || strings.Contains(bucket, "/") || bucket == "." || bucket == ".." {
		return "", errors.Errorf("invalid bucket %q", bucket)
	}
	clean := filepath.Clean("/" + key)
	return filepath.Join(s.Root, bucket, filepath.FromSlash(clean)), nil
}

// Get reads the file for key.
func (s *FSStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(p) //nolint:gosec // path is rooted under Root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "reading file %v", p)
		}
		return nil, errors.Wrapf(err, "reading file %v", p)
	}
	return content, nil
}

// Put writes body to a temporary file and renames it into place.
func (s *FSStore) Put(_ context.Context, bucket, key string, body []byte, _ string) error {
	p, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return errors.Wrapf(err, "creating directory for %v", p)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".put-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for %v", p)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing file %v", p)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing file %v", p)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return errors.Wrapf(err, "renaming into %v", p)
	}
	return nil
}

// List walks the bucket directory. A missing bucket lists as empty.
func (s *FSStore) List(_ context.Context, bucket, prefix string) ([]string, error) {
	root, err := s.path(bucket, "")
	if err != nil {
		return nil, err
	}
	// walk only the deepest directory the prefix names
	start, err := s.path(bucket, prefix[:strings.LastIndex(prefix, "/")+1])
	if err != nil {
		return nil, err
	}
	var keys []string
	err = filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == start {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".put-") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing %v", start)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the file for key.
func (s *FSStore) Delete(_ context.Context, bucket, key string) error {
	p, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "deleting file %v", p)
	}
	return nil
}
