// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package storage provides object storage access for job inputs and outputs.
package storage

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a bucket or key does not exist.
var ErrNotFound = errors.New("object does not exist")

// Store is the object storage interface used by the job. Put is a single
// whole-object write: readers never observe a partially written object.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
	// List returns every key in bucket that starts with prefix, sorted.
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, bucket, key string) error
}

// SchemeFile marks locations on the local filesystem.
const SchemeFile = "file"

// Location addresses an object or a key prefix inside a bucket.
type Location struct {
	Bucket string
	Key    string
	// Scheme is SchemeFile for local paths and empty for object storage.
	Scheme string
}

// ParseLocation parses "s3://bucket/key", "s3a://bucket/key",
// "file:///abs/path" or "bucket/key". When s has no scheme and defaultBucket
// is set, the whole string is treated as a key inside defaultBucket.
//
// A file location uses the first directory of the path as its bucket, so
// "file:///data/raw/customers/" is key "raw/customers/" in bucket "data"
// of a filesystem store rooted at "/".
func ParseLocation(s, defaultBucket string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("empty location")
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return Location{}, errors.Wrapf(err, "parsing location %v", s)
		}
		switch u.Scheme {
		case "s3", "s3a", "s3n":
		case SchemeFile:
			return parseFileLocation(u, s)
		default:
			return Location{}, errors.Errorf("unsupported scheme %q in %v", u.Scheme, s)
		}
		if u.Host == "" {
			return Location{}, errors.Errorf("missing bucket in %v", s)
		}
		return Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
	}
	if defaultBucket != "" {
		return Location{Bucket: defaultBucket, Key: strings.TrimPrefix(s, "/")}, nil
	}
	bucket, key, _ := strings.Cut(strings.TrimPrefix(s, "/"), "/")
	return Location{Bucket: bucket, Key: key}, nil
}

func parseFileLocation(u *url.URL, s string) (Location, error) {
	if u.Host != "" && u.Host != "localhost" {
		return Location{}, errors.Errorf("file location %v must be an absolute local path", s)
	}
	bucket, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if bucket == "" || bucket == "." || bucket == ".." {
		return Location{}, errors.Errorf("missing directory in %v", s)
	}
	return Location{Bucket: bucket, Key: key, Scheme: SchemeFile}, nil
}

// Local reports whether l is on the local filesystem.
func (l Location) Local() bool {
	return l.Scheme == SchemeFile
}

// Join returns the location of elem below l.
func (l Location) Join(elem ...string) Location {
	parts := append([]string{l.Key}, elem...)
	return Location{Bucket: l.Bucket, Key: strings.TrimPrefix(path.Join(parts...), "/"), Scheme: l.Scheme}
}

// Prefix returns Key with a trailing slash, suitable for List.
func (l Location) Prefix() string {
	if l.Key == "" || strings.HasSuffix(l.Key, "/") {
		return l.Key
	}
	return l.Key + "/"
}

func (l Location) String() string {
	if l.Local() {
		return "file:///" + path.Join(l.Bucket, l.Key)
	}
	return "s3://" + path.Join(l.Bucket, l.Key)
}
