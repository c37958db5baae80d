package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Options holds the credentials needed by the remote backends.
type Options struct {
	GCSCredentialsFile string
	MinIO              MinIOOptions
}

// Target is a parsed output location.
type Target struct {
	// Scheme is "gs", "s3" or "" for the local filesystem.
	Scheme string
	Bucket string
	// Key is the object key or file path within the backend.
	Key string
}

// ParseTarget splits an output location such as gs://bucket/dir/out.jsonl
// into its backend and key.
func ParseTarget(location string) (Target, error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		if location == "" {
			return Target{}, fmt.Errorf("empty output path")
		}
		return Target{Key: location}, nil
	}

	switch scheme {
	case "gs", "s3":
	default:
		return Target{}, fmt.Errorf("unsupported output scheme %q", scheme)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Target{}, fmt.Errorf("output %q must name a bucket and an object", location)
	}
	return Target{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// String returns the location t was parsed from.
func (t Target) String() string {
	if t.Scheme == "" {
		return t.Key
	}
	return t.Scheme + "://" + t.Bucket + "/" + t.Key
}

// Open returns the backend for t.
func Open(ctx context.Context, t Target, opts Options) (Storage, error) {
	switch t.Scheme {
	case "gs":
		return NewGCSStorage(ctx, t.Bucket, "", opts.GCSCredentialsFile)
	case "s3":
		return NewMinIOStorage(ctx, opts.MinIO, t.Bucket, "")
	default:
		return NewLocalFileStorage(""), nil
	}
}

func contentTypeFor(key string) string {
	switch path.Ext(key) {
	case ".jsonl", ".ndjson":
		return "application/x-ndjson"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
