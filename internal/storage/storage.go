// Package storage abstracts object storage for evidence photos and ledger
// exports.
//
// Two implementations exist: LocalStore keeps objects on the filesystem for
// development, S3Store targets any S3-compatible bucket (AWS, MinIO) for
// production. All methods are context-aware.
package storage

import (
	"context"
	"io"
	"time"
)

// Store is the object storage contract.
type Store interface {
	// Put stores data at key. Fails with ErrKeyExists when the key is
	// taken and opts.Overwrite is false, and with ErrTooLarge when data
	// exceeds opts.MaxSize.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get returns the object's data (caller closes) and metadata, or
	// ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns an access URL for the object; private backends return a
	// presigned URL valid for the given duration.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType is the MIME type; empty means detect from the key.
	ContentType string

	// MaxSize caps the object size in bytes; 0 means unlimited.
	MaxSize int64

	// Overwrite allows replacing an existing object.
	Overwrite bool
}

// ObjectInfo is metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// LocalConfig configures filesystem storage.
type LocalConfig struct {
	BasePath string // root directory, e.g. "./storage"
	BaseURL  string // public prefix, e.g. "http://localhost:8080/files"
}

// S3Config configures an S3-compatible bucket.
type S3Config struct {
	Endpoint        string // empty for AWS proper
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string // optional custom-domain prefix; empty means presign
}
