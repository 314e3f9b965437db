package storage

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist is returned when a key is not present in the store.
	ErrNotExist = errors.New("file does not exist")
	// ErrExists is returned by Put when the key is already taken.
	ErrExists = errors.New("file already exists")
)

// ObjectInfo describes a stored file.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// FileStore is opaque private blob storage keyed by path. Put never
// replaces an existing object: it fails with ErrExists instead.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}
