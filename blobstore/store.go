package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// ErrAborted is reported by writes to a blob after Abort.
var ErrAborted = errors.New("blobstore: upload aborted")

// BlobStore reads and writes whole blobs by name.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Create starts a new blob. It replaces any existing blob of the same
	// name once Close returns nil.
	Create(ctx context.Context, name string) (WritableBlob, error)
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser
	// Abort discards the blob. It is a no-op after Close.
	Abort() error
}
