package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/geoknn/internal/mmap"
)

// LocalStore implements BlobStore using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open maps the blob into memory and returns a reader over it.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := mmap.Open(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return m.NewReader(), nil
}

// Create writes to a temp file next to the target and renames it into
// place on Close.
func (s *LocalStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := s.path(name)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{f: f, target: target}, nil
}

type localWritableBlob struct {
	f      *os.File
	target string

	once sync.Once
	err  error
}

func (b *localWritableBlob) Write(p []byte) (int, error) {
	return b.f.Write(p)
}

func (b *localWritableBlob) Close() error {
	b.once.Do(func() {
		b.err = b.commit()
	})
	return b.err
}

func (b *localWritableBlob) commit() error {
	tmp := b.f.Name()
	if err := b.f.Sync(); err != nil {
		_ = b.f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := b.f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, b.target); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (b *localWritableBlob) Abort() error {
	var err error
	b.once.Do(func() {
		_ = b.f.Close()
		err = os.Remove(b.f.Name())
		b.err = ErrAborted
	})
	return err
}
