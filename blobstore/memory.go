package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps blobs in a map. It backs pipeline tests and dry runs,
// and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

// Open implements BlobStore.
func (m *MemoryStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create implements BlobStore. Nothing is visible until Close.
func (m *MemoryStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &pendingBlob{store: m, name: name}, nil
}

// Put stores a copy of data under name.
func (m *MemoryStore) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[name] = bytes.Clone(data)
}

// Get returns a copy of the named blob.
func (m *MemoryStore) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// List returns the sorted names of all blobs with the given prefix.
func (m *MemoryStore) List(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// pendingBlob buffers writes until Close publishes them.
type pendingBlob struct {
	store   *MemoryStore
	name    string
	pending bytes.Buffer
	done    bool
	err     error
}

func (w *pendingBlob) Write(p []byte) (int, error) {
	if w.done {
		return 0, io.ErrClosedPipe
	}
	return w.pending.Write(p)
}

func (w *pendingBlob) Close() error {
	if w.done {
		return w.err
	}
	w.done = true
	w.store.Put(w.name, w.pending.Bytes())
	return nil
}

func (w *pendingBlob) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.err = ErrAborted
	w.pending.Reset()
	return nil
}
