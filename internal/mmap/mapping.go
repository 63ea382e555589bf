package mmap

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by reads on a mapping that was closed.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrTooLarge is returned when a file does not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
	// ErrNegativeOffset is returned by ReadAt for offsets below zero.
	ErrNegativeOffset = errors.New("mmap: negative offset")
)

type hint uint8

const (
	hintSequential hint = iota
	hintPrefetch
)

// Mapping is a read-only memory-mapped file.
type Mapping struct {
	data    []byte
	closed  atomic.Bool
	release func() error
}

// Open maps the file at path into memory.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size > math.MaxInt {
		return nil, ErrTooLarge
	}

	data, release, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, release: release}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.release == nil {
		return nil
	}
	return m.release()
}

// Bytes returns the mapped contents, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Prefetch asks the kernel to start paging the whole file in.
func (m *Mapping) Prefetch() error {
	return m.advise(hintPrefetch)
}

func (m *Mapping) advise(h hint) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return advise(m.data, h)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// NewReader returns a sequential reader over the mapping that unmaps it on
// Close.
func (m *Mapping) NewReader() io.ReadCloser {
	_ = m.advise(hintSequential)
	return &reader{Reader: bytes.NewReader(m.data), m: m}
}

type reader struct {
	*bytes.Reader
	m *Mapping
}

func (r *reader) Read(p []byte) (int, error) {
	if r.m.closed.Load() {
		return 0, ErrClosed
	}
	return r.Reader.Read(p)
}

func (r *reader) Close() error {
	return r.m.Close()
}
