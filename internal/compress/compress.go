// Package compress wraps edge and node streams in zstd or lz4 framing,
// selected from the file extension.
package compress

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a stream compression format.
type Kind uint8

const (
	// None passes bytes through unchanged.
	None Kind = iota
	// Zstd is zstandard framing (.zst), better ratio for archived edge lists.
	Zstd
	// LZ4 is lz4 framing (.lz4), faster for scratch outputs.
	LZ4
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Ext returns the file extension for k, including the dot.
func (k Kind) Ext() string {
	switch k {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// FromPath infers the compression format from the last extension of p.
func FromPath(p string) Kind {
	switch strings.ToLower(path.Ext(p)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// TrimExt removes a compression extension from p, if present.
func TrimExt(p string) string {
	if FromPath(p) == None {
		return p
	}
	return strings.TrimSuffix(p, path.Ext(p))
}

// NewWriter wraps w so that bytes written are compressed with kind.
// Closing the returned writer flushes the frame but does not close w.
func NewWriter(w io.Writer, kind Kind) (io.WriteCloser, error) {
	switch kind {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("compress: zstd writer: %w", err)
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("compress: unsupported kind %v", kind)
	}
}

// NewReader wraps r so that reads return decompressed bytes.
// Closing the returned reader releases decoder state but does not close r.
func NewReader(r io.Reader, kind Kind) (io.ReadCloser, error) {
	switch kind {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("compress: zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("compress: unsupported kind %v", kind)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
