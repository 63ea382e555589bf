package blobstore

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrInvalidURL is returned by ParseURL for locations it cannot resolve.
var ErrInvalidURL = errors.New("blobstore: invalid location")

// Scheme identifies a storage backend.
type Scheme string

const (
	SchemeFile  Scheme = "file"
	SchemeS3    Scheme = "s3"
	SchemeMinIO Scheme = "minio"
)

// Location is a parsed blob address. For SchemeFile, Bucket is the
// directory and Key the file name.
type Location struct {
	Scheme Scheme
	Bucket string
	Key    string
}

func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return filepath.Join(l.Bucket, l.Key)
	}
	return string(l.Scheme) + "://" + l.Bucket + "/" + l.Key
}

// ParseURL resolves "s3://bucket/key", "minio://bucket/key", "file:///path"
// or a plain filesystem path.
func ParseURL(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrInvalidURL)
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return fileLocation(raw), nil
	}

	switch Scheme(strings.ToLower(scheme)) {
	case SchemeFile:
		u, err := url.Parse(raw)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		if u.Path == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidURL, raw)
		}
		return fileLocation(filepath.FromSlash(u.Path)), nil
	case SchemeS3, SchemeMinIO:
		bucket, key, _ := strings.Cut(rest, "/")
		key = strings.TrimLeft(key, "/")
		if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
			return Location{}, fmt.Errorf("%w: %q needs a bucket and an object key", ErrInvalidURL, raw)
		}
		return Location{Scheme: Scheme(strings.ToLower(scheme)), Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, scheme)
	}
}

func fileLocation(p string) Location {
	return Location{Scheme: SchemeFile, Bucket: filepath.Dir(p), Key: filepath.Base(p)}
}
