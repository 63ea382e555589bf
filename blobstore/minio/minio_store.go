package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/geoknn/blobstore"
)

// DefaultEndpoint is used when MINIO_ENDPOINT is unset.
const DefaultEndpoint = "localhost:9000"

var _ blobstore.BlobStore = (*Store)(nil)

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO blob store.
// rootPrefix is prepended to all keys (e.g. "graphs/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// NewClientFromEnv builds a client from the MINIO_* environment variables.
func NewClientFromEnv() (*minio.Client, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	secure := false
	if v := os.Getenv("MINIO_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("minio: MINIO_SECURE: %w", err)
		}
		secure = b
	}

	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvMinio(),
		Secure: secure,
		Region: os.Getenv("MINIO_REGION"),
	})
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens an existing blob for reading.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err, key)
	}
	// GetObject is lazy; Stat surfaces a missing key before the first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, s.mapError(err, key)
	}
	return obj, nil
}

// Create creates a new blob for streaming writes.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.key(name)

	return blobstore.NewUploadBlob(ctx, func(ctx context.Context, body io.Reader) error {
		if _, err := s.client.PutObject(ctx, s.bucket, key, body, -1, minio.PutObjectOptions{}); err != nil {
			return fmt.Errorf("minio: upload %s/%s: %w", s.bucket, key, err)
		}
		return nil
	}), nil
}

func (s *Store) mapError(err error, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return fmt.Errorf("%w: minio://%s/%s", blobstore.ErrNotFound, s.bucket, key)
	}
	return err
}
