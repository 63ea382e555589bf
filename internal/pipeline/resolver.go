package pipeline

import (
	"context"
	"fmt"

	"github.com/hupe1980/geoknn/blobstore"
	"github.com/hupe1980/geoknn/blobstore/minio"
	"github.com/hupe1980/geoknn/blobstore/s3"
)

// Resolver returns the store that holds loc. The pipeline then addresses
// the blob as loc.Key within it.
type Resolver func(ctx context.Context, loc blobstore.Location) (blobstore.BlobStore, error)

// DefaultResolver opens local paths directly, S3 locations with the shared
// AWS configuration and MinIO locations with the MINIO_* environment.
func DefaultResolver(ctx context.Context, loc blobstore.Location) (blobstore.BlobStore, error) {
	switch loc.Scheme {
	case blobstore.SchemeFile:
		return blobstore.NewLocalStore(loc.Bucket), nil
	case blobstore.SchemeS3:
		return s3.New(ctx, loc.Bucket)
	case blobstore.SchemeMinIO:
		client, err := minio.NewClientFromEnv()
		if err != nil {
			return nil, err
		}
		return minio.NewStore(client, loc.Bucket, ""), nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", blobstore.ErrInvalidURL, loc.Scheme)
	}
}

// StaticResolver serves every location from store.
func StaticResolver(store blobstore.BlobStore) Resolver {
	return func(context.Context, blobstore.Location) (blobstore.BlobStore, error) {
		return store, nil
	}
}
