// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible servers (Ceph, SeaweedFS,
// Garage) without pulling in the AWS SDK.
//
//	client, err := minio.NewClientFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := minio.NewStore(client, "freight", "graphs/")
//
// NewClientFromEnv reads MINIO_ENDPOINT (default "localhost:9000"),
// MINIO_SECURE and the credentials understood by
// credentials.NewEnvMinio (MINIO_ROOT_USER/MINIO_ROOT_PASSWORD or
// MINIO_ACCESS_KEY/MINIO_SECRET_KEY).
package minio
