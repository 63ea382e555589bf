// Package blobstore abstracts where node tables are read from and edge lists
// are written to.
//
// Built-in implementations:
//
//   - LocalStore: local filesystem; reads are memory-mapped, writes are
//     staged in a temp file and renamed into place on Close
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 (streaming multipart uploads)
//   - minio.Store: MinIO and other S3-compatible servers
//
// ParseURL maps "s3://bucket/key", "minio://bucket/key" and plain paths to
// a Location that names the store and the blob.
//
// A WritableBlob only becomes visible once Close succeeds. Abort discards
// everything written so far.
package blobstore
