// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "freight-graphs",
//	    s3.WithPrefix("runs/2024-06/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Reads stream the object body. Writes stream through the multipart
// uploader and only become visible when Close succeeds.
package s3
