package s3

import "github.com/aws/aws-sdk-go-v2/feature/s3/manager"

// UploadConfig tunes the multipart uploader behind Create. Zero values keep
// the SDK defaults.
type UploadConfig struct {
	PartSize    int64 // bytes per part, at least 5 MiB when set
	Concurrency int   // parts in flight per object
	Checksum    bool  // ask S3 to verify a CRC32C of every part
}

// DefaultUploadConfig returns the settings used unless WithUploadConfig is
// given. Parts are larger than the SDK's 5 MiB so that a multi-gigabyte edge
// list stays well below the 10,000 part limit.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:    16 << 20,
		Concurrency: 4,
		Checksum:    true,
	}
}

func (c UploadConfig) uploader(client Client) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if c.PartSize > 0 {
			u.PartSize = c.PartSize
		}
		if c.Concurrency > 0 {
			u.Concurrency = c.Concurrency
		}
	})
}
