package blobstore

import (
	"context"
	"io"
	"sync"
)

// UploadFunc consumes body until EOF and stores it. It must return once ctx
// is canceled or body fails.
type UploadFunc func(ctx context.Context, body io.Reader) error

// uploadBlob bridges a streaming writer to an upload running in its own
// goroutine.
type uploadBlob struct {
	pw     *io.PipeWriter
	cancel context.CancelFunc
	done   chan error

	once sync.Once
	err  error
}

// NewUploadBlob starts upload in the background and returns a WritableBlob
// feeding it. Close waits for the upload and returns its error.
func NewUploadBlob(ctx context.Context, upload UploadFunc) WritableBlob {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()

	b := &uploadBlob{
		pw:     pw,
		cancel: cancel,
		done:   make(chan error, 1),
	}

	go func() {
		err := upload(ctx, pr)
		_ = pr.CloseWithError(err)
		b.done <- err
	}()

	return b
}

func (b *uploadBlob) Write(p []byte) (int, error) {
	return b.pw.Write(p)
}

func (b *uploadBlob) Close() error {
	b.once.Do(func() {
		_ = b.pw.Close()
		b.err = <-b.done
		b.cancel()
	})
	return b.err
}

func (b *uploadBlob) Abort() error {
	b.once.Do(func() {
		_ = b.pw.CloseWithError(ErrAborted)
		b.cancel()
		<-b.done
		b.err = ErrAborted
	})
	return nil
}
