package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrUnsupportedSource = errors.New("storage: unsupported source")

// Provider fetches the object behind a parsed source location.
type Provider interface {
	Get(ctx context.Context, loc Location) (*FileObject, error)
}

// FileObject is the provider-agnostic representation of a file.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}
