package ports

import (
	"context"
	"io"
)

// ImageStore uploads product images and returns a publicly fetchable URL.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ImageReader is implemented by stores that serve their own uploads.
type ImageReader interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
