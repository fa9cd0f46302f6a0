// Package images stores record cover images under deterministic,
// id-scoped keys, on local disk or S3.
package images

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when no object is stored under the given key.
var ErrNotExist = errors.New("image does not exist")

// Provider abstracts where cover image bytes live.
type Provider interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}
