package object

import (
	"context"
	"errors"
	"io"
)

// ErrForeignURL reports a URL that was not issued by the store asked to act on it.
var ErrForeignURL = errors.New("url does not belong to this object store")

// ObjectStore saves attachment bytes under caller-chosen keys and hands back
// the durable URL clients use to fetch them.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (url string, sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, url string) error
}
