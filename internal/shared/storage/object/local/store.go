package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cruzados-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. Objects are
// served back by the API under baseURL.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a local object store rooted at baseDir whose URLs start with baseURL.
func New(baseDir, baseURL string) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put writes the reader to disk at key. The content type is not kept; Open
// callers derive it from the key's extension.
func (s *Store) Put(ctx context.Context, key, _ string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", 0, err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return "", 0, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("close file: %w", err)
	}
	return s.URL(clean), written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, filepath.FromSlash(clean)))
}

// Delete removes the object behind a URL previously returned by Put.
// Removing an object that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := s.KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL for key, path-escaping each segment.
func (s *Store) URL(key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segments, "/")
}

// KeyFromURL reverses URL.
func (s *Store) KeyFromURL(rawURL string) (string, error) {
	rest, ok := strings.CutPrefix(rawURL, s.baseURL+"/")
	if !ok {
		return "", object.ErrForeignURL
	}
	segments := strings.Split(rest, "/")
	for i, seg := range segments {
		unescaped, err := url.PathUnescape(seg)
		if err != nil {
			return "", fmt.Errorf("invalid storage url %q: %w", rawURL, err)
		}
		segments[i] = unescaped
	}
	return cleanKey(strings.Join(segments, "/"))
}

func cleanKey(key string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(strings.TrimLeft(key, "/")))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return clean, nil
}

var _ object.ObjectStore = (*Store)(nil)
