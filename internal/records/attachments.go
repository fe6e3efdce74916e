package records

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/shared/storage/object"
	"cruzados-backend/internal/shared/telemetry"
	"cruzados-backend/internal/shared/util"
)

// PlaceholderPrefix is the URL path placeholder attachments point at.
const PlaceholderPrefix = "/uploads/placeholder/"

// Upload is one uploaded file as received from the client.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Resolver turns uploads into stored file references.
type Resolver interface {
	// Resolve stores uploads for the record and returns their references
	// in upload order. Empty uploads are skipped.
	Resolve(ctx context.Context, c commission.Commission, recordID string, uploads []Upload) ([]File, error)
	// Remove deletes previously resolved files, logging failures.
	Remove(ctx context.Context, files []File)
}

// PlaceholderResolver synthesizes deterministic URLs from file names and
// stores nothing. Used when no object store is configured.
type PlaceholderResolver struct{}

// Resolve implements Resolver.
func (PlaceholderResolver) Resolve(ctx context.Context, _ commission.Commission, _ string, uploads []Upload) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files := make([]File, 0, len(uploads))
	for _, u := range uploads {
		if len(u.Data) == 0 {
			continue
		}
		files = append(files, File{Name: u.Name, URL: placeholderURL(u.Name)})
	}
	return files, nil
}

func placeholderURL(name string) string {
	return PlaceholderPrefix + url.PathEscape(name)
}

// Remove implements Resolver. Placeholders have nothing to delete.
func (PlaceholderResolver) Remove(context.Context, []File) {}

// ObjectResolver uploads bytes to an object store under
// <commission>/<recordID>/<sanitized name>.
type ObjectResolver struct {
	Store object.ObjectStore
}

// Resolve implements Resolver. The first failed upload aborts the batch and
// removes the files already stored by it.
func (r *ObjectResolver) Resolve(ctx context.Context, c commission.Commission, recordID string, uploads []Upload) ([]File, error) {
	if recordID == "" {
		return nil, fmt.Errorf("record id is required to store attachments")
	}
	files := make([]File, 0, len(uploads))
	used := make(map[string]int)
	for _, u := range uploads {
		if len(u.Data) == 0 {
			continue
		}
		name, err := util.SanitizeFileName(u.Name)
		if err != nil {
			r.Remove(ctx, files)
			return nil, &StorageError{FileName: u.Name, Err: err}
		}
		name = dedupe(used, name)

		contentType := u.ContentType
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(u.Data)
		}
		key := path.Join(string(c), recordID, name)
		fileURL, _, err := r.Store.Put(ctx, key, contentType, bytes.NewReader(u.Data))
		if err != nil {
			r.Remove(ctx, files)
			return nil, &StorageError{FileName: u.Name, Err: err}
		}
		files = append(files, File{Name: u.Name, URL: fileURL})
	}
	return files, nil
}

// Remove implements Resolver.
func (r *ObjectResolver) Remove(ctx context.Context, files []File) {
	for _, f := range files {
		if err := r.Store.Delete(ctx, f.URL); err != nil {
			telemetry.Warn("attachment.remove_failed", map[string]any{
				"file": f.Name,
				"url":  f.URL,
				"err":  err,
			})
		}
	}
}

// dedupe keeps two uploads with the same sanitized name from sharing a key.
func dedupe(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}

// Policy is the advisory attachment rule for a category. Clients use it
// to shape the upload widget; it is not enforced when storing.
type Policy struct {
	Category   Category `json:"category"`
	MaxFiles   int      `json:"maxFiles"`
	Extensions []string `json:"extensions"`
	Accept     string   `json:"accept,omitempty"`
}

// PolicyFor returns the attachment policy of a category.
func PolicyFor(c Category) Policy {
	switch c {
	case CategoryImage:
		return Policy{Category: c, MaxFiles: 4, Extensions: []string{".jpg", ".jpeg"}, Accept: "image/jpeg"}
	case CategoryDocument:
		return Policy{Category: c, MaxFiles: 4, Extensions: []string{".pdf"}, Accept: "application/pdf"}
	default:
		return Policy{Category: c, MaxFiles: 0, Extensions: []string{}}
	}
}

// Policies lists the policy of every category in form order.
func Policies() []Policy {
	out := make([]Policy, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, PolicyFor(c))
	}
	return out
}
