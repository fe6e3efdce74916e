package util

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName turns an uploaded file name into a storage-safe key
// segment: accents are folded (Fundación -> Fundacion), separators and
// whitespace become underscores. The result is always a single path
// segment; names that reduce to "." or ".." are rejected.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r == '/' || r == '\\' || unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteRune('_')
			}
			lastUnderscore = true
			continue
		case unicode.IsControl(r):
			continue
		}
		b.WriteRune(r)
		lastUnderscore = r == '_'
	}
	out := strings.Trim(b.String(), "_")
	if out == "" || out == "." || out == ".." {
		return "", errInvalidFileName
	}
	return out, nil
}
