package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short stable identifier for personal data such as an
// email address, so log lines can correlate submissions without storing it.
// Case and surrounding space do not change the result.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:8])
}
