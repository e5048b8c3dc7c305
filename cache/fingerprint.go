// Fingerprinting per §4.2: SHA-256 content hash, and a SHA-256 options
// hash computed over the canonicalized options record so that requests
// differing only in field order or default omission still collide onto
// the same cache entry (§8 Testable Property 1).
package cache

import (
	"linthub.app/pkg/models"
	"linthub.app/pkg/utils"
)

// ContentHash returns the SHA-256 hex digest of raw submission bytes.
func ContentHash(content []byte) string {
	return utils.HashContent(content)
}

// OptionsHash returns the SHA-256 hex digest of canonicalized options.
func OptionsHash(opts *models.Options) (string, models.CanonicalOptions, error) {
	canonical := models.Canonicalize(opts)
	hash, err := utils.HashOptions(canonical)
	return hash, canonical, err
}
