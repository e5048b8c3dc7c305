package runner

import "linthub.app/pkg/models"

// OutputParser is the per-linter-family variant the Design Notes call
// for (§9 "Dynamic dispatch over linter variants"): a small interface
// with one concrete implementation per output shape, selected by the
// registry entry, instead of reflection or string dispatch in the hot
// path.
type OutputParser interface {
	// ParseJSON parses a linter's JSON-mode output into normalized
	// issues plus the raw decoded structure (§4.4 step 10).
	ParseJSON(data []byte) ([]models.Issue, interface{}, error)
	// ParseText parses plain-text output when no JSON mode is
	// available or the JSON parse failed.
	ParseText(stdout, stderr string) ([]models.Issue, error)
}

// intPtr is a small helper shared by every parser for optional line/
// column fields.
func intPtr(v int) *int {
	return &v
}
