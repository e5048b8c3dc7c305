package workspace

import "strings"

// Policy holds the configurable limits enforced on every workspace
// (§4.3 "Policies"). Defaults mirror the spec table exactly.
type Policy struct {
	MaxFileSize      int64
	MaxTotalSize     int64
	MaxFileCount     int
	AllowedExtension map[string]bool
	BlockedDirs      map[string]bool
}

const (
	mebibyte = 1024 * 1024
)

// DefaultPolicy returns the spec's default workspace policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxFileSize:  10 * mebibyte,
		MaxTotalSize: 500 * mebibyte,
		MaxFileCount: 10000,
		AllowedExtension: boolSet(
			".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx",
			".py", ".pyi",
			".go",
			".rb",
			".sh", ".bash",
			".yaml", ".yml",
			".json",
			".md", ".markdown",
			".html", ".htm",
			".css", ".scss", ".less",
			".php",
			".c", ".h",
			".cpp", ".cc", ".cxx", ".hpp",
			".java",
			".kt", ".kts",
			".swift",
			".rs",
			"dockerfile",
		),
		BlockedDirs: boolSet(
			"node_modules", ".git", ".svn", ".hg", "vendor", "dist",
			"build", "target", ".idea", ".vscode", "__pycache__",
			".pytest_cache", "coverage", ".nyc_output",
		),
	}
}

func boolSet(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// AllowsExtension reports whether filename's extension (or exact name,
// for extension-less files like Dockerfile) is on the allowlist.
// Matching is case-insensitive; Dockerfile requires an exact name match.
func (p Policy) AllowsExtension(filename string) bool {
	lower := strings.ToLower(filename)
	if lower == "dockerfile" || strings.HasSuffix(lower, "/dockerfile") {
		return p.AllowedExtension["dockerfile"]
	}
	idx := strings.LastIndex(lower, ".")
	if idx < 0 {
		return false
	}
	return p.AllowedExtension[lower[idx:]]
}

// HasBlockedSegment reports whether any path segment of path names a
// blocked directory (§4.3 archive extraction rule (b)).
func (p Policy) HasBlockedSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if p.BlockedDirs[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}
