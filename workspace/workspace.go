// Package workspace implements the Workspace Manager (§4.3): per-request
// filesystem sandboxes materialized from raw text or an uploaded archive,
// bounded by a fixed size/count/extension policy. CleanupExpired sweeps
// workspaces past their lifetime; nothing in this repository schedules
// it on a timer. It is a plain support package with no Encore service annotation,
// a dependency of the job manager rather than an HTTP-facing component —
// the same split the teacher draws between pkg/utils/pkg/models and its
// //encore:service packages.
package workspace

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"linthub.app/pkg/utils"
)

const (
	defaultFilename = "code.txt"
	gzipMagic0      = 0x1f
	gzipMagic1      = 0x8b
	workspacePrefix = "lintws-"
	// maxLifetime is the age threshold a sweep treats a workspace as
	// abandoned (§4.3 "cleanup_expired"): 2h per the spec.
	maxLifetime = 2 * time.Hour
)

// Workspace is a materialized filesystem sandbox owned by exactly one
// job at a time (§5 "Shared-resource policy").
type Workspace struct {
	ID        string
	Root      string
	Policy    Policy
	CreatedAt time.Time
}

// Manager creates and tracks workspaces under a single base directory.
type Manager struct {
	baseDir string
	policy  Policy
}

// NewManager creates a workspace manager rooted at baseDir. baseDir is
// created if missing.
func NewManager(baseDir string, policy Policy) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, NewWorkspaceError("failed to create base workspace directory", err)
	}
	return &Manager{baseDir: baseDir, policy: policy}, nil
}

// BaseDir returns the directory new workspaces are created under, so
// callers can scope Cleanup to the manager that created a workspace.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

func (m *Manager) newRoot() (string, string, error) {
	id := workspacePrefix + uuid.New().String()
	root := filepath.Join(m.baseDir, id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", "", NewWorkspaceError("failed to create workspace directory", err)
	}
	return id, root, nil
}

// CreateFromText writes a single file into a new workspace (§4.3
// create_from_text). filename defaults to "code.txt" when empty.
func (m *Manager) CreateFromText(content []byte, filename string) (*Workspace, error) {
	if int64(len(content)) > m.policy.MaxFileSize {
		return nil, NewContentTooLargeError(
			fmt.Sprintf("content size %d exceeds max file size %d", len(content), m.policy.MaxFileSize), nil)
	}
	if filename == "" {
		filename = defaultFilename
	}
	filename = sanitizeFilename(filename)

	id, root, err := m.newRoot()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(root, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		_ = os.RemoveAll(root)
		return nil, NewWorkspaceError("failed to write workspace file", err)
	}

	return &Workspace{ID: id, Root: root, Policy: m.policy, CreatedAt: time.Now()}, nil
}

// CreateFromBytes dispatches to archive extraction or text creation based
// on the gzip magic bytes (§4.3 create_from_bytes).
func (m *Manager) CreateFromBytes(data []byte, filename string) (*Workspace, error) {
	if len(data) >= 2 && data[0] == gzipMagic0 && data[1] == gzipMagic1 {
		return m.createFromArchive(data)
	}
	return m.CreateFromText(data, filename)
}

// CreateFromBase64 decodes s and dispatches as CreateFromBytes
// (§4.3 create_from_base64).
func (m *Manager) CreateFromBase64(s string, filename string) (*Workspace, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, NewWorkspaceError("malformed base64 payload", err)
	}
	return m.CreateFromBytes(data, filename)
}

func (m *Manager) createFromArchive(data []byte) (*Workspace, error) {
	id, root, err := m.newRoot()
	if err != nil {
		return nil, err
	}

	if err := extractTarGz(data, root, m.policy); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}

	return &Workspace{ID: id, Root: root, Policy: m.policy, CreatedAt: time.Now()}, nil
}

// ValidationResult is the outcome of Validate (§4.3 "validate").
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate re-checks every invariant against an existing workspace on
// disk (§4.3 "validate(path)").
func (w *Workspace) Validate() ValidationResult {
	var errs []string
	var totalSize int64
	var fileCount int

	err := filepath.Walk(w.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			errs = append(errs, err.Error())
			return nil
		}
		if path == w.Root {
			return nil
		}
		rel, relErr := filepath.Rel(w.Root, path)
		if relErr != nil {
			errs = append(errs, relErr.Error())
			return nil
		}
		if info.IsDir() {
			if w.Policy.HasBlockedSegment(rel) {
				errs = append(errs, fmt.Sprintf("blocked directory: %s", rel))
			}
			return nil
		}

		fileCount++
		totalSize += info.Size()
		if info.Size() > w.Policy.MaxFileSize {
			errs = append(errs, fmt.Sprintf("file %s exceeds max file size", rel))
		}
		if !w.Policy.AllowsExtension(info.Name()) {
			errs = append(errs, fmt.Sprintf("file %s has disallowed extension", rel))
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err.Error())
	}

	if fileCount > w.Policy.MaxFileCount {
		errs = append(errs, fmt.Sprintf("file count %d exceeds max %d", fileCount, w.Policy.MaxFileCount))
	}
	if totalSize > w.Policy.MaxTotalSize {
		errs = append(errs, fmt.Sprintf("total size %d exceeds max %d", totalSize, w.Policy.MaxTotalSize))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Files returns the workspace-relative paths of every regular file.
func (w *Workspace) Files() ([]string, error) {
	var files []string
	err := filepath.Walk(w.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || path == w.Root {
			return nil
		}
		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, NewWorkspaceError("failed to enumerate workspace files", err)
	}
	return files, nil
}

// MatchingFiles returns workspace-relative files matching any of the
// configured extensions, narrowed by include/exclude glob patterns
// supplementing the core extension filter (§6 include_patterns/
// exclude_patterns — new, reusing the cache service's glob matcher).
func (w *Workspace) MatchingFiles(extensions []string, includePatterns, excludePatterns []string) ([]string, error) {
	all, err := w.Files()
	if err != nil {
		return nil, err
	}

	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[strings.ToLower(e)] = true
	}

	var matched []string
	for _, f := range all {
		if len(extensions) > 0 {
			ext := strings.ToLower(filepath.Ext(f))
			if ext == "" {
				ext = strings.ToLower(filepath.Base(f))
			}
			if !extSet[ext] {
				continue
			}
		}

		if len(includePatterns) > 0 && !matchesAny(includePatterns, f) {
			continue
		}
		if len(excludePatterns) > 0 && matchesAny(excludePatterns, f) {
			continue
		}

		matched = append(matched, f)
	}
	return matched, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := utils.MatchPattern(p, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Cleanup best-effort recursively removes the workspace, refusing to
// remove any path outside baseDir (§4.3 "cleanup(path)").
func (w *Workspace) Cleanup(baseDir string) error {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return NewWorkspaceError("invalid base directory", err)
	}
	absRoot, err := filepath.Abs(w.Root)
	if err != nil {
		return NewWorkspaceError("invalid workspace root", err)
	}
	if !strings.HasPrefix(absRoot, absBase+string(filepath.Separator)) {
		return NewWorkspaceError("refusing to remove path outside base directory", nil)
	}
	return os.RemoveAll(absRoot)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "" {
		return defaultFilename
	}
	return name
}
