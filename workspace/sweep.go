package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupExpired sweeps workspaces under the manager's base directory
// whose modification time is older than maxLifetime (§4.3
// "cleanup_expired"), returning the number removed. Sweeps ignore any
// directory not prefixed with the recognized workspace-id pattern
// (§5 "Base workspace directory: shared").
func (m *Manager) CleanupExpired() (int, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return 0, NewWorkspaceError("failed to list base workspace directory", err)
	}

	cutoff := time.Now().Add(-maxLifetime)
	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(m.baseDir, entry.Name())
		if err := os.RemoveAll(path); err == nil {
			removed++
		}
	}

	return removed, nil
}
