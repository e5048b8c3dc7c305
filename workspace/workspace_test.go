package workspace

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	base := t.TempDir()
	m, err := NewManager(base, DefaultPolicy())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestCreateFromText_Default(t *testing.T) {
	m := newTestManager(t)
	ws, err := m.CreateFromText([]byte("var x = 1;"), "")
	if err != nil {
		t.Fatalf("CreateFromText() error = %v", err)
	}
	defer ws.Cleanup(m.baseDir)

	data, err := os.ReadFile(filepath.Join(ws.Root, defaultFilename))
	if err != nil {
		t.Fatalf("expected default file written: %v", err)
	}
	if string(data) != "var x = 1;" {
		t.Fatalf("file content = %q", data)
	}
}

func TestCreateFromText_TooLarge(t *testing.T) {
	m := newTestManager(t)
	m.policy.MaxFileSize = 4
	_, err := m.CreateFromText([]byte("too big"), "")
	if err == nil {
		t.Fatal("expected ContentTooLargeError")
	}
}

func TestCreateFromBase64_Malformed(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateFromBase64("not-valid-base64!!", "")
	if err == nil {
		t.Fatal("expected WorkspaceError on malformed base64")
	}
}

func buildTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Size: int64(len(content)), Mode: 0o644, Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader() error = %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar Close() error = %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip Close() error = %v", err)
	}
	return buf.Bytes()
}

func TestCreateFromBytes_Archive(t *testing.T) {
	m := newTestManager(t)
	archive := buildTarGz(t, map[string]string{
		"main.go":       "package main\n",
		"README.exe":    "not allowed",
		"sub/helper.go": "package main\n",
	})

	ws, err := m.CreateFromBytes(archive, "")
	if err != nil {
		t.Fatalf("CreateFromBytes() error = %v", err)
	}
	defer ws.Cleanup(m.baseDir)

	files, err := ws.Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}

	want := map[string]bool{"main.go": true, "sub/helper.go": true}
	if len(files) != len(want) {
		t.Fatalf("Files() = %v, want files matching %v", files, want)
	}
	for _, f := range files {
		if !want[filepath.ToSlash(f)] {
			t.Fatalf("unexpected extracted file: %s", f)
		}
	}
}

func TestCreateFromBytes_ArchiveBlockedDirectory(t *testing.T) {
	m := newTestManager(t)
	archive := buildTarGz(t, map[string]string{
		"main.go":           "package main\n",
		"node_modules/x.js": "console.log(1)",
	})

	_, err := m.CreateFromBytes(archive, "")
	if err == nil {
		t.Fatal("expected WorkspaceError on blocked directory entry")
	}
}

func TestCreateFromBytes_ArchiveEscapePath(t *testing.T) {
	m := newTestManager(t)
	archive := buildTarGz(t, map[string]string{"../../etc/passwd": "pwned"})

	_, err := m.CreateFromBytes(archive, "")
	if err == nil {
		t.Fatal("expected WorkspaceError on path escape")
	}
}

func TestCreateFromBytes_ArchiveTooLarge(t *testing.T) {
	m := newTestManager(t)
	m.policy.MaxTotalSize = 4
	archive := buildTarGz(t, map[string]string{"main.go": "package main; func X(){}"})

	_, err := m.CreateFromBytes(archive, "")
	if err == nil {
		t.Fatal("expected size limit violation")
	}
}

func TestWorkspace_Cleanup_RefusesOutsideBase(t *testing.T) {
	m := newTestManager(t)
	ws, err := m.CreateFromText([]byte("x"), "a.txt")
	if err != nil {
		t.Fatalf("CreateFromText() error = %v", err)
	}

	ws.Root = t.TempDir() // simulate a root outside the manager's base
	if err := ws.Cleanup(m.baseDir); err == nil {
		t.Fatal("expected cleanup to refuse a root outside base")
	}
}

func TestCleanupExpired(t *testing.T) {
	m := newTestManager(t)
	ws, err := m.CreateFromText([]byte("x"), "a.txt")
	if err != nil {
		t.Fatalf("CreateFromText() error = %v", err)
	}

	old := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(ws.Root, old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	n, err := m.CleanupExpired()
	if err != nil {
		t.Fatalf("CleanupExpired() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("CleanupExpired() = %d, want 1", n)
	}
	if _, err := os.Stat(ws.Root); !os.IsNotExist(err) {
		t.Fatal("expected workspace to be removed")
	}
}

func TestMatchingFiles_IncludeExclude(t *testing.T) {
	m := newTestManager(t)
	archive := buildTarGz(t, map[string]string{
		"src/a.go":       "package src",
		"src/b_test.go":  "package src",
		"other/c.go":     "package other",
	})
	ws, err := m.CreateFromBytes(archive, "")
	if err != nil {
		t.Fatalf("CreateFromBytes() error = %v", err)
	}
	defer ws.Cleanup(m.baseDir)

	matched, err := ws.MatchingFiles([]string{".go"}, []string{"src/*"}, []string{"*_test.go"})
	if err != nil {
		t.Fatalf("MatchingFiles() error = %v", err)
	}
	if len(matched) != 1 || filepath.ToSlash(matched[0]) != "src/a.go" {
		t.Fatalf("MatchingFiles() = %v, want [src/a.go]", matched)
	}
}
