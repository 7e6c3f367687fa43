package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/docaudit/internal/testutil"
	"github.com/panbanda/docaudit/pkg/config"
)

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel(%s) error: %v", f, err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestNewScanner(t *testing.T) {
	// With nil config
	s := NewScanner(nil)
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if len(s.ignoreDirs) != 1 || s.ignoreDirs[0] != "tests" {
		t.Errorf("ignoreDirs = %v, want [tests]", s.ignoreDirs)
	}
	if len(s.extensions) != 1 || s.extensions[0] != ".py" {
		t.Errorf("extensions = %v, want [.py]", s.extensions)
	}

	// Empty extensions fall back to .py
	s = NewScanner(&config.ScanConfig{})
	if !s.Matches("mod.py") {
		t.Error("scanner with no extensions should match .py files")
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"main.py":           "def main():\n    pass\n",
		"lib.py":            "x = 1\n",
		"util/helper.py":    "def helper():\n    pass\n",
		"util/notes.txt":    "not python\n",
		"util/stub.pyi":     "def helper() -> None: ...\n",
		"internal/core.rs":  "fn main() {}\n",
		"pkg/deep/a/b/c.py": "c = 3\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"lib.py", "main.py", "pkg/deep/a/b/c.py", "util/helper.py"}
	got := relPaths(t, tmpDir, result)
	if len(got) != len(want) {
		t.Fatalf("ScanDir() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ScanDir()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanDirPrunesIgnoredDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"app.py":                   "a = 1\n",
		"tests/test_app.py":        "def test_app():\n    pass\n",
		"tests/nested/test_x.py":   "x = 1\n",
		"src/tests/test_inner.py":  "y = 2\n",
		"src/testsuite/keep.py":    "z = 3\n",
		"migrations/0001_init.py":  "m = 1\n",
		"src/migrations/0002_x.py": "m = 2\n",
	})

	tests := []struct {
		name   string
		ignore []string
		want   []string
	}{
		{
			name:   "default tests",
			ignore: []string{"tests"},
			want:   []string{"app.py", "migrations/0001_init.py", "src/migrations/0002_x.py", "src/testsuite/keep.py"},
		},
		{
			name:   "multiple",
			ignore: []string{"tests", "migrations"},
			want:   []string{"app.py", "src/testsuite/keep.py"},
		},
		{
			name:   "none",
			ignore: nil,
			want: []string{
				"app.py", "migrations/0001_init.py", "src/migrations/0002_x.py",
				"src/tests/test_inner.py", "src/testsuite/keep.py",
				"tests/nested/test_x.py", "tests/test_app.py",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(&config.ScanConfig{IgnoreDirs: tt.ignore, Extensions: []string{".py"}})
			result, err := s.ScanDir(tmpDir)
			if err != nil {
				t.Fatalf("ScanDir() error: %v", err)
			}
			got := relPaths(t, tmpDir, result)
			if len(got) != len(tt.want) {
				t.Fatalf("ScanDir() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ScanDir()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanDirRootNameNotPruned(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tests")
	testutil.WriteFile(t, filepath.Join(root, "a.py"), "a = 1\n")

	result, err := NewScanner(nil).ScanDir(root)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("ScanDir() found %d files, want 1 (the walk root is never pruned)", len(result))
	}
}

func TestScanDirCustomExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		"a.py":  "a = 1\n",
		"b.pyw": "b = 1\n",
		"c.txt": "c\n",
	})

	s := NewScanner(&config.ScanConfig{Extensions: []string{".py", ".pyw"}})
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("ScanDir() found %d files, want 2", len(result))
	}
}

func TestScanDirNonExistent(t *testing.T) {
	s := NewScanner(nil)
	if _, err := s.ScanDir("/nonexistent/dir"); err == nil {
		t.Error("ScanDir() should return error for non-existent directory")
	}
}

func TestScanDirWithGitignore(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		".gitignore":     "skipme\n*_pb2.py\n",
		"main.py":        "m = 1\n",
		"skipme/skip.py": "s = 1\n",
		"src/app.py":     "a = 1\n",
		"src/api_pb2.py": "g = 1\n",
	})

	cfg := config.DefaultConfig().Scan
	cfg.Gitignore = true

	result, err := NewScanner(&cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	found := make(map[string]bool)
	for _, f := range relPaths(t, tmpDir, result) {
		found[f] = true
	}

	if !found["main.py"] {
		t.Error("Should find main.py")
	}
	if !found["src/app.py"] {
		t.Error("Should find src/app.py")
	}
	if found["skipme/skip.py"] {
		t.Error("Should not find skipme/skip.py")
	}
	if found["src/api_pb2.py"] {
		t.Error("Should not find src/api_pb2.py")
	}
}

func TestScanDirDisabledGitignore(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	testutil.CreateFileTree(t, tmpDir, map[string]string{
		".gitignore":      "ignored/\n",
		"ignored/file.py": "x = 1\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	// With gitignore disabled, should find the ignored file
	found := false
	for _, f := range result {
		if filepath.Base(f) == "file.py" {
			found = true
			break
		}
	}
	if !found {
		t.Error("With gitignore disabled, should find files in 'ignored' directory")
	}
}

func TestScanDirEmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("ScanDir() on empty dir found %d files, want 0", len(result))
	}
}

func TestIsWithinRoot(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		path string
		want bool
	}{
		{root, true},
		{filepath.Join(root, "a", "b.py"), true},
		{root + "2", false},
		{filepath.Dir(root), false},
	}

	for _, tt := range tests {
		if got := isWithinRoot(tt.path, root); got != tt.want {
			t.Errorf("isWithinRoot(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
