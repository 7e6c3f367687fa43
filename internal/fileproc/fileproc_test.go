package fileproc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/panbanda/docaudit/internal/testutil"
	"github.com/panbanda/docaudit/pkg/extract"
)

func TestMapFilesPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	files := make([]string, 50)
	for i := range files {
		files[i] = filepath.Join(dir, fmt.Sprintf("file%02d.py", i))
		testutil.WriteFile(t, files[i], fmt.Sprintf("def f%d():\n    pass\n", i))
	}

	results := MapFiles(context.Background(), files, 4, func(e *extract.Extractor, path string) (string, error) {
		blocks, err := e.ExtractFile(path, "")
		if err != nil {
			return "", err
		}
		return blocks[0].Name, nil
	})

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
		if r.Path != files[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, files[i])
		}
		if want := fmt.Sprintf("f%d", i); r.Value != want {
			t.Errorf("results[%d].Value = %q, want %q", i, r.Value, want)
		}
	}
}

func TestMapFilesErrors(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py"}
	boom := errors.New("boom")

	results := MapFiles(context.Background(), files, 0, func(_ *extract.Extractor, path string) (int, error) {
		if path == "b.py" {
			return 0, boom
		}
		return 1, nil
	})

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, boom) {
		t.Errorf("results[1].Err = %v, want boom", results[1].Err)
	}
}

func TestMapFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := MapFiles(ctx, []string{"a.py", "b.py"}, 1, func(*extract.Extractor, string) (int, error) {
		calls.Add(1)
		return 0, nil
	})

	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancel", calls.Load())
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: Err = %v, want context.Canceled", r.Path, r.Err)
		}
	}
}

func TestMapFilesEmpty(t *testing.T) {
	if results := MapFiles(context.Background(), nil, 0, func(*extract.Extractor, string) (int, error) { return 0, nil }); results != nil {
		t.Errorf("MapFiles(nil) = %v, want nil", results)
	}
}

func TestExtractFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateFileTree(t, dir, map[string]string{
		"a.py": "def keep():\n    pass\n\ndef other():\n    pass\n",
		"b.py": "def broken(:\n",
	})
	files := []string{filepath.Join(dir, "a.py"), filepath.Join(dir, "b.py")}

	results := ExtractFiles(context.Background(), files, "keep")
	if results[0].Err != nil || len(results[0].Value) != 1 || results[0].Value[0].Name != "keep" {
		t.Errorf("results[0] = %+v", results[0])
	}
	var parseErr *extract.ParseError
	if !errors.As(results[1].Err, &parseErr) {
		t.Errorf("results[1].Err = %v, want ParseError", results[1].Err)
	}
}
