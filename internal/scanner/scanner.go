package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/panbanda/docaudit/pkg/config"
)

// Scanner finds source files in a directory.
type Scanner struct {
	ignoreDirs []string
	extensions []string
	gitignore  bool
	matchers   []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.ScanConfig) *Scanner {
	if cfg == nil {
		cfg = &config.DefaultConfig().Scan
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".py"}
	}
	return &Scanner{
		ignoreDirs: cfg.IgnoreDirs,
		extensions: exts,
		gitignore:  cfg.Gitignore,
	}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads every .gitignore file of the repository containing root.
// Matching is done on paths relative to the repository root.
func (s *Scanner) loadGitignore(root string) string {
	s.matchers = nil
	if !s.gitignore {
		return ""
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return ""
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil)
	if err != nil || len(patterns) == 0 {
		return ""
	}
	s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	return gitRoot
}

// isIgnored checks if a path matches a .gitignore pattern.
func (s *Scanner) isIgnored(gitRoot, path string, isDir bool) bool {
	if len(s.matchers) == 0 || gitRoot == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(gitRoot, abs)
	if err != nil || rel == "." {
		return false
	}

	pathParts := strings.Split(rel, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// IsPruned reports whether a directory name is on the ignore list. Names
// match exactly; no globbing is applied.
func (s *Scanner) IsPruned(name string) bool {
	return slices.Contains(s.ignoreDirs, name)
}

// Matches reports whether a file name ends in a recognized source extension.
func (s *Scanner) Matches(name string) bool {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for source files. Ignored
// directories are pruned before descending into them. Files are returned
// in lexical walk order.
// Validates that all paths stay within the root directory to prevent traversal attacks.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	var files []string

	// Resolve root to absolute path for security validation
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks in the root path
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	gitRoot := s.loadGitignore(root)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}

		// Security: validate path stays within root (prevent symlink traversal)
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || info.IsDir() {
				// WalkDir does not follow directory symlinks
				return nil
			}
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if s.IsPruned(d.Name()) || s.isIgnored(gitRoot, path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.Matches(d.Name()) || s.isIgnored(gitRoot, path, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}
