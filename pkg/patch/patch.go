// Package patch rewrites the docstring of a code block inside its source
// file while leaving every other byte of the file untouched.
package patch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/panbanda/docaudit/pkg/models"
)

// Mode selects how the old docstring is located in the file.
type Mode string

const (
	// ModeGlobal replaces every occurrence of the old docstring literal in
	// the file, including copies that belong to unrelated blocks.
	ModeGlobal Mode = "global"
	// ModeSpan replaces only the docstring inside the originating block.
	ModeSpan Mode = "span"
)

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", string(ModeSpan):
		return ModeSpan, nil
	case string(ModeGlobal):
		return ModeGlobal, nil
	default:
		return "", fmt.Errorf("unknown fix mode %q (want span or global)", s)
	}
}

// ErrStaleBlock is returned in span mode when the block can no longer be
// located unambiguously in the file.
var ErrStaleBlock = errors.New("code block no longer matches file content")

// PatchTargetNotFoundError reports a block without a docstring literal.
type PatchTargetNotFoundError struct {
	Path  string
	Block string
}

func (e *PatchTargetNotFoundError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("%s: no docstring to replace in %s", e.Path, e.Block)
	}
	return fmt.Sprintf("%s: no docstring to replace", e.Path)
}

// Result describes an applied patch.
type Result struct {
	OldDocstring string
	NewDocstring string
	// Replaced is the number of places rewritten in the file.
	Replaced int
	// Changed is false when the rewrite produced identical content and the
	// file was left alone.
	Changed bool
	// Edits lists the replacements made, last offset first, so they can be
	// replayed in order with Rebase.
	Edits []Edit
}

// Patcher applies docstring replacements to files on disk. Every call
// re-reads the file, so sequential patches to one file must not overlap.
type Patcher struct {
	mode Mode
}

// New creates a patcher using the given mode.
func New(mode Mode) *Patcher {
	if mode == "" {
		mode = ModeSpan
	}
	return &Patcher{mode: mode}
}

// Apply replaces the docstring of block in the file at path with the
// literal derived from solution.
func (p *Patcher) Apply(path string, block models.CodeBlock, solution string) (*Result, error) {
	if p.mode == ModeGlobal {
		return Apply(path, block.Text, solution)
	}
	return ApplyBlock(path, block, solution)
}

// Apply is the file-wide replacement: it extracts the first docstring
// literal of oldBlock and replaces every occurrence of it in the file.
func Apply(path, oldBlock, solution string) (*Result, error) {
	oldDoc, ok := FindDocstring(oldBlock)
	if !ok {
		return nil, &PatchTargetNotFoundError{Path: path}
	}
	newDoc := Replacement(solution)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	content := string(data)

	res := &Result{OldDocstring: oldDoc, NewDocstring: newDoc}
	for i := strings.Index(content, oldDoc); i >= 0; {
		res.Edits = append([]Edit{{Offset: i, Old: oldDoc, New: newDoc}}, res.Edits...)
		next := strings.Index(content[i+len(oldDoc):], oldDoc)
		if next < 0 {
			break
		}
		i += len(oldDoc) + next
	}
	res.Replaced = Occurrences(content, oldDoc)
	if oldDoc == newDoc || res.Replaced == 0 {
		res.Edits = nil
		return res, nil
	}

	if err := writeFile(path, strings.ReplaceAll(content, oldDoc, newDoc)); err != nil {
		return nil, err
	}
	res.Changed = true
	return res, nil
}

// ApplyBlock replaces only the docstring recorded for block. The block is
// found at its span, or by a unique exact search when the file changed in
// ways Rebase could not track.
func ApplyBlock(path string, block models.CodeBlock, solution string) (*Result, error) {
	oldDoc, ok := block.Docstring()
	if !ok {
		return nil, &PatchTargetNotFoundError{Path: path, Block: block.QualifiedName()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	content := string(data)

	start, err := locate(content, block)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", path, block.QualifiedName(), err)
	}

	newDoc := Replacement(solution)
	res := &Result{OldDocstring: oldDoc, NewDocstring: newDoc, Replaced: 1}
	if oldDoc == newDoc {
		return res, nil
	}

	abs := start + block.DocSpan.Start - block.Span.Start
	updated := content[:abs] + newDoc + content[abs+len(oldDoc):]
	if err := writeFile(path, updated); err != nil {
		return nil, err
	}
	res.Changed = true
	res.Edits = []Edit{{Offset: abs, Old: oldDoc, New: newDoc}}
	return res, nil
}

// locate returns the offset of block.Text in content.
func locate(content string, block models.CodeBlock) (int, error) {
	s := block.Span
	if s.Start >= 0 && s.End <= len(content) && s.Start <= s.End && content[s.Start:s.End] == block.Text {
		return s.Start, nil
	}
	switch strings.Count(content, block.Text) {
	case 1:
		return strings.Index(content, block.Text), nil
	case 0:
		return 0, ErrStaleBlock
	default:
		return 0, fmt.Errorf("%w: text occurs more than once", ErrStaleBlock)
	}
}

// writeFile overwrites path, keeping its permissions.
func writeFile(path, content string) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
