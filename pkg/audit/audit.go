// Package audit walks files and directories, asks a critic to review every
// code block and reports or applies the proposed docstring fixes.
//
// Processing is strictly sequential: one file at a time, one block at a
// time, and a fix is written to disk before the next block is reviewed.
package audit

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/panbanda/docaudit/internal/scanner"
	"github.com/panbanda/docaudit/pkg/config"
	"github.com/panbanda/docaudit/pkg/critique"
	"github.com/panbanda/docaudit/pkg/extract"
	"github.com/panbanda/docaudit/pkg/models"
	"github.com/panbanda/docaudit/pkg/patch"
	"github.com/panbanda/docaudit/pkg/report"
)

// InvalidPathError reports a path that is neither a file nor a directory.
type InvalidPathError struct {
	Path string
	Err  error
}

func (e *InvalidPathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid path %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid path %s: not a file or directory", e.Path)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

// Options controls what the auditor does with each block.
type Options struct {
	// AutoFix writes proposed docstrings back to the source file.
	AutoFix bool
	// NameFilter restricts processing to blocks with exactly this name.
	NameFilter string
	// FixMode selects how fixes locate the old docstring.
	FixMode patch.Mode
	// ShowDiff prints a line diff of every proposed or applied fix.
	ShowDiff bool
	// SkipInvalid turns a file that fails to parse into a skipped file
	// instead of aborting the run.
	SkipInvalid bool
	// SkipMissingDocstring turns a fix for a block without a docstring into
	// a notice instead of aborting the run.
	SkipMissingDocstring bool
	// Scan configures the directory walk.
	Scan config.ScanConfig
}

// Activity is notified around each critique request.
type Activity interface {
	Start(label string)
	Stop()
}

type noActivity struct{}

func (noActivity) Start(string) {}
func (noActivity) Stop()        {}

// Option customizes an Auditor.
type Option func(*Auditor)

// WithLogf sets the sink for verbose diagnostics.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(a *Auditor) {
		if logf != nil {
			a.logf = logf
		}
	}
}

// WithActivity sets the indicator shown while a critique is pending.
func WithActivity(act Activity) Option {
	return func(a *Auditor) {
		if act != nil {
			a.activity = act
		}
	}
}

// Auditor runs the extract, critique, report and patch pipeline.
// It is not safe for concurrent use.
type Auditor struct {
	opts      Options
	critic    critique.Critic
	reporter  *report.Reporter
	extractor *extract.Extractor
	patcher   *patch.Patcher
	scanner   *scanner.Scanner
	logf      func(format string, args ...any)
	activity  Activity
}

// New creates an auditor. The critic should already carry any retry policy.
func New(critic critique.Critic, reporter *report.Reporter, opts Options, options ...Option) *Auditor {
	a := &Auditor{
		opts:      opts,
		critic:    critic,
		reporter:  reporter,
		extractor: extract.New(),
		patcher:   patch.New(opts.FixMode),
		scanner:   scanner.NewScanner(&opts.Scan),
		logf:      func(string, ...any) {},
		activity:  noActivity{},
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Close releases parser resources.
func (a *Auditor) Close() {
	a.extractor.Close()
}

// CheckPath returns an InvalidPathError unless path is a regular file or a
// directory.
func CheckPath(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &InvalidPathError{Path: path, Err: err}
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return nil, &InvalidPathError{Path: path}
	}
	return info, nil
}

// Process audits a single file or every matching file below a directory.
// On a fatal error the result holds everything processed before it.
func (a *Auditor) Process(ctx context.Context, path string) (*models.RunResult, error) {
	info, err := CheckPath(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return a.ProcessDir(ctx, path)
	}

	run := &models.RunResult{}
	fr, err := a.processFile(ctx, path)
	run.AddFile(fr)
	if err != nil {
		return run, err
	}
	return run, nil
}

// ProcessDir audits every matching file below root, accumulating tallies.
func (a *Auditor) ProcessDir(ctx context.Context, root string) (*models.RunResult, error) {
	files, err := a.scanner.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	a.logf("found %d files under %s", len(files), root)

	run := &models.RunResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		fr, err := a.processFile(ctx, path)
		run.AddFile(fr)
		if err != nil {
			return run, err
		}
	}
	return run, nil
}

func (a *Auditor) processFile(ctx context.Context, path string) (models.FileResult, error) {
	fr := models.FileResult{Path: path}

	blocks, err := a.extractor.ExtractFile(path, a.opts.NameFilter)
	if err != nil {
		var parseErr *extract.ParseError
		if errors.As(err, &parseErr) && a.opts.SkipInvalid {
			fr.Skipped = parseErr.Error()
			a.reporter.Notice("Skipping %s", parseErr.Error())
			return fr, nil
		}
		return fr, err
	}
	a.logf("%s: %d blocks", path, len(blocks))

	// Fixes already written to this file, replayed onto later blocks so
	// their spans follow the edits.
	var edits []patch.Edit
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return fr, err
		}
		br, applied, err := a.processBlock(ctx, path, patch.Rebase(block, edits...))
		edits = append(edits, applied...)
		if err != nil {
			return fr, err
		}
		fr.Blocks = append(fr.Blocks, br)
		fr.Tally.Add(br.Tally)
	}
	return fr, nil
}

// processBlock reviews one block and applies its fix when enabled. It
// returns the edits written to the file.
func (a *Auditor) processBlock(ctx context.Context, path string, block models.CodeBlock) (models.BlockResult, []patch.Edit, error) {
	br := models.BlockResult{
		File:      path,
		Name:      block.Name,
		Kind:      block.Kind,
		Class:     block.EnclosingClass,
		StartLine: block.StartLine,
		Fix:       models.FixNone,
	}

	a.activity.Start("Reviewing " + block.QualifiedName())
	c, err := a.critic.Critique(ctx, block.Text)
	a.activity.Stop()
	if err != nil {
		return br, nil, fmt.Errorf("%s: %s: %w", path, block.QualifiedName(), err)
	}
	if c.Function != "" && c.Function != block.Name {
		a.logf("%s:%d: critique names %q for block %s", path, block.StartLine, c.Function, block.QualifiedName())
	}

	tally, solution := a.reporter.Tally(c)
	br.Critique = c
	br.Tally = tally
	if solution == "" {
		return br, nil, nil
	}

	if !a.opts.AutoFix {
		br.Fix = models.FixProposed
		if a.opts.ShowDiff {
			if oldDoc, ok := block.Docstring(); ok {
				a.reporter.Print(patch.Diff(oldDoc, patch.Replacement(solution), a.reporter.Colored()))
			}
		}
		return br, nil, nil
	}

	res, err := a.patcher.Apply(path, block, solution)
	if err != nil {
		var missing *patch.PatchTargetNotFoundError
		if errors.As(err, &missing) && a.opts.SkipMissingDocstring {
			a.reporter.Notice("Skipping fix for %s: it has no docstring to replace", block.QualifiedName())
			br.Fix = models.FixSkipped
			return br, nil, nil
		}
		return br, nil, err
	}

	br.Fix = models.FixApplied
	if res.Replaced > 1 {
		a.logf("%s: replaced %d copies of the docstring of %s", path, res.Replaced, block.QualifiedName())
	}
	if a.opts.ShowDiff && res.Changed {
		a.reporter.Print(patch.Diff(res.OldDocstring, res.NewDocstring, a.reporter.Colored()))
	}
	return br, res.Edits, nil
}
