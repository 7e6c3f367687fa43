package models

// Tally accumulates error and warning counts across blocks and files.
type Tally struct {
	Errors   int `json:"errors" toon:"errors"`
	Warnings int `json:"warnings" toon:"warnings"`
}

// Add folds another tally into t.
func (t *Tally) Add(other Tally) {
	t.Errors += other.Errors
	t.Warnings += other.Warnings
}

// ExitCode maps the tally to a process exit status. Warnings only count
// when errorOnWarnings is set.
func (t Tally) ExitCode(errorOnWarnings bool) int {
	code := t.Errors
	if errorOnWarnings {
		code += t.Warnings
	}
	return code
}

// Failed reports whether the tally maps to a non-zero exit status.
func (t Tally) Failed(errorOnWarnings bool) bool {
	return t.ExitCode(errorOnWarnings) > 0
}

// FixStatus describes what happened to a proposed solution.
type FixStatus string

const (
	FixNone     FixStatus = "none"     // no solution offered
	FixApplied  FixStatus = "applied"  // docstring rewritten on disk
	FixSkipped  FixStatus = "skipped"  // block had no docstring to replace
	FixProposed FixStatus = "proposed" // solution offered but auto-fix disabled
)

// BlockResult records the audit outcome of one code block.
type BlockResult struct {
	File      string    `json:"file" toon:"file"`
	Name      string    `json:"name" toon:"name"`
	Kind      BlockKind `json:"kind" toon:"kind"`
	Class     string    `json:"class,omitempty" toon:"class,omitempty"`
	StartLine uint32    `json:"start_line" toon:"start_line"`
	Critique  Critique  `json:"critique" toon:"critique"`
	Tally     Tally     `json:"tally" toon:"tally"`
	Fix       FixStatus `json:"fix" toon:"fix"`
}

// FileResult records the audit outcome of one file.
type FileResult struct {
	Path    string        `json:"path" toon:"path"`
	Blocks  []BlockResult `json:"blocks" toon:"blocks"`
	Tally   Tally         `json:"tally" toon:"tally"`
	Skipped string        `json:"skipped,omitempty" toon:"skipped,omitempty"`
}

// RunResult is the outcome of one orchestrator invocation.
type RunResult struct {
	Files []FileResult `json:"files" toon:"files"`
	Tally Tally        `json:"tally" toon:"tally"`
}

// AddFile appends a file result and folds its tally into the run total.
func (r *RunResult) AddFile(f FileResult) {
	r.Files = append(r.Files, f)
	r.Tally.Add(f.Tally)
}

// BlockCount returns the number of audited blocks across all files.
func (r *RunResult) BlockCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Blocks)
	}
	return n
}
