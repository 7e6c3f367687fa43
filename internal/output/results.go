package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/panbanda/docaudit/pkg/models"
)

// RunReport renders the outcome of an audit run.
type RunReport struct {
	Run *models.RunResult
}

// NewRunReport wraps run for rendering.
func NewRunReport(run *models.RunResult) *RunReport {
	if run == nil {
		run = &models.RunResult{}
	}
	return &RunReport{Run: run}
}

func (r *RunReport) RenderData() any {
	return r.Run
}

func (r *RunReport) filesTable() *Table {
	rows := make([][]string, 0, len(r.Run.Files))
	fixes := 0
	for _, f := range r.Run.Files {
		applied := countFixes(f)
		fixes += applied
		status := "ok"
		if f.Skipped != "" {
			status = "skipped"
		}
		rows = append(rows, []string{
			f.Path,
			strconv.Itoa(len(f.Blocks)),
			strconv.Itoa(f.Tally.Errors),
			strconv.Itoa(f.Tally.Warnings),
			strconv.Itoa(applied),
			status,
		})
	}
	footer := []string{
		"Total",
		strconv.Itoa(r.Run.BlockCount()),
		strconv.Itoa(r.Run.Tally.Errors),
		strconv.Itoa(r.Run.Tally.Warnings),
		strconv.Itoa(fixes),
		"",
	}
	return NewTable("Files", []string{"File", "Blocks", "Errors", "Warnings", "Fixed", "Status"}, rows, footer, nil)
}

func (r *RunReport) concernsTable() *Table {
	var rows [][]string
	for _, f := range r.Run.Files {
		for _, b := range f.Blocks {
			if !b.Critique.HasConcerns() {
				continue
			}
			name := b.Name
			if b.Class != "" {
				name = b.Class + "." + b.Name
			}
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d", f.Path, b.StartLine),
				name,
				b.Critique.Error,
				b.Critique.Warning,
				b.Fix.String(),
			})
		}
	}
	return NewTable("Concerns", []string{"Location", "Block", "Error", "Warning", "Fix"}, rows, nil, nil)
}

func (r *RunReport) RenderText(w io.Writer, colored bool) error {
	return r.filesTable().RenderText(w, colored)
}

func (r *RunReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Docstring Audit\n\n")
	fmt.Fprintf(w, "%d errors and %d warnings in %d blocks across %d files.\n\n",
		r.Run.Tally.Errors, r.Run.Tally.Warnings, r.Run.BlockCount(), len(r.Run.Files))
	if err := r.filesTable().RenderMarkdown(w); err != nil {
		return err
	}
	concerns := r.concernsTable()
	if len(concerns.Rows) == 0 {
		return nil
	}
	return concerns.RenderMarkdown(w)
}

func countFixes(f models.FileResult) int {
	n := 0
	for _, b := range f.Blocks {
		if b.Fix == models.FixApplied {
			n++
		}
	}
	return n
}

// BlockSummary describes an extracted block without its source text.
type BlockSummary struct {
	File         string           `json:"file" toon:"file"`
	Name         string           `json:"name" toon:"name"`
	Kind         models.BlockKind `json:"kind" toon:"kind"`
	Class        string           `json:"class,omitempty" toon:"class,omitempty"`
	StartLine    uint32           `json:"start_line" toon:"start_line"`
	EndLine      uint32           `json:"end_line" toon:"end_line"`
	HasDocstring bool             `json:"has_docstring" toon:"has_docstring"`
	// Tokens estimates the size of the block as sent for critique.
	Tokens int `json:"tokens" toon:"tokens"`
}

// SummarizeBlocks converts the blocks of one file to summaries.
func SummarizeBlocks(file string, blocks []models.CodeBlock) []BlockSummary {
	out := make([]BlockSummary, len(blocks))
	for i, b := range blocks {
		out[i] = BlockSummary{
			File:         file,
			Name:         b.Name,
			Kind:         b.Kind,
			Class:        b.EnclosingClass,
			StartLine:    b.StartLine,
			EndLine:      b.EndLine,
			HasDocstring: b.HasDocstring,
			Tokens:       EstimateTokens(b.Text),
		}
	}
	return out
}

// BlocksTable renders block summaries as a table.
func BlocksTable(blocks []BlockSummary) *Table {
	rows := make([][]string, len(blocks))
	total := 0
	missing := 0
	for i, b := range blocks {
		doc := "yes"
		if !b.HasDocstring {
			doc = "no"
			missing++
		}
		total += b.Tokens
		rows[i] = []string{
			b.File,
			string(b.Kind),
			b.Name,
			b.Class,
			fmt.Sprintf("%d-%d", b.StartLine, b.EndLine),
			doc,
			FormatTokenCount(b.Tokens),
		}
	}
	footer := []string{
		fmt.Sprintf("%d blocks", len(blocks)),
		"", "", "", "",
		fmt.Sprintf("%d missing", missing),
		FormatTokenCount(total),
	}
	if blocks == nil {
		blocks = []BlockSummary{}
	}
	return NewTable("Code Blocks",
		[]string{"File", "Kind", "Name", "Class", "Lines", "Docstring", "Tokens"},
		rows, footer, blocks)
}
