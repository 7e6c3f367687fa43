package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/docaudit/internal/fileproc"
	"github.com/panbanda/docaudit/internal/output"
	"github.com/panbanda/docaudit/internal/scanner"
	"github.com/panbanda/docaudit/pkg/audit"
	"github.com/panbanda/docaudit/pkg/extract"
	"github.com/panbanda/docaudit/pkg/models"
	"github.com/panbanda/docaudit/pkg/patch"
	"github.com/panbanda/docaudit/pkg/report"
)

// ListInput selects the blocks to list.
type ListInput struct {
	Path   string `json:"path,omitempty" jsonschema:"File or directory to scan. Defaults to the current directory."`
	Name   string `json:"name,omitempty" jsonschema:"Only list blocks with exactly this name."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// AuditInput selects what to audit and how.
type AuditInput struct {
	Path     string `json:"path,omitempty" jsonschema:"File or directory to audit. Defaults to the current directory."`
	Name     string `json:"name,omitempty" jsonschema:"Only audit blocks with exactly this name."`
	Model    string `json:"model,omitempty" jsonschema:"Model identifier. Defaults to the configured model."`
	Provider string `json:"provider,omitempty" jsonschema:"Model provider: openai or gemini. Inferred from the model when empty."`
	Style    string `json:"style,omitempty" jsonschema:"Docstring convention: numpydoc, google, or sphinx."`
	AutoFix  bool   `json:"auto_fix,omitempty" jsonschema:"Write proposed docstrings back to the source files."`
	FixMode  string `json:"fix_mode,omitempty" jsonschema:"How fixes locate the old docstring: span (default) or global."`
	Format   string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// auditOutput is the audit_docstrings result.
type auditOutput struct {
	Report string            `json:"report" toon:"report"`
	Result *models.RunResult `json:"result" toon:"result"`
}

// Helper functions

func getPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	if format == output.FormatMarkdown {
		return "```\n" + string(out) + "\n```", nil
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	var text string
	var err error
	if format == output.FormatJSON {
		var buf bytes.Buffer
		err = output.NewWriterFormatter(output.FormatJSON, &buf, false).Output(data)
		text = buf.String()
	} else {
		text, err = formatOutput(data, format)
	}
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// listFiles returns path itself when it is a file, or the scanned files below it.
func (s *Server) listFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &audit.InvalidPathError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return scanner.NewScanner(&s.config.Scan).ScanDir(path)
}

// Tool handlers

func (s *Server) handleListCodeBlocks(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, any, error) {
	files, err := s.listFiles(getPath(input.Path))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	summaries := []output.BlockSummary{}
	for _, r := range fileproc.ExtractFiles(ctx, files, input.Name) {
		if r.Err != nil {
			var parseErr *extract.ParseError
			if errors.As(r.Err, &parseErr) {
				continue
			}
			return toolError(r.Err.Error())
		}
		summaries = append(summaries, output.SummarizeBlocks(r.Path, r.Value)...)
	}

	return toolResult(summaries, getFormat(input.Format))
}

func (s *Server) handleAuditDocstrings(ctx context.Context, req *mcp.CallToolRequest, input AuditInput) (*mcp.CallToolResult, any, error) {
	cfg := *s.config
	if input.Model != "" {
		cfg.Model.Name = input.Model
	}
	if input.Provider != "" {
		cfg.Model.Provider = input.Provider
	}
	if input.Style != "" {
		cfg.Style.Name = input.Style
	}
	if input.FixMode != "" {
		cfg.Fix.Mode = input.FixMode
	}
	if err := cfg.Validate(); err != nil {
		return toolError(err.Error())
	}

	opts, err := audit.OptionsFromConfig(&cfg)
	if err != nil {
		return toolError(err.Error())
	}
	opts.AutoFix = input.AutoFix
	opts.NameFilter = input.Name
	opts.SkipInvalid = true

	path := getPath(input.Path)
	if _, err := audit.CheckPath(path); err != nil {
		return toolError(err.Error())
	}
	critic, err := audit.NewCritic(ctx, &cfg, s.factory, nil)
	if err != nil {
		return toolError(err.Error())
	}

	var buf bytes.Buffer
	a := audit.New(critic, report.New(&buf, false), opts)
	defer a.Close()

	run, err := a.Process(ctx, path)
	if err != nil {
		var missing *patch.PatchTargetNotFoundError
		if errors.As(err, &missing) {
			return toolError(fmt.Sprintf("%v (enable fix.skip_missing_docstring to skip such blocks)", err))
		}
		return toolError(err.Error())
	}
	report.New(&buf, false).Summary(run.Tally, false)

	return toolResult(auditOutput{Report: buf.String(), Result: run}, getFormat(input.Format))
}
