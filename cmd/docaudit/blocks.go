package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/docaudit/internal/fileproc"
	"github.com/panbanda/docaudit/internal/output"
	"github.com/panbanda/docaudit/internal/scanner"
	"github.com/panbanda/docaudit/pkg/audit"
	"github.com/panbanda/docaudit/pkg/extract"
)

func blocksCmd() *cli.Command {
	return &cli.Command{
		Name:      "blocks",
		Aliases:   []string{"ls"},
		Usage:     "List the functions, methods and classes an audit would review",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"DOCAUDIT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "code-block-name",
				Usage: "Only list blocks with exactly this name",
			},
			&cli.StringSliceFlag{
				Name:  "ignore-dirs",
				Usage: "Directory name to skip while walking (repeatable, default: tests)",
			},
			&cli.BoolFlag{
				Name:  "gitignore",
				Usage: "Also skip files matched by .gitignore",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default: text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Action: runBlocksCmd,
	}
}

func runBlocksCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	path := getPath(c)
	info, err := os.Stat(path)
	if err != nil {
		return &audit.InvalidPathError{Path: path, Err: err}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = scanner.NewScanner(&cfg.Scan).ScanDir(path)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
	}

	var summaries []output.BlockSummary
	for _, r := range fileproc.ExtractFiles(c.Context, files, c.String("code-block-name")) {
		if r.Err != nil {
			var parseErr *extract.ParseError
			if errors.As(r.Err, &parseErr) {
				fmt.Fprintf(c.App.ErrWriter, "Skipping %s: %v\n", r.Path, r.Err)
				continue
			}
			return r.Err
		}
		summaries = append(summaries, output.SummarizeBlocks(r.Path, r.Value)...)
	}

	colored := cfg.Output.Color && !color.NoColor
	return writeRunReport(c, output.ParseFormat(cfg.Output.Format), colored, output.BlocksTable(summaries))
}
