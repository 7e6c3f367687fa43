package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/docaudit/internal/output"
	"github.com/panbanda/docaudit/internal/progress"
	"github.com/panbanda/docaudit/pkg/audit"
	"github.com/panbanda/docaudit/pkg/config"
	"github.com/panbanda/docaudit/pkg/report"
)

// criticFactory is replaced in tests so no request reaches a model.
var criticFactory audit.CriticFactory

func auditFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (TOML, YAML, or JSON)",
			EnvVars: []string{"DOCAUDIT_CONFIG"},
		},
		&cli.StringSliceFlag{
			Name:  "ignore-dirs",
			Usage: "Directory name to skip while walking (repeatable, default: tests)",
		},
		&cli.BoolFlag{
			Name:  "error-on-warnings",
			Usage: "Count warnings towards the exit status",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model identifier (default: gpt-4)",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Model provider: openai or gemini (default: inferred from --model)",
		},
		&cli.StringFlag{
			Name:  "style",
			Usage: "Docstring style: numpydoc, google, or sphinx (default: numpydoc)",
		},
		&cli.StringFlag{
			Name:  "code-block-name",
			Usage: "Only audit functions, methods or classes with exactly this name",
		},
		&cli.BoolFlag{
			Name:  "auto-fix",
			Usage: "Write proposed docstrings back to the source files",
		},
		&cli.StringFlag{
			Name:  "fix-mode",
			Usage: "How fixes locate the old docstring: span or global (default: span)",
		},
		&cli.BoolFlag{
			Name:  "diff",
			Usage: "Print a diff of each proposed or applied docstring",
		},
		&cli.BoolFlag{
			Name:  "skip-invalid",
			Usage: "Skip files that fail to parse instead of aborting",
		},
		&cli.BoolFlag{
			Name:  "gitignore",
			Usage: "Also skip files matched by .gitignore",
		},
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "Reuse critiques of unchanged blocks from the cache directory",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Run report format: text, json, markdown, toon (default: text)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the run report to file",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	}
}

// loadConfig loads the config file named by --config, or the first one found.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// applyFlags overrides config values with the flags given on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("ignore-dirs") {
		cfg.Scan.IgnoreDirs = c.StringSlice("ignore-dirs")
	}
	if c.IsSet("model") {
		cfg.Model.Name = c.String("model")
	}
	if c.IsSet("provider") {
		cfg.Model.Provider = c.String("provider")
	}
	if c.IsSet("style") {
		cfg.Style.Name = c.String("style")
	}
	if c.IsSet("fix-mode") {
		cfg.Fix.Mode = c.String("fix-mode")
	}
	if c.IsSet("gitignore") {
		cfg.Scan.Gitignore = c.Bool("gitignore")
	}
	if c.IsSet("cache") {
		cfg.Cache.Enabled = c.Bool("cache")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	if c.IsSet("verbose") {
		cfg.Output.Verbose = c.Bool("verbose")
	}
	return cfg.Validate()
}

func runAuditCmd(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected one path, got %d: %s", c.Args().Len(), strings.Join(c.Args().Slice(), " "))
	}

	path := getPath(c)
	if _, err := audit.CheckPath(path); err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	stdout := c.App.Writer
	stderr := c.App.ErrWriter
	colored := cfg.Output.Color && !color.NoColor
	format := output.ParseFormat(cfg.Output.Format)

	// Machine-readable reports own stdout unless they go to a file.
	reportWriter := stdout
	if format != output.FormatText && c.String("output") == "" {
		reportWriter = stderr
	}
	reporter := report.New(reportWriter, colored)

	var logf func(string, ...any)
	if cfg.Output.Verbose {
		logf = func(msg string, args ...any) {
			fmt.Fprintf(stderr, msg+"\n", args...)
		}
	}

	critic, err := audit.NewCritic(c.Context, cfg, criticFactory, logf)
	if err != nil {
		return err
	}

	opts, err := audit.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.AutoFix = c.Bool("auto-fix")
	opts.NameFilter = c.String("code-block-name")
	opts.ShowDiff = c.Bool("diff")
	opts.SkipInvalid = c.Bool("skip-invalid")

	auditOpts := []audit.Option{audit.WithLogf(logf)}
	if colored && !cfg.Output.Verbose {
		auditOpts = append(auditOpts, audit.WithActivity(progress.NewSpinner(stderr)))
	}

	a := audit.New(critic, reporter, opts, auditOpts...)
	defer a.Close()

	result, err := a.Process(c.Context, path)
	if err != nil {
		return err
	}

	errorOnWarnings := c.Bool("error-on-warnings")
	reporter.Summary(result.Tally, errorOnWarnings)

	if format != output.FormatText || cfg.Output.Verbose || c.String("output") != "" {
		if err := writeRunReport(c, format, colored, output.NewRunReport(result)); err != nil {
			return err
		}
	}

	return tallyExit(result.Tally.ExitCode(errorOnWarnings))
}

// writeRunReport renders data to --output, or to the app's stdout.
func writeRunReport(c *cli.Context, format output.Format, colored bool, data any) error {
	var formatter *output.Formatter
	if path := c.String("output"); path != "" {
		f, err := output.NewFormatter(format, path, colored)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		formatter = f
	} else {
		formatter = output.NewWriterFormatter(format, c.App.Writer, colored)
	}
	defer formatter.Close()

	return formatter.Output(data)
}
