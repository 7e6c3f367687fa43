package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/docaudit/pkg/audit"
	"github.com/panbanda/docaudit/pkg/critique"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// exitInvalidPath is returned when the audited path is neither a file nor a directory.
const exitInvalidPath = 64

// maxTallyExit caps the tally exit status below the shell's reserved codes.
const maxTallyExit = 125

func main() {
	// A missing .env is fine; keys may come from the environment.
	_ = godotenv.Load()
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp(stdout, stderr).RunContext(ctx, args)
	return exitCode(err, stderr)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "docaudit",
		Usage:     "Audit Python docstrings with a language model",
		Version:   version,
		ArgsUsage: "[path]",
		Description: `docaudit extracts every function, method and class from Python files,
asks a language model to review each docstring against a documentation
style, reports errors and warnings, and can rewrite docstrings in place.

The exit status is the number of errors found (plus warnings with
--error-on-warnings), 64 for an invalid path, and 1 for any other failure.`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     auditFlags(),
		Action:    runAuditCmd,
		// Exit codes are mapped by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			blocksCmd(),
			cacheCmd(),
			configCmd(),
			mcpCmd(),
		},
	}
}

// exitCode maps the error returned by the app to a process exit status,
// reporting unexpected failures on stderr.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}

	red := color.New(color.FgRed)
	var pathErr *audit.InvalidPathError
	if errors.As(err, &pathErr) {
		red.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalidPath
	}
	red.Fprintf(stderr, "Error: %v\n", err)
	if critique.IsRetriesExhausted(err) {
		fmt.Fprintln(stderr, "Hint: check the model settings and API key, or raise retry.max_attempts")
	}
	return 1
}

// tallyExit converts a tally exit status into an error for run.
func tallyExit(code int) error {
	if code <= 0 {
		return nil
	}
	if code > maxTallyExit {
		code = maxTallyExit
	}
	return cli.Exit("", code)
}

// getPath returns the positional path argument, defaulting to ".".
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}
