package fmtcli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// ErrNoEngine indicates a formatting run was requested without an engine
// wired in.
var ErrNoEngine = errors.New("fmtcli: no formatting engine configured")

// FormatResult is the engine's output for one input.
type FormatResult struct {
	Formatted    string
	CursorOffset int
}

// Engine is the source formatter the resolution engine drives. Invalid input
// fails with a ParseError carrying a source location.
type Engine interface {
	Format(ctx context.Context, input string, options ResolvedOptions) (FormatResult, error)
}

// FileEnumerator expands glob patterns into relative file paths and answers
// ignore queries.
type FileEnumerator interface {
	Expand(patterns []string) ([]string, error)
	Ignored(path string) bool
}

// FileError ties a recoverable per-file failure to its path.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// RunSummary aggregates the outcome of a batch run. The caller decides what
// it means; ExitCode implements the conventional mapping.
type RunSummary struct {
	Checked int
	Changed []string // files whose content differs from the formatted output
	Written []string
	Errors  []FileError
	Traces  []*Trace // populated when --debug-resolution is active
}

// ExitCode maps the summary onto the CLI exit convention: 2 when any file
// failed recoverably, 1 when a check-style mode found differences, else 0.
func (s *RunSummary) ExitCode(mode RunMode) int {
	if len(s.Errors) > 0 {
		return 2
	}
	if (mode.Check || mode.ListDifferent) && len(s.Changed) > 0 {
		return 1
	}
	return 0
}

// RunMode is the output behaviour selected on the command line.
type RunMode struct {
	Write         bool
	Check         bool
	ListDifferent bool
	Debug         bool
}

// Mode reads the run mode off the parsed arguments.
func (c *Context) Mode() RunMode {
	return RunMode{
		Write:         c.parsed.Bool(optionWrite),
		Check:         c.parsed.Bool(optionCheck),
		ListDifferent: c.parsed.Bool(optionListDifferent),
		Debug:         c.parsed.Bool(optionDebugResolution),
	}
}

// FormatFiles runs the batch over the positional patterns. Configuration and
// validation failures abort immediately; engine parse failures are recorded
// per file and the batch continues.
func (c *Context) FormatFiles(goCtx context.Context) (*RunSummary, error) {
	if c.cfg.engine == nil {
		return nil, ErrNoEngine
	}
	mode := c.Mode()
	summary := &RunSummary{}

	paths, err := c.expandPatterns(c.Patterns())
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if c.cfg.enumerator != nil && c.cfg.enumerator.Ignored(path) {
			continue
		}

		resolved, trace, err := c.resolveForFile(path)
		if err != nil {
			// Fatal by construction: the same config governs every
			// remaining file.
			return summary, err
		}
		if mode.Debug {
			summary.Traces = append(summary.Traces, trace)
		}

		input, mode0, err := readFile(path)
		if err != nil {
			summary.Errors = append(summary.Errors, FileError{Path: path, Err: err})
			continue
		}
		summary.Checked++

		result, err := c.cfg.engine.Format(goCtx, input, resolved)
		if err != nil {
			summary.Errors = append(summary.Errors, FileError{Path: path, Err: err})
			continue
		}

		if result.Formatted != input {
			summary.Changed = append(summary.Changed, path)
			if mode.Write {
				if err := os.WriteFile(path, []byte(result.Formatted), mode0); err != nil {
					summary.Errors = append(summary.Errors, FileError{Path: path, Err: err})
					continue
				}
				summary.Written = append(summary.Written, path)
			}
		}
	}
	return summary, nil
}

// FormatStdin drains r fully, resolves options as if the input lived at the
// --stdin-filepath path, formats, and writes the result to w.
func (c *Context) FormatStdin(goCtx context.Context, r io.Reader, w io.Writer) error {
	if c.cfg.engine == nil {
		return ErrNoEngine
	}
	input, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	path := c.parsed.String(optionStdinFilepath)
	if path == "" {
		path = "(stdin)"
	}
	resolved, err := c.OptionsForFile(path)
	if err != nil {
		return err
	}

	result, err := c.cfg.engine.Format(goCtx, string(input), resolved)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, result.Formatted)
	return err
}

// Format runs the engine directly against an already-resolved option set.
func (c *Context) Format(goCtx context.Context, input string, options ResolvedOptions) (FormatResult, error) {
	if c.cfg.engine == nil {
		return FormatResult{}, ErrNoEngine
	}
	return c.cfg.engine.Format(goCtx, input, options.Clone())
}

// expandPatterns resolves the positional patterns through the enumerator.
// Without one, patterns are taken as literal paths.
func (c *Context) expandPatterns(patterns []string) ([]string, error) {
	if c.cfg.enumerator == nil {
		return patterns, nil
	}
	return c.cfg.enumerator.Expand(patterns)
}

func readFile(path string) (string, fs.FileMode, error) {
	info, err := os.Stat(path)
	perm := fs.FileMode(0o644)
	if err == nil {
		perm = info.Mode().Perm()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", perm, err
	}
	return string(data), perm, nil
}
