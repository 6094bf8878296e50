package fmtcli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// upperEngine is a deterministic fake: it uppercases input and fails on
// inputs containing the string "boom".
type upperEngine struct {
	calls []ResolvedOptions
}

func (e *upperEngine) Format(_ context.Context, input string, options ResolvedOptions) (FormatResult, error) {
	e.calls = append(e.calls, options)
	if strings.Contains(input, "boom") {
		return FormatResult{}, &ParseError{
			Path: options["filepath"].(string),
			Line: 1, Column: 1,
			Err: errors.New("unexpected token"),
		}
	}
	return FormatResult{Formatted: strings.ToUpper(input)}, nil
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFormatFilesCheckMode(t *testing.T) {
	dir := t.TempDir()
	clean := writeTestFile(t, dir, "clean.txt", "READY\n")
	dirty := writeTestFile(t, dir, "dirty.txt", "not ready\n")

	engine := &upperEngine{}
	ctx, err := NewContext([]string{"--check", clean, dirty}, WithEngine(engine))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := ctx.FormatFiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Checked != 2 {
		t.Fatalf("checked = %d", summary.Checked)
	}
	if len(summary.Changed) != 1 || summary.Changed[0] != dirty {
		t.Fatalf("changed = %v", summary.Changed)
	}
	if got := summary.ExitCode(ctx.Mode()); got != 1 {
		t.Fatalf("check mode with differences must exit 1, got %d", got)
	}

	// Files stay untouched outside write mode.
	content, _ := os.ReadFile(dirty)
	if string(content) != "not ready\n" {
		t.Fatalf("check mode must not rewrite files")
	}
}

func TestFormatFilesWriteMode(t *testing.T) {
	dir := t.TempDir()
	dirty := writeTestFile(t, dir, "dirty.txt", "not ready\n")

	ctx, err := NewContext([]string{"--write", dirty}, WithEngine(&upperEngine{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, err := ctx.FormatFiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Written) != 1 {
		t.Fatalf("written = %v", summary.Written)
	}
	if got := summary.ExitCode(ctx.Mode()); got != 0 {
		t.Fatalf("write mode exit = %d", got)
	}

	content, _ := os.ReadFile(dirty)
	if string(content) != "NOT READY\n" {
		t.Fatalf("file not rewritten: %q", content)
	}
}

func TestFormatFilesParseErrorIsRecoverable(t *testing.T) {
	dir := t.TempDir()
	bad := writeTestFile(t, dir, "bad.txt", "boom\n")
	good := writeTestFile(t, dir, "good.txt", "fine\n")

	ctx, err := NewContext([]string{"--check", bad, good}, WithEngine(&upperEngine{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, err := ctx.FormatFiles(context.Background())
	if err != nil {
		t.Fatalf("parse failures must not abort the batch: %v", err)
	}

	if len(summary.Errors) != 1 {
		t.Fatalf("errors = %v", summary.Errors)
	}
	var parseErr *ParseError
	if !errors.As(summary.Errors[0], &parseErr) {
		t.Fatalf("expected ParseError, got %v", summary.Errors[0])
	}
	if summary.Checked != 2 {
		t.Fatalf("batch must continue past the failure, checked = %d", summary.Checked)
	}
	if got := summary.ExitCode(ctx.Mode()); got != 2 {
		t.Fatalf("recoverable errors exit 2, got %d", got)
	}
}

func TestFormatFilesResolvesPerFile(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "a.txt", "x\n")

	engine := &upperEngine{}
	ctx, err := NewContext([]string{"--print-width", "120", file}, WithEngine(engine))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ctx.FormatFiles(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(engine.calls) != 1 {
		t.Fatalf("engine calls = %d", len(engine.calls))
	}
	options := engine.calls[0]
	if options["printWidth"] != float64(120) {
		t.Fatalf("printWidth = %v", options["printWidth"])
	}
	if options["filepath"] != file {
		t.Fatalf("filepath = %v", options["filepath"])
	}
}

func TestFormatFilesDebugTraces(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "a.txt", "x\n")

	ctx, err := NewContext([]string{"--debug-resolution", "--check", file}, WithEngine(&upperEngine{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, err := ctx.FormatFiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Traces) != 1 || summary.Traces[0].Filepath != file {
		t.Fatalf("traces = %+v", summary.Traces)
	}
}

func TestFormatStdinDrainsFully(t *testing.T) {
	ctx, err := NewContext([]string{"--stdin-filepath", "src/app.js"}, WithEngine(&upperEngine{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out strings.Builder
	input := strings.NewReader("hello stdin\n")
	if err := ctx.FormatStdin(context.Background(), input, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "HELLO STDIN\n" {
		t.Fatalf("output = %q", out.String())
	}
	if input.Len() != 0 {
		t.Fatalf("stdin not drained")
	}
}

func TestFormatWithoutEngine(t *testing.T) {
	ctx, err := NewContext(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ctx.FormatFiles(context.Background()); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
	if _, err := ctx.Format(context.Background(), "x", nil); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}
