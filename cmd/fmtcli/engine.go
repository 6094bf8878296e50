package main

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	fmtcli "github.com/goliatone/go-fmtcli"
)

var errInvalidEncoding = errors.New("input is not valid UTF-8")

// textEngine is the built-in whitespace formatter: it trims trailing
// whitespace, applies the configured line endings and guarantees a single
// final newline. Language-aware printing comes from plugins.
type textEngine struct{}

func newTextEngine() fmtcli.Engine {
	return textEngine{}
}

func (textEngine) Format(_ context.Context, input string, options fmtcli.ResolvedOptions) (fmtcli.FormatResult, error) {
	if at := invalidRuneOffset(input); at >= 0 {
		line, column := locate(input, at)
		return fmtcli.FormatResult{}, &fmtcli.ParseError{
			Path:   stringOption(options, "filepath"),
			Line:   line,
			Column: column,
			Err:    errInvalidEncoding,
		}
	}

	eol := lineEnding(input, stringOption(options, "endOfLine"))
	lines := splitLines(input)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	// Drop trailing blank lines, then terminate with exactly one newline.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	formatted := strings.Join(lines, eol)
	if formatted != "" {
		formatted += eol
	}
	return fmtcli.FormatResult{Formatted: formatted}, nil
}

func lineEnding(input, endOfLine string) string {
	switch endOfLine {
	case "crlf":
		return "\r\n"
	case "cr":
		return "\r"
	case "auto":
		if strings.Contains(input, "\r\n") {
			return "\r\n"
		}
		return "\n"
	default:
		return "\n"
	}
}

func splitLines(input string) []string {
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

func invalidRuneOffset(input string) int {
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func locate(input string, offset int) (line, column int) {
	line, column = 1, 1
	for _, r := range input[:offset] {
		if r == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}

func stringOption(options fmtcli.ResolvedOptions, key string) string {
	value, _ := options[key].(string)
	return value
}
