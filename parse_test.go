package fmtcli

import (
	"errors"
	"testing"
)

func TestParseArgumentsExplicitAndDefaults(t *testing.T) {
	schema := testSchema(t)

	parsed, err := parseArguments(schema, []string{"--print-width", "60", "src/app.js"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := parsed.Value("print-width"); got != float64(60) {
		t.Fatalf("print-width = %v", got)
	}
	if !parsed.Explicit("print-width") {
		t.Fatalf("print-width was given explicitly")
	}
	if got, _ := parsed.Value("tab-width"); got != float64(2) {
		t.Fatalf("tab-width should fall back to the schema default, got %v", got)
	}
	if parsed.Explicit("tab-width") {
		t.Fatalf("tab-width came from the default layer")
	}
	if patterns := parsed.Patterns(); len(patterns) != 1 || patterns[0] != "src/app.js" {
		t.Fatalf("patterns = %v", patterns)
	}
}

func TestParseArgumentsInjectedDefaults(t *testing.T) {
	schema := testSchema(t)
	injected := map[string]any{"print-width": float64(100)}

	// Without the flag the injected default wins over the schema default.
	parsed, err := parseArguments(schema, nil, injected, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := parsed.Value("print-width"); got != float64(100) {
		t.Fatalf("print-width = %v, want injected 100", got)
	}

	// An explicit flag still overrides the injected default.
	parsed, err = parseArguments(schema, []string{"--print-width", "60"}, injected, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := parsed.Value("print-width"); got != float64(60) {
		t.Fatalf("print-width = %v, want explicit 60", got)
	}
}

func TestParseArgumentsNegationBeatsInjectedDefault(t *testing.T) {
	schema := testSchema(t)

	parsed, err := parseArguments(schema, []string{"--no-semi"}, map[string]any{"semi": true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := parsed.Value("semi"); got != false {
		t.Fatalf("semi = %v, want false from --no-semi", got)
	}
	if !parsed.Explicit("semi") {
		t.Fatalf("--no-semi counts as giving semi explicitly")
	}
}

func TestParseArgumentsAliasesAndRepeatable(t *testing.T) {
	schema := testSchema(t)

	parsed, err := parseArguments(schema, []string{"-w", "--plugin", "markdown", "--plugin", "yaml"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Bool("write") {
		t.Fatalf("-w should set write")
	}
	plugins := parsed.Strings("plugin")
	if len(plugins) != 2 || plugins[0] != "markdown" || plugins[1] != "yaml" {
		t.Fatalf("plugin = %v", plugins)
	}
}

func TestParseArgumentsUnknownFlagWarns(t *testing.T) {
	schema := testSchema(t)
	logger := &recordingLogger{}

	_, err := parseArguments(schema, []string{"--tab-widht=4", "src/app.js"}, nil, logger)
	if err != nil {
		t.Fatalf("unknown flags must not fail parsing: %v", err)
	}
	unknown := logger.byKind(WarningUnknownOption)
	if len(unknown) != 1 {
		t.Fatalf("expected one unknown-option warning, got %v", logger.warnings)
	}
	if unknown[0].Suggestion != "tab-width" {
		t.Fatalf("suggestion = %q", unknown[0].Suggestion)
	}
}

func TestParseArgumentsUnknownShortFlagWarns(t *testing.T) {
	schema := testSchema(t)
	logger := &recordingLogger{}

	_, err := parseArguments(schema, []string{"-z", "src/app.js"}, nil, logger)
	if err != nil {
		t.Fatalf("unknown shorthand must not fail parsing: %v", err)
	}
	unknown := logger.byKind(WarningUnknownOption)
	if len(unknown) != 1 || unknown[0].Option != "z" {
		t.Fatalf("expected an unknown-option warning for z, got %v", logger.warnings)
	}
}

func TestParseArgumentsUnknownChoiceValueEscalates(t *testing.T) {
	schema := testSchema(t)
	logger := &recordingLogger{}

	// A bad value for a near-miss of a choice option is a hard failure.
	_, err := parseArguments(schema, []string{"--trailing-coma=everything"}, nil, logger)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// The bare near-miss carries no value, so it only warns.
	logger = &recordingLogger{}
	_, err = parseArguments(schema, []string{"--trailing-coma"}, nil, logger)
	if err != nil {
		t.Fatalf("bare unknown flags must not fail parsing: %v", err)
	}
	unknown := logger.byKind(WarningUnknownOption)
	if len(unknown) != 1 || unknown[0].Suggestion != "trailing-comma" {
		t.Fatalf("warnings = %v", logger.warnings)
	}
}

func TestParseArgumentsBadValue(t *testing.T) {
	schema := testSchema(t)

	_, err := parseArguments(schema, []string{"--trailing-comma", "maybe"}, nil, nil)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseArgumentsTerminator(t *testing.T) {
	schema := testSchema(t)
	logger := &recordingLogger{}

	parsed, err := parseArguments(schema, []string{"--", "--not-a-flag"}, nil, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logger.warnings) != 0 {
		t.Fatalf("tokens after -- are not flags: %v", logger.warnings)
	}
	if patterns := parsed.Patterns(); len(patterns) != 1 || patterns[0] != "--not-a-flag" {
		t.Fatalf("patterns = %v", patterns)
	}
}
