package fmtcli

import (
	"strings"
	"testing"
)

func TestRenderUsageGroupsAndOrder(t *testing.T) {
	schema := testSchema(t)
	usage := RenderUsage(schema)

	if !strings.HasPrefix(usage, "Usage: fmtcli") {
		t.Fatalf("missing intro line:\n%s", usage)
	}

	format := strings.Index(usage, CategoryFormat+":")
	config := strings.Index(usage, CategoryConfig+":")
	other := strings.Index(usage, CategoryOther+":")
	if format < 0 || config < 0 || other < 0 {
		t.Fatalf("missing category headers:\n%s", usage)
	}
	if !(format < config && config < other) {
		t.Fatalf("category order wrong: format=%d config=%d other=%d", format, config, other)
	}
}

func TestRenderUsageNegationPlacement(t *testing.T) {
	usage := RenderUsage(testSchema(t))

	semi := strings.Index(usage, "--semi")
	noSemi := strings.Index(usage, "--no-semi")
	if semi < 0 || noSemi < 0 {
		t.Fatalf("semi entries missing:\n%s", usage)
	}
	if noSemi < semi {
		t.Fatalf("no-semi must render after semi")
	}

	between := usage[semi:noSemi]
	if strings.Contains(between, "--single-quote") {
		t.Fatalf("no-semi must immediately follow semi:\n%s", between)
	}
}

func TestRenderUsageHidesDeprecated(t *testing.T) {
	usage := RenderUsage(testSchema(t))
	if strings.Contains(usage, "--stdin\n") || strings.Contains(usage, "--stdin ") {
		t.Fatalf("deprecated options must not render:\n%s", usage)
	}
}

func TestRenderUsageDefaultsAndChoices(t *testing.T) {
	usage := RenderUsage(testSchema(t))

	if !strings.Contains(usage, "Defaults to 80.") {
		t.Fatalf("print-width default missing:\n%s", usage)
	}
	// Deprecated choice values stay out of the rendered placeholder.
	if !strings.Contains(usage, "<lf|crlf|auto>") {
		t.Fatalf("end-of-line placeholder wrong:\n%s", usage)
	}
	if strings.Contains(usage, "|cr|") || strings.Contains(usage, "|cr>") {
		t.Fatalf("deprecated choice leaked into placeholder:\n%s", usage)
	}
}

func TestRenderUsageLongHeaderWraps(t *testing.T) {
	schema, err := BuildSchema([]OptionSpec{
		{
			Name: "a-very-long-option-name-indeed",
			Type: OptionTypeChoice,
			Choices: []Choice{
				{Value: "first"},
				{Value: "second"},
			},
			Description: "Something descriptive.",
		},
		{Name: "help", Type: OptionTypeBoolean, Category: CategoryOther},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	usage := RenderUsage(schema)
	for _, line := range strings.Split(usage, "\n") {
		if strings.Contains(line, "--a-very-long-option-name-indeed") && strings.Contains(line, "Something descriptive.") {
			t.Fatalf("long header must push the description to the next line:\n%s", usage)
		}
	}
	if !strings.Contains(usage, "Something descriptive.") {
		t.Fatalf("description missing:\n%s", usage)
	}
}

func TestRenderUsagePluginDefaults(t *testing.T) {
	schema, err := BuildSchema(BuiltinOptions(), []OptionSpec{
		{
			Name:    "print-width",
			Type:    OptionTypeNumber,
			Default: float64(100),
			Plugin:  "markdown",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	usage := RenderUsage(schema)
	if !strings.Contains(usage, "Defaults to 100 for markdown.") {
		t.Fatalf("per-plugin default missing:\n%s", usage)
	}
}

func TestRenderDetailedUsage(t *testing.T) {
	schema := testSchema(t)

	detail, err := RenderDetailedUsage(schema, "trailing-comma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"--trailing-comma", "all", "es5", "none", "Defaults to all."} {
		if !strings.Contains(detail, want) {
			t.Fatalf("detailed usage missing %q:\n%s", want, detail)
		}
	}

	if _, err := RenderDetailedUsage(schema, "trailing-coma"); err == nil {
		t.Fatalf("unknown option must fail with a suggestion")
	} else if !strings.Contains(err.Error(), "trailing-comma") {
		t.Fatalf("error should carry the suggestion: %v", err)
	}
}

func TestDetailedOptionMap(t *testing.T) {
	schema := testSchema(t)
	mapped := DetailedOptionMap(schema.Specs())

	if _, ok := mapped["printWidth"]; !ok {
		t.Fatalf("printWidth missing")
	}
	if _, ok := mapped["version"]; ok {
		t.Fatalf("non-forwarding options must not appear")
	}
	if _, ok := mapped["stdin"]; ok {
		t.Fatalf("deprecated options must not appear")
	}
}
