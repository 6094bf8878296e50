package fmtcli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"
)

const (
	usageIntro = "Usage: fmtcli [options] [file/dir/glob ...]"

	// Header column the descriptions align to. Headers at or past the column
	// push their description onto the next line instead of breaking the grid.
	usageColumn = 27
	usageWidth  = 80
)

// Usage renders the full grouped option listing for the active schema.
func (c *Context) Usage() string {
	return RenderUsage(c.schema)
}

// DetailedUsage renders the expanded help for a single option.
func (c *Context) DetailedUsage(name string) (string, error) {
	return RenderDetailedUsage(c.schema, name)
}

// RenderUsage is pure and stateless given a Schema: options group by
// category, categories order by a fixed priority list, and each option
// renders as an aligned header plus a word-wrapped description.
func RenderUsage(schema *Schema) string {
	var b strings.Builder
	b.WriteString(usageIntro)
	b.WriteString("\n")

	for _, category := range orderedCategories(schema) {
		b.WriteString("\n")
		b.WriteString(category)
		b.WriteString(":\n\n")
		for _, spec := range schema.Specs() {
			if spec.Category != category || spec.Deprecated {
				continue
			}
			b.WriteString(renderOption(spec))
		}
	}
	return b.String()
}

// RenderDetailedUsage expands a single option: header, full description,
// choice listing and default.
func RenderDetailedUsage(schema *Schema, name string) (string, error) {
	spec, ok := schema.Lookup(name)
	if !ok {
		suggestion, matched := SuggestOption(schema, name)
		reason := "unknown option"
		if matched {
			reason = fmt.Sprintf("unknown option, did you mean --%s?", suggestion.Name)
		}
		return "", &ValidationError{Option: name, Reason: reason}
	}

	var b strings.Builder
	b.WriteString(optionHeader(spec))
	b.WriteString("\n\n")
	if spec.Description != "" {
		b.WriteString(wordwrap.WrapString(spec.Description, usageWidth))
		b.WriteString("\n")
	}
	if spec.Type == OptionTypeChoice {
		b.WriteString("\nValid options:\n\n")
		for _, choice := range spec.Choices {
			if choice.Deprecated {
				continue
			}
			b.WriteString(fmt.Sprintf("  %-8s %s\n", choice.Value, choice.Description))
		}
	}
	if line := defaultSentence(spec); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// DetailedOptionMap indexes forwarding specs by their API names, the shape
// support tooling consumes.
func DetailedOptionMap(specs []OptionSpec) map[string]OptionSpec {
	out := make(map[string]OptionSpec, len(specs))
	for _, spec := range specs {
		if !spec.Forwards() || spec.IsNegation() {
			continue
		}
		out[spec.ForwardsTo] = spec
	}
	return out
}

// orderedCategories returns the categories present in the schema: the format
// group always first, "Other options" always last, the rest in first-seen
// order.
func orderedCategories(schema *Schema) []string {
	var middle []string
	seen := map[string]struct{}{}
	hasFormat, hasOther := false, false
	for _, spec := range schema.Specs() {
		if spec.Deprecated {
			continue
		}
		category := spec.Category
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		switch category {
		case CategoryFormat:
			hasFormat = true
		case CategoryOther:
			hasOther = true
		default:
			middle = append(middle, category)
		}
	}
	sort.Strings(middle)

	out := make([]string, 0, len(middle)+2)
	if hasFormat {
		out = append(out, CategoryFormat)
	}
	out = append(out, middle...)
	if hasOther {
		out = append(out, CategoryOther)
	}
	return out
}

func renderOption(spec OptionSpec) string {
	header := "  " + optionHeader(spec)
	description := spec.Description
	if line := defaultSentence(spec); line != "" {
		description = strings.TrimRight(description, " ") + " " + line
	}
	if description == "" {
		return header + "\n"
	}

	wrapped := wordwrap.WrapString(description, uint(usageWidth-usageColumn))
	lines := strings.Split(wrapped, "\n")

	var b strings.Builder
	b.WriteString(header)
	width := runewidth.StringWidth(header)
	if width >= usageColumn {
		// Long header: description starts on its own line at the column.
		b.WriteString("\n")
		width = 0
	}
	for i, line := range lines {
		if i == 0 {
			b.WriteString(strings.Repeat(" ", usageColumn-width))
		} else {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", usageColumn))
		}
		b.WriteString(line)
	}
	b.WriteString("\n")
	return b.String()
}

// optionHeader renders the "-a, --name <type>" form.
func optionHeader(spec OptionSpec) string {
	var b strings.Builder
	if spec.Alias != "" {
		b.WriteString("-")
		b.WriteString(spec.Alias)
		b.WriteString(", ")
	}
	b.WriteString("--")
	b.WriteString(spec.Name)
	if placeholder := valuePlaceholder(spec); placeholder != "" {
		b.WriteString(" ")
		b.WriteString(placeholder)
	}
	return b.String()
}

func valuePlaceholder(spec OptionSpec) string {
	switch spec.Type {
	case OptionTypeBoolean:
		return ""
	case OptionTypeNumber:
		return "<int>"
	case OptionTypeChoice:
		values := make([]string, 0, len(spec.Choices))
		for _, choice := range spec.Choices {
			if choice.Deprecated {
				continue
			}
			values = append(values, choice.Value)
		}
		return "<" + strings.Join(values, "|") + ">"
	default:
		return "<path>"
	}
}

// defaultSentence renders the computed default, including per-plugin
// overrides recorded during schema merging.
func defaultSentence(spec OptionSpec) string {
	if spec.Default == nil && len(spec.PluginDefaults) == 0 {
		return ""
	}
	var parts []string
	if spec.Default != nil {
		parts = append(parts, fmt.Sprintf("Defaults to %v.", formatDefault(spec.Default)))
	}
	if len(spec.PluginDefaults) > 0 {
		plugins := make([]string, 0, len(spec.PluginDefaults))
		for name := range spec.PluginDefaults {
			plugins = append(plugins, name)
		}
		sort.Strings(plugins)
		for _, name := range plugins {
			parts = append(parts, fmt.Sprintf("Defaults to %v for %s.", formatDefault(spec.PluginDefaults[name]), name))
		}
	}
	return strings.Join(parts, " ")
}

func formatDefault(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%v", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
