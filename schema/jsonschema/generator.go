// Package jsonschema generates a JSON Schema document describing the config
// file format accepted by an option schema, for editor completion and
// validation tooling.
package jsonschema

import (
	"sort"

	fmtcli "github.com/goliatone/go-fmtcli"
)

type generatorConfig struct {
	draft                string
	id                   string
	title                string
	additionalProperties bool
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		draft: "http://json-schema.org/draft-07/schema#",
		id:    "https://fmtcli.dev/schema.json",
		title: "fmtcli configuration",
		// Unknown keys warn rather than fail at resolution time, so the
		// schema mirrors that and tolerates them.
		additionalProperties: true,
	}
}

// GeneratorOption configures the generated document.
type GeneratorOption func(*generatorConfig)

// WithDraft overrides the JSON Schema draft URI.
func WithDraft(draft string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if draft != "" {
			cfg.draft = draft
		}
	}
}

// WithID overrides the document's $id.
func WithID(id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if id != "" {
			cfg.id = id
		}
	}
}

// WithTitle overrides the document title.
func WithTitle(title string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.title = title
		}
	}
}

// WithAdditionalProperties controls whether unknown config keys validate.
func WithAdditionalProperties(allowed bool) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.additionalProperties = allowed
	}
}

// Generate builds the JSON Schema for every forwarding option of schema,
// plus the reserved plugins/overrides keys the loader understands.
func Generate(schema *fmtcli.Schema, opts ...GeneratorOption) (Document, error) {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	properties := map[string]any{
		"$schema": map[string]any{
			"type":        "string",
			"description": "Pointer to this document, for editor tooling.",
		},
		"plugins": map[string]any{
			"description": "Plugins to activate for files governed by this config.",
			"type":        "array",
			"items":       map[string]any{"type": "string"},
		},
		"overrides": overridesSchema(),
	}

	names := make([]string, 0, schema.Len())
	byName := map[string]fmtcli.OptionSpec{}
	for _, spec := range schema.Specs() {
		if spec.IsNegation() || !spec.Forwards() {
			continue
		}
		names = append(names, spec.ForwardsTo)
		byName[spec.ForwardsTo] = spec
	}
	sort.Strings(names)
	for _, name := range names {
		properties[name] = propertySchema(byName[name])
	}

	return Document{
		Draft:                cfg.draft,
		ID:                   cfg.id,
		Title:                cfg.title,
		Properties:           properties,
		AdditionalProperties: cfg.additionalProperties,
	}, nil
}

func propertySchema(spec fmtcli.OptionSpec) map[string]any {
	out := map[string]any{}
	if spec.Description != "" {
		out["description"] = spec.Description
	}
	if spec.Default != nil {
		out["default"] = spec.Default
	}

	switch spec.Type {
	case fmtcli.OptionTypeBoolean:
		out["type"] = "boolean"
	case fmtcli.OptionTypeNumber:
		out["type"] = "number"
	case fmtcli.OptionTypeChoice:
		values := make([]any, 0, len(spec.Choices))
		for _, choice := range spec.Choices {
			values = append(values, choice.Value)
		}
		out["enum"] = values
	default:
		if spec.Repeatable {
			out["oneOf"] = []any{
				map[string]any{"type": "string"},
				map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			}
		} else {
			out["type"] = "string"
		}
	}
	return out
}

func overridesSchema() map[string]any {
	return map[string]any{
		"description": "Option subsets scoped to files matching the given patterns.",
		"type":        "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"files"},
			"properties": map[string]any{
				"files": map[string]any{
					"oneOf": []any{
						map[string]any{"type": "string"},
						map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
				"options": map[string]any{"type": "object"},
			},
		},
	}
}
