package fmtcli

import (
	"errors"
	"fmt"
	"strings"
)

// OptionType identifies the closed set of value kinds an option can accept.
// Every type owns an explicit coercion function in normalize.go; there is no
// duck-typed fallback path.
type OptionType int

const (
	// OptionTypeUnknown guards against zero-valued specs so call sites can
	// detect missing metadata.
	OptionTypeUnknown OptionType = iota
	// OptionTypeBoolean accepts true/false flags, including negated no-<name>
	// forms.
	OptionTypeBoolean
	// OptionTypeText accepts free-form string values.
	OptionTypeText
	// OptionTypeNumber accepts numeric values, normalised to float64.
	OptionTypeNumber
	// OptionTypeChoice accepts one of a closed set of string values.
	OptionTypeChoice
)

func (t OptionType) String() string {
	switch t {
	case OptionTypeBoolean:
		return "boolean"
	case OptionTypeText:
		return "string"
	case OptionTypeNumber:
		return "number"
	case OptionTypeChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Choice describes one admissible value of a choice-typed option.
type Choice struct {
	Value       string
	Description string
	Deprecated  bool
}

// OptionSpec describes one recognised option: its CLI surface, value type,
// default and API forwarding behaviour.
type OptionSpec struct {
	Name                string // unique kebab-case CLI name
	Alias               string // single-letter shorthand, optional
	Type                OptionType
	Choices             []Choice // required when Type == OptionTypeChoice
	Default             any
	Category            string
	Description         string
	OppositeDescription string // set on booleans that grow a synthetic no-<name> twin
	ForwardsTo          string // API name forwarded to the formatting engine; empty for CLI-only options
	Deprecated          bool   // deprecated options never forward and are hidden from usage
	Repeatable          bool   // text options that may be given multiple times
	DefaultRule         string // expression computing the default from the resolved snapshot
	Plugin              string // contributing plugin name, empty for builtins
	PluginDefaults      map[string]any

	// negationOf links a synthetic no-<name> entry back to its base option.
	negationOf string
}

// Forwards reports whether values for this option reach ResolvedOptions.
func (s OptionSpec) Forwards() bool {
	return s.ForwardsTo != "" && !s.Deprecated
}

// IsNegation reports whether the spec is a synthetic no-<name> entry.
func (s OptionSpec) IsNegation() bool {
	return s.negationOf != ""
}

// NegationOf returns the base option name for synthetic no-<name> entries.
func (s OptionSpec) NegationOf() string {
	return s.negationOf
}

func (s OptionSpec) clone() OptionSpec {
	out := s
	if len(s.Choices) > 0 {
		out.Choices = append([]Choice(nil), s.Choices...)
	}
	if len(s.PluginDefaults) > 0 {
		out.PluginDefaults = make(map[string]any, len(s.PluginDefaults))
		for name, value := range s.PluginDefaults {
			out.PluginDefaults[name] = value
		}
	}
	return out
}

// Option categories used by the built-in table. Plugins may introduce their
// own; anything uncategorised lands in CategoryFormat.
const (
	CategoryFormat = "Format options"
	CategoryConfig = "Config options"
	CategoryEditor = "Editor options"
	CategoryOutput = "Output options"
	CategoryOther  = "Other options"
)

var (
	// ErrDuplicateOption indicates BuildSchema received two specs with the
	// same canonical name from the same source.
	ErrDuplicateOption = errors.New("fmtcli: option names must be unique")
	// ErrChoicesRequired indicates a choice-typed spec without choices.
	ErrChoicesRequired = errors.New("fmtcli: choice options require at least one choice")
	// ErrOptionNameRequired indicates a spec without a name.
	ErrOptionNameRequired = errors.New("fmtcli: option name must be provided")
)

// Schema is the full active set of OptionSpecs at a point in time, plus the
// derived name tables built once at construction. A Schema is immutable after
// BuildSchema returns; Context swaps whole Schema values instead of mutating.
type Schema struct {
	specs []OptionSpec
	byCLI map[string]int // primary names, aliases and no-<name> synthetics
	byAPI map[string]int // ForwardsTo names for forwarding specs
}

// BuildSchema merges the built-in option table with plugin-contributed specs.
// On a name collision the built-in entry wins, but the plugin default is
// retained in the winning entry's PluginDefaults bookkeeping. Booleans with an
// OppositeDescription gain a synthetic no-<name> twin placed immediately after
// the base entry.
func BuildSchema(builtins, pluginOptions []OptionSpec) (*Schema, error) {
	merged := make([]OptionSpec, 0, len(builtins)+len(pluginOptions))
	index := make(map[string]int, len(builtins)+len(pluginOptions))

	for _, spec := range builtins {
		spec := spec.clone()
		if spec.Name == "" {
			return nil, ErrOptionNameRequired
		}
		if _, exists := index[spec.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOption, spec.Name)
		}
		if spec.Category == "" {
			spec.Category = CategoryFormat
		}
		index[spec.Name] = len(merged)
		merged = append(merged, spec)
	}

	for _, spec := range pluginOptions {
		spec := spec.clone()
		if spec.Name == "" {
			return nil, ErrOptionNameRequired
		}
		if at, exists := index[spec.Name]; exists {
			// Built-in wins; record the plugin's default so usage and
			// computed-default resolution still see it.
			if spec.Plugin != "" && spec.Default != nil {
				base := &merged[at]
				if base.PluginDefaults == nil {
					base.PluginDefaults = map[string]any{}
				}
				base.PluginDefaults[spec.Plugin] = spec.Default
			}
			continue
		}
		if spec.Category == "" {
			spec.Category = CategoryFormat
		}
		if spec.ForwardsTo == "" && !spec.Deprecated {
			spec.ForwardsTo = camelize(spec.Name)
		}
		index[spec.Name] = len(merged)
		merged = append(merged, spec)
	}

	specs := make([]OptionSpec, 0, len(merged)+4)
	for _, spec := range merged {
		if spec.Type == OptionTypeChoice && len(spec.Choices) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrChoicesRequired, spec.Name)
		}
		specs = append(specs, spec)
		if spec.Type == OptionTypeBoolean && spec.OppositeDescription != "" {
			specs = append(specs, OptionSpec{
				Name:        "no-" + spec.Name,
				Type:        OptionTypeBoolean,
				Category:    spec.Category,
				Description: spec.OppositeDescription,
				Plugin:      spec.Plugin,
				negationOf:  spec.Name,
			})
		}
	}

	schema := &Schema{
		specs: specs,
		byCLI: make(map[string]int, len(specs)*2),
		byAPI: make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		if _, exists := schema.byCLI[spec.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOption, spec.Name)
		}
		schema.byCLI[spec.Name] = i
		if spec.Alias != "" {
			if _, exists := schema.byCLI[spec.Alias]; !exists {
				schema.byCLI[spec.Alias] = i
			}
		}
		if spec.Forwards() {
			if _, exists := schema.byAPI[spec.ForwardsTo]; !exists {
				schema.byAPI[spec.ForwardsTo] = i
			}
		}
	}
	return schema, nil
}

// Lookup resolves a CLI name, alias or synthetic negation to its spec.
func (s *Schema) Lookup(name string) (OptionSpec, bool) {
	if s == nil {
		return OptionSpec{}, false
	}
	at, ok := s.byCLI[name]
	if !ok {
		return OptionSpec{}, false
	}
	return s.specs[at].clone(), true
}

// LookupAPI resolves an API (forwarding) name to its spec.
func (s *Schema) LookupAPI(name string) (OptionSpec, bool) {
	if s == nil {
		return OptionSpec{}, false
	}
	at, ok := s.byAPI[name]
	if !ok {
		return OptionSpec{}, false
	}
	return s.specs[at].clone(), true
}

// Specs returns a defensive copy of the schema entries in declaration order.
func (s *Schema) Specs() []OptionSpec {
	if s == nil || len(s.specs) == 0 {
		return nil
	}
	out := make([]OptionSpec, len(s.specs))
	for i := range s.specs {
		out[i] = s.specs[i].clone()
	}
	return out
}

// Len returns the number of schema entries including synthetics.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.specs)
}

// APIName maps a CLI name to the API name it forwards to ("" when the option
// does not forward).
func (s *Schema) APIName(cliName string) string {
	spec, ok := s.Lookup(cliName)
	if !ok || !spec.Forwards() {
		return ""
	}
	return spec.ForwardsTo
}

// CLIName maps an API name back to its CLI surface name ("" when unknown).
func (s *Schema) CLIName(apiName string) string {
	spec, ok := s.LookupAPI(apiName)
	if !ok {
		return ""
	}
	return spec.Name
}

// camelize converts a kebab-case CLI name into the camelCase API convention.
func camelize(name string) string {
	parts := strings.Split(name, "-")
	if len(parts) == 1 {
		return name
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
