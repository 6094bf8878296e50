package fmtcli

import (
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ParsedArguments is the result of applying a Schema to the raw token
// sequence: coerced values keyed by primary CLI option names (negations
// folded), the set of options given explicitly, and the residual positional
// file patterns.
type ParsedArguments struct {
	options  map[string]any
	explicit map[string]bool
	patterns []string
}

// Value returns the coerced value recorded for a primary CLI name.
func (p *ParsedArguments) Value(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	value, ok := p.options[name]
	return value, ok
}

// Bool returns the boolean recorded for name, false when unset.
func (p *ParsedArguments) Bool(name string) bool {
	value, ok := p.Value(name)
	if !ok {
		return false
	}
	b, _ := value.(bool)
	return b
}

// String returns the text recorded for name, "" when unset.
func (p *ParsedArguments) String(name string) string {
	value, ok := p.Value(name)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// Strings returns the repeatable values recorded for name.
func (p *ParsedArguments) Strings(name string) []string {
	value, ok := p.Value(name)
	if !ok {
		return nil
	}
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}

// Explicit reports whether the option was given on the command line rather
// than filled from the default layer.
func (p *ParsedArguments) Explicit(name string) bool {
	if p == nil {
		return false
	}
	return p.explicit[name]
}

// Patterns returns the positional file patterns.
func (p *ParsedArguments) Patterns() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.patterns...)
}

// Options returns a copy of the full coerced option mapping.
func (p *ParsedArguments) Options() map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p.options))
	for key, value := range p.options {
		out[key] = value
	}
	return out
}

func (p *ParsedArguments) clone() *ParsedArguments {
	if p == nil {
		return nil
	}
	out := &ParsedArguments{
		options:  p.Options(),
		explicit: make(map[string]bool, len(p.explicit)),
		patterns: append([]string(nil), p.patterns...),
	}
	for key, value := range p.explicit {
		out.explicit[key] = value
	}
	return out
}

// parseArguments applies schema to the raw token sequence. The defaults
// layer, keyed by primary CLI names, supplies the values parsing falls back
// to when a flag is not given explicitly; this is how config values become
// overridable defaults under the cli-override strategy.
func parseArguments(schema *Schema, raw []string, defaults map[string]any, logger WarningLogger) (*ParsedArguments, error) {
	if logger == nil {
		logger = noopWarningLogger{}
	}
	fs := pflag.NewFlagSet("fmtcli", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	specs := schema.Specs()
	for _, spec := range specs {
		switch {
		case spec.Type == OptionTypeBoolean:
			fs.BoolP(spec.Name, spec.Alias, false, spec.Description)
		case spec.Repeatable:
			fs.StringArrayP(spec.Name, spec.Alias, nil, spec.Description)
		default:
			fs.StringP(spec.Name, spec.Alias, "", spec.Description)
		}
	}

	if err := checkUnknownTokens(schema, raw, logger); err != nil {
		return nil, err
	}

	if err := fs.Parse(raw); err != nil {
		return nil, &ValidationError{Value: strings.Join(raw, " "), Reason: err.Error()}
	}

	rawValues := make(map[string]any, len(specs))
	explicit := make(map[string]bool)
	for _, spec := range specs {
		if spec.IsNegation() {
			continue
		}
		if fs.Changed(spec.Name) {
			value, err := flagValue(fs, spec)
			if err != nil {
				return nil, err
			}
			rawValues[spec.Name] = value
			explicit[spec.Name] = true
			continue
		}
		if value, ok := defaults[spec.Name]; ok {
			rawValues[spec.Name] = value
			continue
		}
		if spec.Default != nil {
			rawValues[spec.Name] = spec.Default
		}
	}

	options, err := NormalizeCLIOptions(schema, rawValues, logger)
	if err != nil {
		return nil, err
	}

	// Negations fold after the base layer so --no-<name> beats an injected
	// default for <name>.
	for _, spec := range specs {
		if !spec.IsNegation() || !fs.Changed(spec.Name) {
			continue
		}
		enabled, err := fs.GetBool(spec.Name)
		if err != nil {
			continue
		}
		options[spec.NegationOf()] = !enabled
		explicit[spec.NegationOf()] = true
	}

	return &ParsedArguments{
		options:  options,
		explicit: explicit,
		patterns: fs.Args(),
	}, nil
}

func flagValue(fs *pflag.FlagSet, spec OptionSpec) (any, error) {
	switch {
	case spec.Type == OptionTypeBoolean:
		value, err := fs.GetBool(spec.Name)
		if err != nil {
			return nil, &ValidationError{Option: spec.Name, Reason: err.Error()}
		}
		return value, nil
	case spec.Repeatable:
		value, err := fs.GetStringArray(spec.Name)
		if err != nil {
			return nil, &ValidationError{Option: spec.Name, Reason: err.Error()}
		}
		return value, nil
	default:
		flag := fs.Lookup(spec.Name)
		if flag == nil {
			return nil, &ValidationError{Option: spec.Name, Reason: "flag not registered"}
		}
		return flag.Value.String(), nil
	}
}

// checkUnknownTokens scans the raw sequence for flags the schema does not
// recognise. pflag skips them (ParseErrorsWhitelist), so the warnings,
// suggestion matching and choice escalation all happen here. Only tokens
// carrying an explicit =value can escalate; bare long flags and shorthand
// groups have no value to validate, so they warn at most.
func checkUnknownTokens(schema *Schema, raw []string, logger WarningLogger) error {
	for _, token := range raw {
		if token == "--" {
			return nil
		}
		if strings.HasPrefix(token, "--") {
			name := strings.TrimPrefix(token, "--")
			var value any = true
			hasValue := false
			if at := strings.IndexByte(name, '='); at >= 0 {
				value = name[at+1:]
				name = name[:at]
				hasValue = true
			}
			if name == "" {
				continue
			}
			if _, ok := schema.Lookup(name); ok {
				continue
			}
			if err := normalizeUnknown(schema, name, value, "cli", logger); err != nil && hasValue {
				return err
			}
			continue
		}
		if !strings.HasPrefix(token, "-") || len(token) < 2 {
			continue
		}
		group := token[1:]
		if at := strings.IndexByte(group, '='); at >= 0 {
			group = group[:at]
		}
		if group == "" || (group[0] >= '0' && group[0] <= '9') {
			// Negative numbers are values, not shorthand groups.
			continue
		}
		for _, shorthand := range group {
			if shorthand >= '0' && shorthand <= '9' {
				continue
			}
			alias := string(shorthand)
			if _, ok := schema.Lookup(alias); ok {
				continue
			}
			// Warn only; a shorthand never escalates because the value, if
			// any, belongs to the next token.
			warnUnknownShorthand(schema, alias, logger)
		}
	}
	return nil
}

func warnUnknownShorthand(schema *Schema, alias string, logger WarningLogger) {
	warning := Warning{
		Kind:   WarningUnknownOption,
		Option: alias,
		Value:  true,
		Source: "cli",
	}
	if suggestion, matched := SuggestOption(schema, alias); matched {
		warning.Suggestion = suggestion.Name
	}
	logger.LogWarning(warning)
}
