package fmtcli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NormalizeCLIOptions validates and coerces a raw mapping of CLI option names
// to arbitrary values. Unknown and deprecated names produce warnings and
// best-effort handling; only malformed values for known specs are hard
// failures. Negated no-<name> keys fold into their base option.
func NormalizeCLIOptions(schema *Schema, raw map[string]any, logger WarningLogger) (map[string]any, error) {
	return normalizeOptions(schema, raw, "cli", logger)
}

// NormalizeAPIOptions is the config-file counterpart: keys are API names and
// the clean output stays keyed by API names.
func NormalizeAPIOptions(schema *Schema, raw map[string]any, logger WarningLogger) (map[string]any, error) {
	if logger == nil {
		logger = noopWarningLogger{}
	}
	out := make(map[string]any, len(raw))
	for _, key := range orderedKeys(raw) {
		value := raw[key]
		spec, ok := schema.LookupAPI(key)
		if !ok {
			// Config files may also address options by their CLI surface
			// name.
			spec, ok = schema.Lookup(key)
		}
		if !ok {
			if err := normalizeUnknown(schema, key, value, "config", logger); err != nil {
				return nil, err
			}
			continue
		}
		coerced, err := coerceOption(schema, spec, value, "config", logger)
		if err != nil {
			return nil, err
		}
		if coerced == nil {
			continue
		}
		out[coerced.spec.ForwardsTo] = coerced.value
	}
	return out, nil
}

type coercedOption struct {
	spec  OptionSpec
	value any
}

func normalizeOptions(schema *Schema, raw map[string]any, source string, logger WarningLogger) (map[string]any, error) {
	if logger == nil {
		logger = noopWarningLogger{}
	}
	out := make(map[string]any, len(raw))
	for _, key := range orderedKeys(raw) {
		value := raw[key]
		spec, ok := schema.Lookup(key)
		if !ok {
			if err := normalizeUnknown(schema, key, value, source, logger); err != nil {
				return nil, err
			}
			continue
		}
		coerced, err := coerceCLIOption(schema, spec, value, source, logger)
		if err != nil {
			return nil, err
		}
		if coerced == nil {
			continue
		}
		out[coerced.spec.Name] = coerced.value
	}
	return out, nil
}

// coerceCLIOption folds negations and keeps the output keyed by primary CLI
// names. Deprecated names survive here; the forwarding layer drops them.
func coerceCLIOption(schema *Schema, spec OptionSpec, value any, source string, logger WarningLogger) (*coercedOption, error) {
	if spec.IsNegation() {
		base, ok := schema.Lookup(spec.NegationOf())
		if !ok {
			return nil, nil
		}
		enabled, err := coerceBoolean(spec, value)
		if err != nil {
			return nil, err
		}
		return &coercedOption{spec: base, value: !enabled}, nil
	}
	if spec.Deprecated {
		logger.LogWarning(Warning{
			Kind:   WarningDeprecatedOption,
			Option: spec.Name,
			Value:  value,
			Source: source,
		})
	}
	coerced, err := coerceChecked(spec, value, source, logger)
	if err != nil {
		return nil, err
	}
	return &coercedOption{spec: spec, value: coerced}, nil
}

// coerceOption is the API-name flavour: deprecated (non-forwarding) specs are
// dropped here so they never reach ResolvedOptions.
func coerceOption(schema *Schema, spec OptionSpec, value any, source string, logger WarningLogger) (*coercedOption, error) {
	if spec.IsNegation() {
		base, ok := schema.Lookup(spec.NegationOf())
		if !ok || !base.Forwards() {
			return nil, nil
		}
		enabled, err := coerceBoolean(spec, value)
		if err != nil {
			return nil, err
		}
		return &coercedOption{spec: base, value: !enabled}, nil
	}
	if spec.Deprecated {
		logger.LogWarning(Warning{
			Kind:   WarningDeprecatedOption,
			Option: spec.Name,
			Value:  value,
			Source: source,
		})
		// Deprecated options are excluded from API forwarding.
		return nil, nil
	}
	if !spec.Forwards() {
		return nil, nil
	}
	coerced, err := coerceChecked(spec, value, source, logger)
	if err != nil {
		return nil, err
	}
	return &coercedOption{spec: spec, value: coerced}, nil
}

// normalizeUnknown warns about an unrecognised key and still normalises the
// value against the closest schema option (or "help" as the safe default).
// Only malformed choice values escalate to a hard failure.
func normalizeUnknown(schema *Schema, key string, value any, source string, logger WarningLogger) error {
	suggestion, matched := SuggestOption(schema, key)
	warning := Warning{
		Kind:   WarningUnknownOption,
		Option: key,
		Value:  value,
		Source: source,
	}
	if matched {
		warning.Suggestion = suggestion.Name
	}
	logger.LogWarning(warning)
	if _, err := coerceValue(suggestion, value); err != nil && suggestion.Type == OptionTypeChoice {
		return err
	}
	return nil
}

func coerceChecked(spec OptionSpec, value any, source string, logger WarningLogger) (any, error) {
	coerced, err := coerceValue(spec, value)
	if err != nil {
		return nil, err
	}
	if spec.Type == OptionTypeChoice {
		if choice, ok := findChoice(spec, coerced.(string)); ok && choice.Deprecated {
			logger.LogWarning(Warning{
				Kind:   WarningDeprecatedChoice,
				Option: spec.Name,
				Value:  coerced,
				Source: source,
			})
		}
	}
	return coerced, nil
}

// coerceValue dispatches to the explicit per-type coercion functions. Each
// returns a typed result or a structured validation failure; there is no
// silent duck-typed path.
func coerceValue(spec OptionSpec, value any) (any, error) {
	switch spec.Type {
	case OptionTypeBoolean:
		return coerceBoolean(spec, value)
	case OptionTypeNumber:
		return coerceNumber(spec, value)
	case OptionTypeText:
		return coerceText(spec, value)
	case OptionTypeChoice:
		return coerceChoice(spec, value)
	default:
		return nil, &ValidationError{
			Option: spec.Name,
			Value:  value,
			Reason: "option has no declared type",
		}
	}
}

func coerceBoolean(spec OptionSpec, value any) (bool, error) {
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		parsed, err := strconv.ParseBool(typed)
		if err != nil {
			return false, &ValidationError{
				Option: spec.Name,
				Value:  value,
				Reason: "expected a boolean",
			}
		}
		return parsed, nil
	default:
		return false, &ValidationError{
			Option: spec.Name,
			Value:  value,
			Reason: "expected a boolean",
		}
	}
}

// coerceNumber normalises every numeric representation to float64 so that
// repeated resolutions of the same inputs compare structurally equal.
func coerceNumber(spec OptionSpec, value any) (float64, error) {
	switch typed := value.(type) {
	case float64:
		return typed, nil
	case float32:
		return float64(typed), nil
	case int:
		return float64(typed), nil
	case int32:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case uint64:
		return float64(typed), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, &ValidationError{
				Option: spec.Name,
				Value:  value,
				Reason: "expected a number",
			}
		}
		return parsed, nil
	default:
		return 0, &ValidationError{
			Option: spec.Name,
			Value:  value,
			Reason: "expected a number",
		}
	}
}

func coerceText(spec OptionSpec, value any) (any, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case []string:
		if spec.Repeatable {
			return append([]string(nil), typed...), nil
		}
	case []any:
		if spec.Repeatable {
			out := make([]string, 0, len(typed))
			for _, item := range typed {
				s, ok := item.(string)
				if !ok {
					return nil, &ValidationError{
						Option: spec.Name,
						Value:  value,
						Reason: "expected a list of strings",
					}
				}
				out = append(out, s)
			}
			return out, nil
		}
	}
	return nil, &ValidationError{
		Option: spec.Name,
		Value:  value,
		Reason: "expected a string",
	}
}

// coerceChoice matches case-sensitively against the declared choice values.
// Deprecated choices still parse; the caller decides whether to warn.
func coerceChoice(spec OptionSpec, value any) (any, error) {
	text, ok := value.(string)
	if !ok {
		return nil, &ValidationError{
			Option: spec.Name,
			Value:  value,
			Reason: fmt.Sprintf("expected one of %s", choiceValues(spec)),
		}
	}
	if _, ok := findChoice(spec, text); !ok {
		return nil, &ValidationError{
			Option: spec.Name,
			Value:  value,
			Reason: fmt.Sprintf("expected one of %s", choiceValues(spec)),
		}
	}
	return text, nil
}

func findChoice(spec OptionSpec, value string) (Choice, bool) {
	for _, choice := range spec.Choices {
		if choice.Value == value {
			return choice, true
		}
	}
	return Choice{}, false
}

func choiceValues(spec OptionSpec) string {
	values := make([]string, 0, len(spec.Choices))
	for _, choice := range spec.Choices {
		if choice.Deprecated {
			continue
		}
		values = append(values, strconv.Quote(choice.Value))
	}
	return strings.Join(values, ", ")
}

// orderedKeys returns map keys in sorted order so warnings and validation
// failures are deterministic run to run.
func orderedKeys(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
