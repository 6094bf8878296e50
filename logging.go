package fmtcli

import "fmt"

// WarningKind classifies non-fatal resolution warnings.
type WarningKind string

const (
	// WarningUnknownOption flags an option name missing from the schema.
	WarningUnknownOption WarningKind = "unknown-option"
	// WarningDeprecatedOption flags usage of a deprecated option name.
	WarningDeprecatedOption WarningKind = "deprecated-option"
	// WarningDeprecatedChoice flags usage of a deprecated choice value.
	WarningDeprecatedChoice WarningKind = "deprecated-choice"
)

// Warning describes one non-fatal problem encountered while normalising
// options. Resolution proceeds after each warning.
type Warning struct {
	Kind       WarningKind
	Option     string
	Value      any
	Suggestion string // closest schema option for unknown names, "" otherwise
	Source     string // "cli" or "config"
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningUnknownOption:
		if w.Suggestion != "" && w.Suggestion != optionHelp {
			return fmt.Sprintf("Ignored unknown option --%s. Did you mean --%s?", w.Option, w.Suggestion)
		}
		return fmt.Sprintf("Ignored unknown option --%s.", w.Option)
	case WarningDeprecatedOption:
		return fmt.Sprintf("--%s is deprecated.", w.Option)
	case WarningDeprecatedChoice:
		return fmt.Sprintf("--%s=%v is deprecated.", w.Option, w.Value)
	default:
		return fmt.Sprintf("--%s: %v", w.Option, w.Value)
	}
}

// WarningLogger records resolution warnings.
type WarningLogger interface {
	LogWarning(Warning)
}

// WarningLoggerFunc adapts a function to WarningLogger.
type WarningLoggerFunc func(Warning)

// LogWarning implements WarningLogger.
func (f WarningLoggerFunc) LogWarning(warning Warning) {
	if f != nil {
		f(warning)
	}
}

type noopWarningLogger struct{}

func (noopWarningLogger) LogWarning(Warning) {}

// WithWarningLogger attaches a warning logger to the Context.
func WithWarningLogger(logger WarningLogger) Option {
	return func(cfg *contextConfig) {
		if logger == nil {
			cfg.warnings = noopWarningLogger{}
			return
		}
		cfg.warnings = logger
	}
}
