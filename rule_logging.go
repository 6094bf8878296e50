package fmtcli

import "time"

// RuleLogEvent describes a computed-default evaluation attempt for logging.
type RuleLogEvent struct {
	Engine   string
	Option   string
	Expr     string
	Plugin   string
	Duration time.Duration
	Err      error
}

// RuleLogger records rule evaluation events.
type RuleLogger interface {
	LogRule(RuleLogEvent)
}

// RuleLoggerFunc adapts a function to RuleLogger.
type RuleLoggerFunc func(RuleLogEvent)

// LogRule implements RuleLogger.
func (f RuleLoggerFunc) LogRule(event RuleLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRuleLogger struct{}

func (noopRuleLogger) LogRule(RuleLogEvent) {}

// WithRuleLogger attaches a rule logger to the Context.
func WithRuleLogger(logger RuleLogger) Option {
	return func(cfg *contextConfig) {
		if logger == nil {
			cfg.rules = noopRuleLogger{}
			return
		}
		cfg.rules = logger
	}
}
