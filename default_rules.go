package fmtcli

import (
	"time"

	"github.com/goliatone/go-fmtcli/layering"
)

// applyDefaultRules fills the options whose specs declare a DefaultRule and
// have no value yet, evaluating each expression against the partially
// resolved snapshot. The returned map records the provenance level of every
// filled key.
func (c *Context) applyDefaultRules(resolved ResolvedOptions, path string) (map[string]layering.SourceLevel, error) {
	evaluator := c.resolveEvaluator()
	engine := evaluatorEngineName(evaluator)
	logger := c.ruleLogger()
	filled := map[string]layering.SourceLevel{}

	for _, spec := range c.schema.Specs() {
		if spec.DefaultRule == "" || spec.IsNegation() || !spec.Forwards() {
			continue
		}
		key := spec.ForwardsTo
		if _, ok := resolved[key]; ok {
			continue
		}

		ruleCtx := RuleContext{
			Snapshot: resolved.Clone(),
			Filepath: path,
			Plugin:   spec.Plugin,
		}
		start := time.Now()
		value, err := evaluator.Evaluate(ruleCtx, spec.DefaultRule)
		logger.LogRule(RuleLogEvent{
			Engine:   engine,
			Option:   spec.Name,
			Expr:     spec.DefaultRule,
			Plugin:   spec.Plugin,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			return nil, err
		}

		// Rule output obeys the spec's declared type like any other value.
		coerced, err := coerceValue(spec, value)
		if err != nil {
			return nil, err
		}
		resolved[key] = coerced
		if spec.Plugin != "" {
			filled[key] = layering.SourcePluginDefault
		} else {
			filled[key] = layering.SourceDefault
		}
	}
	return filled, nil
}

// resolveEvaluator returns the configured evaluator, or builds the default
// expr engine wired with the Context's program cache and function registry.
func (c *Context) resolveEvaluator() Evaluator {
	if c.cfg.evaluator != nil {
		return c.cfg.evaluator
	}
	var opts []ExprEvaluatorOption
	if c.cfg.programCache != nil {
		opts = append(opts, ExprWithProgramCache(c.cfg.programCache))
	}
	if registry := c.functionRegistry(); registry != nil {
		opts = append(opts, ExprWithFunctionRegistry(registry))
	}
	return NewExprEvaluator(opts...)
}

// functionRegistry combines the configured registry with the active plugins'
// helper functions. Plugin registrations never clobber existing names.
func (c *Context) functionRegistry() *FunctionRegistry {
	var registry *FunctionRegistry
	if c.cfg.functions != nil {
		registry = c.cfg.functions.Clone()
	}
	for _, plugin := range c.plugins {
		if len(plugin.Functions) == 0 {
			continue
		}
		if registry == nil {
			registry = NewFunctionRegistry()
		}
		for name, fn := range plugin.Functions {
			_ = registry.Register(name, fn)
		}
	}
	return registry
}

// evaluatorEngineName asks the evaluator for its engine name. The built-in
// engines all implement the optional Name method; anything else is custom.
func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "custom"
}
