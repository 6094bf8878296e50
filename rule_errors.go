package fmtcli

import (
	"errors"
	"fmt"
	"strings"
)

// RuleError captures evaluator metadata alongside the originating error when
// a computed-default rule fails.
type RuleError struct {
	Engine string
	Expr   string
	Option string
	Err    error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fmtcli: %s rule %s option=%s: %v", e.Engine, describeExpression(e.Expr), e.Option, e.Err)
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "fmtcli:") {
		return err
	}
	return fmt.Errorf("fmtcli: %s evaluator: %w", engine, err)
}

func wrapRuleError(engine, expr, option string, err error) error {
	if err == nil {
		return nil
	}

	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		if ruleErr.Engine == "" {
			ruleErr.Engine = engine
		}
		if ruleErr.Expr == "" {
			ruleErr.Expr = expr
		}
		if ruleErr.Option == "" {
			ruleErr.Option = option
		}
		return ruleErr
	}

	return &RuleError{
		Engine: engine,
		Expr:   expr,
		Option: option,
		Err:    err,
	}
}
