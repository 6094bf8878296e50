package fmtcli

import (
	"errors"
	"fmt"
)

// ErrUnknownPlugin marks a plugin name that resolution could not match
// against the registered plugins.
var ErrUnknownPlugin = errors.New("fmtcli: unknown plugin")

// ConfigurationError reports a malformed or unreadable config file. It is
// fatal for the whole run: every subsequent file would resolve against the
// same broken config.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return fmt.Sprintf("fmtcli: invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("fmtcli: invalid configuration file %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports an option value that violates the schema, such as a
// bad choice value. Fatal for the run for the same reason as
// ConfigurationError.
type ValidationError struct {
	Option string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fmtcli: invalid %s value %v: %s", describeOption(e.Option), e.Value, e.Reason)
}

// ParseError reports input the formatting engine rejected. It carries a
// source location and is recoverable: the batch continues with the remaining
// files.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fmtcli: %s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeOption(name string) string {
	if name == "" {
		return "option"
	}
	return fmt.Sprintf("--%s", name)
}

// IsFatal reports whether err must abort the whole batch rather than the
// current file. The resolution engine never exits the process itself; the
// caller decides what a fatal error means for it.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return true
	}
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

func wrapConfigurationError(path string, err error) error {
	if err == nil {
		return nil
	}
	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return err
	}
	return &ConfigurationError{Path: path, Err: err}
}
