package domain

import (
	"errors"
	"fmt"
)

var ErrDayRollover = errors.New("time of day rolls over midnight")

// ParseError reports a malformed date or time-of-day found while processing calendar data.
type ParseError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a calendar snapshot that cannot be served at all.
// It is only produced while loading or constructing, never mid-computation.
type ConfigurationError struct {
	Source string
	msg    string
}

func (e *ConfigurationError) Error() string {
	if e.Source == "" {
		return "invalid calendar configuration: " + e.msg
	}
	return "invalid calendar configuration " + e.Source + ": " + e.msg
}

func configurationError(source, format string, args ...any) error {
	return &ConfigurationError{Source: source, msg: fmt.Sprintf(format, args...)}
}

// PreconditionError is returned by SubtractNested when sessions on a date overlap each
// other or straddle a window boundary.
type PreconditionError struct {
	Date string
	msg  string
}

func (e *PreconditionError) Error() string {
	return "sessions on " + e.Date + " violate nesting precondition: " + e.msg
}
