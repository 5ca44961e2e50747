package core

import "errors"

// Status is the outcome of a single test scenario.
type Status int

const (
	StatusPending Status = iota // Not yet started
	StatusRunning               // Currently executing
	StatusPassed                // Completed successfully
	StatusFailed                // Assertion failed (expected behavior didn't occur)
	StatusErrored               // Unexpected error (session start, server, crash)
	StatusSkipped               // Not selected or aborted before start
	StatusXFailed               // Expected failure that did fail
	StatusXPassed               // Expected failure that passed (non-strict)
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusErrored:
		return "errored"
	case StatusSkipped:
		return "skipped"
	case StatusXFailed:
		return "xfailed"
	case StatusXPassed:
		return "xpassed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name in reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal returns true if the status is a final state
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored, StatusSkipped, StatusXFailed, StatusXPassed:
		return true
	default:
		return false
	}
}

// IsSuccess returns true if the status does not fail the run.
// Expected failures never fail the run in either direction.
func (s Status) IsSuccess() bool {
	switch s {
	case StatusPassed, StatusSkipped, StatusXFailed, StatusXPassed:
		return true
	default:
		return false
	}
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryAssertion                       // Element not found, size mismatch, visibility check failed
	ErrCategoryTimeout                         // Operation timed out
	ErrCategoryConnection                      // Appium server or session unavailable
	ErrCategoryConfig                          // Invalid configuration or platform
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// MarshalText encodes the category by name in reports.
func (c ErrorCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CategoryOf returns the category carried by err, or ErrCategoryNone.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryNone
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Category
	}
	var platErr *UnsupportedPlatformError
	if errors.As(err, &platErr) {
		return ErrCategoryConfig
	}
	return ErrCategoryNone
}
