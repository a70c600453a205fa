// Package merrors provides the machine data model's error taxonomy and
// standardized wrapping, mirroring the classification/wrap pattern used
// throughout this codebase's error handling.
package merrors

import (
	"errors"
	"fmt"
)

// Code classifies an error into the taxonomy carried in Error replies and
// internal results.
type Code int

const (
	// CodeUnspecified marks an error with no taxonomy code; never produced
	// by a constructor in this package.
	CodeUnspecified Code = iota
	NotFound
	AddressMismatch
	TypeMismatch
	OutOfRange
	Vetoed
	PostVetoed
	HookFailed
	UnboundCallback
	DependencyLost
	Cancelled
	MalformedModel
	InvalidFilter
)

func (c Code) String() string {
	switch c {
	case NotFound:
		return "NOT_FOUND"
	case AddressMismatch:
		return "ADDRESS_MISMATCH"
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case OutOfRange:
		return "OUT_OF_RANGE"
	case Vetoed:
		return "VETOED"
	case PostVetoed:
		return "POST_VETOED"
	case HookFailed:
		return "HOOK_FAILED"
	case UnboundCallback:
		return "UNBOUND_CALLBACK"
	case DependencyLost:
		return "DEPENDENCY_LOST"
	case Cancelled:
		return "CANCELLED"
	case MalformedModel:
		return "MALFORMED_MODEL"
	case InvalidFilter:
		return "INVALID_FILTER"
	default:
		return "UNSPECIFIED"
	}
}

// Error is a taxonomy-coded error carrying the component/operation it was
// raised from, following this codebase's classified-error pattern.
type Error struct {
	Code      Code
	Component string
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return e.Code.String()
}

// Unwrap exposes the underlying error, if any, to errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// New constructs a coded error with a formatted message and no wrapped
// cause.
func New(code Code, component, operation, format string, args ...any) *Error {
	return &Error{
		Code:      code,
		Component: component,
		Operation: operation,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Wrap constructs a coded error following this codebase's
// "component.operation: action failed: %w" message shape.
func Wrap(code Code, err error, component, operation, action string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:      code,
		Component: component,
		Operation: operation,
		Message:   fmt.Sprintf("%s.%s: %s failed: %s", component, operation, action, err.Error()),
		Err:       err,
	}
}

// Is reports whether err carries the given Code, finding the *Error in
// err's chain with errors.As.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// CodeOf extracts the Code carried by err, or CodeUnspecified if err is not
// (or does not wrap) a *Error.
func CodeOf(err error) Code {
	var me *Error
	if errors.As(err, &me) {
		return me.Code
	}
	return CodeUnspecified
}
