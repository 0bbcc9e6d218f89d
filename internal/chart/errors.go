package chart

import (
	"errors"
	"fmt"
)

// ErrorType represents the stage at which a chart operation failed
type ErrorType string

const (
	ErrorTypeLoad     ErrorType = "load"
	ErrorTypeValues   ErrorType = "values"
	ErrorTypeTemplate ErrorType = "template"
	ErrorTypeRender   ErrorType = "render"
)

// Error represents a failure tied to a file of the chart
type Error struct {
	Type    ErrorType `json:"type"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Type, e.Path, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(errorType ErrorType, path, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// AsError attempts to extract a chart Error from err
func AsError(err error) (*Error, bool) {
	var chartErr *Error
	if errors.As(err, &chartErr) {
		return chartErr, true
	}
	return nil, false
}

// IsType reports whether err is a chart Error of the given type
func IsType(err error, errorType ErrorType) bool {
	chartErr, ok := AsError(err)
	return ok && chartErr.Type == errorType
}
