// Package errors provides structured error handling for rowscols
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeFileSystem represents I/O failures on open, read, write or mkdir
	ErrorTypeFileSystem ErrorType = "file_system"
	// ErrorTypeProcessing represents structural anomalies in the source data
	ErrorTypeProcessing ErrorType = "processing"
	// ErrorTypeConfig represents invalid configuration or path shapes
	ErrorTypeConfig ErrorType = "configuration"
	// ErrorTypeMetadata represents a malformed sidecar metadata record
	ErrorTypeMetadata ErrorType = "metadata"
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// Detail keys understood by the accessors below.
const (
	DetailPath      = "path"
	DetailOperation = "operation"
	DetailLine      = "line"
	DetailColumn    = "column"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// FileSystem wraps an I/O failure, recording the path and the failing operation.
func FileSystem(err error, operation, path string) *Error {
	e := Wrap(err, ErrorTypeFileSystem, fmt.Sprintf("failed to %s %s", operation, path))
	if e == nil {
		e = New(ErrorTypeFileSystem, fmt.Sprintf("failed to %s %s", operation, path))
	}
	return e.WithDetail(DetailOperation, operation).WithDetail(DetailPath, path)
}

// Processing reports a structural anomaly at a 1-based line. A negative
// column means no column context.
func Processing(message string, line, column int) *Error {
	e := New(ErrorTypeProcessing, message).WithDetail(DetailLine, line)
	if column >= 0 {
		e = e.WithDetail(DetailColumn, column)
	}
	return e
}

// Config reports a configuration or path-shape problem.
func Config(message string) *Error {
	return New(ErrorTypeConfig, message)
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of the outermost structured error in the chain,
// or the empty string when there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Type
}

// Line returns the line detail carried by a processing error.
func Line(err error) (int, bool) {
	return intDetail(err, DetailLine)
}

// Column returns the column detail carried by a processing error.
func Column(err error) (int, bool) {
	return intDetail(err, DetailColumn)
}

func intDetail(err error, key string) (int, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Details == nil {
		return 0, false
	}
	v, ok := e.Details[key].(int)
	return v, ok
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
