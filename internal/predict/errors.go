package predict

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies where a submission failed
type ErrorKind string

const (
	// KindRead means the selected file could not be read
	KindRead ErrorKind = "read"

	// KindParse means the file content is not valid JSON
	KindParse ErrorKind = "parse"

	// KindTransport means the request never got an HTTP response
	KindTransport ErrorKind = "transport"

	// KindRemote means the service answered with a failure status
	KindRemote ErrorKind = "remote"

	// KindResponse means a success response did not hold a list of result records
	KindResponse ErrorKind = "response"

	// KindInternal covers request construction problems
	KindInternal ErrorKind = "internal"
)

// GenericRemoteMessage is used when a failure response carries no error text
const GenericRemoteMessage = "Backend Error: Could not get prediction."

// Error is the single failure type of the submission pipeline
type Error struct {
	// Kind categorizes the failure
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable cause shown to the user
	Message string `json:"message"`

	// StatusCode is set for remote failures
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewError creates a pipeline error
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorWithCause creates a pipeline error whose message is the cause's text
// unless message is given explicitly.
func NewErrorWithCause(kind ErrorKind, message string, cause error) *Error {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewRemoteError creates an error for a failure status
func NewRemoteError(statusCode int, message string) *Error {
	if message == "" {
		message = GenericRemoteMessage
	}
	return &Error{Kind: KindRemote, Message: message, StatusCode: statusCode}
}

// KindOf returns the kind of a pipeline error, or "" for other errors
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// MessageOf returns the user-facing cause of err
func MessageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsRemoteError checks if the service rejected the request
func IsRemoteError(err error) bool {
	return KindOf(err) == KindRemote
}

// IsTransportError checks if the request failed before a response arrived
func IsTransportError(err error) bool {
	return KindOf(err) == KindTransport
}

// IsParseError checks if the payload was not valid JSON
func IsParseError(err error) bool {
	return KindOf(err) == KindParse
}
