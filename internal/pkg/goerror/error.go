// Package goerror is the closed error taxonomy returned by usecases and
// turned into HTTP answers by the router.
package goerror

import (
	"fmt"
	"net/http"
)

// Code identifies the kind of failure. Each code maps to exactly one HTTP status.
type Code int

const (
	// CodeInternal is any server-side failure, including a broken clock.
	CodeInternal Code = iota
	// CodeInvalidFormat is a body or query value that cannot be parsed.
	CodeInvalidFormat
	// CodeInvalidInput is a parsed value that breaks a validation rule.
	CodeInvalidInput
	// CodeUnauthorized is a submitted code that does not match.
	CodeUnauthorized
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "INVALID_FORMAT"
	case CodeInvalidInput:
		return "INVALID_INPUT"
	case CodeUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}

// StatusCode returns the HTTP status for c.
func (c Code) StatusCode() int {
	switch c {
	case CodeInvalidFormat, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a public message and a Code, and optionally wraps the cause.
// Only the message and field details are ever sent to clients.
type Error struct {
	err    error
	msg    string
	code   Code
	fields map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Msg returns the public message.
func (e *Error) Msg() string { return e.msg }

// Code returns the error code.
func (e *Error) Code() Code { return e.code }

// Fields returns per-field validation messages, if any.
func (e *Error) Fields() map[string]string { return e.fields }

func (e *Error) Unwrap() error { return e.err }

// StatusCode returns the HTTP status for the error code.
func (e *Error) StatusCode() int { return e.code.StatusCode() }

// NewServer wraps err as an internal failure with a generic public message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", code: CodeInternal}
}

// NewBusiness returns a rule failure with a public message.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, code: code}
}

// NewInvalidInput reports a validation failure. It either wraps a validator
// error, or builds field details from key/value pairs; an odd number of
// pairs is reported as a malformed request.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &Error{msg: "Validation error", code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports an unparseable request. The first msg, when
// given, replaces the default message.
func NewInvalidFormat(msg ...string) error {
	if len(msg) > 0 {
		return &Error{msg: msg[0], code: CodeInvalidFormat}
	}
	return &Error{msg: "Invalid request body", code: CodeInvalidFormat}
}
