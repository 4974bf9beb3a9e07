package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and a short machine code alongside the
// underlying cause. Message is what the client sees; Err stays in the logs.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func BadRequest(message string, err error) *Error {
	return New(http.StatusBadRequest, "bad_request", message, err)
}

func Unauthorized(message string, err error) *Error {
	return New(http.StatusUnauthorized, "unauthorized", message, err)
}

func NotFound(message string, err error) *Error {
	return New(http.StatusNotFound, "not_found", message, err)
}

func Conflict(message string, err error) *Error {
	return New(http.StatusConflict, "conflict", message, err)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, "internal", message, err)
}

// From returns err as an *Error, falling back to a generic 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal server error", err)
}
