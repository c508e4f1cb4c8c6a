package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeExpired           = "EXPIRED"
	ErrCodeEmailMismatch     = "EMAIL_MISMATCH"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeExhausted         = "EXHAUSTED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// Error is the domain error carried from the engines out to the API
// layer. Fields holds per-field validation messages for the response
// body.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(msg string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: msg}
}

// BadRequestField reports a validation failure attributed to a single
// request field.
func BadRequestField(field, msg string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: msg, Fields: map[string]string{field: msg}}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: ErrCodeForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: ErrCodeConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...)}
}

func Expired(msg string) *Error {
	return &Error{Code: ErrCodeExpired, Message: msg}
}

func EmailMismatch(msg string) *Error {
	return &Error{Code: ErrCodeEmailMismatch, Message: msg}
}

func InvalidTransition(msg string) *Error {
	return &Error{Code: ErrCodeInvalidTransition, Message: msg}
}

func Exhausted(msg string) *Error {
	return &Error{Code: ErrCodeExhausted, Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Code: ErrCodeInternal, Message: msg}
}

// CodeOf returns the domain code of err, or ErrCodeInternal for
// errors that did not originate in an engine.
func CodeOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

func statusOf(code string) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeExpired, ErrCodeEmailMismatch, ErrCodeInvalidTransition:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// Write renders a domain error with the status derived from its code.
// Unknown error types render as a generic 500 without leaking detail.
func Write(w http.ResponseWriter, err error) {
	e, ok := err.(*Error)
	if !ok {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
		return
	}

	var details interface{}
	if len(e.Fields) > 0 {
		details = e.Fields
	}
	WriteError(w, statusOf(e.Code), e.Code, e.Message, details)
}
