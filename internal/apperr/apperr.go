// Package apperr defines the domain error codes used across services and
// their mapping to HTTP status codes. Errors are built with samber/oops so
// every user-visible failure carries a stable machine code plus a human
// message, and never internal detail.
package apperr

import (
	"net/http"

	"github.com/samber/oops"
)

// Machine-readable error codes.
const (
	CodeEmailExists        = "USER_EMAIL_EXISTS"
	CodeUsernameExists     = "USER_USERNAME_EXISTS"
	CodeContactEmailExists = "CONTACT_EMAIL_EXISTS"
	CodeIntegrity          = "INTEGRITY_ERROR"

	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeEmailNotConfirmed  = "AUTH_EMAIL_NOT_CONFIRMED"
	CodeUnauthorized       = "AUTH_UNAUTHORIZED"

	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeContactNotFound = "CONTACT_NOT_FOUND"

	CodeVerificationError = "VERIFICATION_ERROR"
	CodeBadRequest        = "BAD_REQUEST"
)

var statusByCode = map[string]int{
	CodeEmailExists:        http.StatusConflict,
	CodeUsernameExists:     http.StatusConflict,
	CodeContactEmailExists: http.StatusConflict,
	CodeIntegrity:          http.StatusBadRequest,

	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeEmailNotConfirmed:  http.StatusUnauthorized,
	CodeUnauthorized:       http.StatusUnauthorized,

	CodeUserNotFound:    http.StatusNotFound,
	CodeContactNotFound: http.StatusNotFound,

	CodeVerificationError: http.StatusBadRequest,
	CodeBadRequest:        http.StatusBadRequest,
}

// New builds a coded domain error with a human-readable message.
func New(code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

// Wrap attaches a code to an underlying error while keeping its chain.
func Wrap(code string, err error) error {
	return oops.Code(code).Wrap(err)
}

// Code extracts the machine code from an error, or "" if it carries none.
func Code(err error) string {
	if o, ok := oops.AsOops(err); ok {
		if code, isString := o.Code().(string); isString {
			return code
		}
	}
	return ""
}

// HTTPStatus maps an error to the HTTP status it should be served with.
// Unknown or uncoded errors map to 500.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[Code(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Message returns the user-visible message for an error. Uncoded errors get
// a generic message so internals are never exposed.
func Message(err error) string {
	if o, ok := oops.AsOops(err); ok {
		code, isString := o.Code().(string)
		if _, coded := statusByCode[code]; isString && coded {
			return o.Error()
		}
	}
	return "internal server error"
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return Code(err) == code
}
