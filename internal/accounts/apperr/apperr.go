// Package apperr defines the service-wide error taxonomy. Every error that
// reaches a handler maps to one of these values; the handler writes the tag
// as the JSON body and the attached status code, so internal detail never
// leaks to clients.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a client-visible failure: a stable tag plus an HTTP status.
type Error struct {
	Tag    string
	Status int
}

func (e *Error) Error() string { return e.Tag }

var (
	ErrInvalidToken              = &Error{Tag: "InvalidToken", Status: http.StatusBadRequest}
	ErrExpiredToken              = &Error{Tag: "ExpiredToken", Status: http.StatusUnauthorized}
	ErrMissingScope              = &Error{Tag: "MissingScope", Status: http.StatusForbidden}
	ErrUnauthorized              = &Error{Tag: "Unauthorized", Status: http.StatusUnauthorized}
	ErrNotFound                  = &Error{Tag: "NotFound", Status: http.StatusNotFound}
	ErrBadRequest                = &Error{Tag: "BadRequest", Status: http.StatusBadRequest}
	ErrIncorrectEmailOrPassword  = &Error{Tag: "IncorrectEmailOrPassword", Status: http.StatusUnauthorized}
	ErrRegisteredEmail           = &Error{Tag: "RegisteredEmail", Status: http.StatusConflict}
	ErrInvalidCaptcha            = &Error{Tag: "InvalidCaptcha", Status: http.StatusBadRequest}
	ErrMissingCaptchaToken       = &Error{Tag: "MissingCaptchaToken", Status: http.StatusBadRequest}
	ErrTimeOutOrDuplicateCaptcha = &Error{Tag: "TimeOutOrDuplicateCaptcha", Status: http.StatusBadRequest}
	ErrInternal                  = &Error{Tag: "InternalServerError", Status: http.StatusInternalServerError}
)

// From resolves an arbitrary error to its client-visible form. Anything not
// in the taxonomy collapses to InternalServerError.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}
