package services

import (
	"errors"
	"fmt"
)

// Error kinds. Controllers map them to HTTP statuses; the message is shown to the user.
var (
	ErrInvalid      = errors.New("invalid")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type statusError struct {
	kind error
	msg  string
}

func (e *statusError) Error() string { return e.msg }
func (e *statusError) Unwrap() error { return e.kind }

func invalid(format string, args ...any) error {
	return &statusError{kind: ErrInvalid, msg: fmt.Sprintf(format, args...)}
}

func unauthorized(msg string) error {
	return &statusError{kind: ErrUnauthorized, msg: msg}
}

func forbidden(msg string) error {
	return &statusError{kind: ErrForbidden, msg: msg}
}

func notFound(msg string) error {
	return &statusError{kind: ErrNotFound, msg: msg}
}

const msgForbidden = "Nu aveți permisiunea pentru această acțiune"
