package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP layer. The coordinator and the other
// services return the precise kind; handlers only translate.
type Kind string

const (
	Unauthenticated    Kind = "Unauthenticated"
	Forbidden          Kind = "Forbidden"
	NotFound           Kind = "NotFound"
	Validation         Kind = "Validation"
	InvalidTransition  Kind = "InvalidTransition"
	AssignmentConflict Kind = "AssignmentConflict"
	AssignmentLocked   Kind = "AssignmentLocked"
	ShopClosed         Kind = "ShopClosed"
	SettingsClosed     Kind = "SettingsClosed"
	Upstream           Kind = "Upstream"
	Conflict           Kind = "Conflict"
)

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a new kinded error.
func E(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error (usually a store failure).
func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the kind from err. Unclassified errors are treated as
// Upstream failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Upstream
}

// DetailOf returns the human-readable detail for err.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal error"
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusUnprocessableEntity
	case InvalidTransition, AssignmentConflict, AssignmentLocked,
		ShopClosed, SettingsClosed, Conflict:
		return http.StatusConflict
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
