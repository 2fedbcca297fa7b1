package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Validation, KindOf(E(Validation, "bad input")))
	assert.Equal(t, NotFound, KindOf(Wrap(NotFound, "missing", errors.New("sql: no rows"))))
	assert.Equal(t, Upstream, KindOf(errors.New("plain error")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated:    http.StatusUnauthorized,
		Forbidden:          http.StatusForbidden,
		NotFound:           http.StatusNotFound,
		Validation:         http.StatusUnprocessableEntity,
		InvalidTransition:  http.StatusConflict,
		AssignmentConflict: http.StatusConflict,
		AssignmentLocked:   http.StatusConflict,
		ShopClosed:         http.StatusConflict,
		SettingsClosed:     http.StatusConflict,
		Conflict:           http.StatusConflict,
		Upstream:           http.StatusBadGateway,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), string(kind))
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(Upstream, "store unreachable", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "store unreachable")
}
