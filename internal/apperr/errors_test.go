package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs_MatchesKindAndCode(t *testing.T) {
	err := Conflict(CodeAlreadyRegistered, "already registered for this activity")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, ErrAlreadyRegistered))
	assert.False(t, errors.Is(err, ErrActivityFull))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestErrorIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("register: %w", NotFoundCode(CodeResourceNotFound, "resource not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, CodeResourceNotFound, CodeOf(err))
}

func TestBackend_KeepsClassifiedErrors(t *testing.T) {
	classified := Validation("reason is required")
	assert.Same(t, classified, Backend("save", classified))

	raw := errors.New("connection refused")
	wrapped := Backend("save leave request", raw)
	assert.True(t, errors.Is(wrapped, ErrBackendUnavailable))
	assert.True(t, errors.Is(wrapped, raw))
	assert.Equal(t, "failed to save leave request: connection refused", wrapped.Error())

	assert.NoError(t, Backend("noop", nil))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Validation("bad"):                 http.StatusBadRequest,
		Forbidden("no"):                   http.StatusForbidden,
		NotAuthenticated():                http.StatusUnauthorized,
		InvalidCredentials():              http.StatusUnauthorized,
		InsufficientStock(5, 1):           http.StatusConflict,
		InvalidStateTransition("a", "b"):  http.StatusConflict,
		AuthProvisioning(errors.New("x")): http.StatusBadGateway,
		errors.New("boom"):                http.StatusServiceUnavailable,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}

func TestPublicMessage_HidesWrappedCause(t *testing.T) {
	err := Backend("load members", errors.New("pq: password authentication failed"))
	assert.Equal(t, "failed to load members", PublicMessage(err))
	assert.Equal(t, "service unavailable", PublicMessage(errors.New("raw")))
	assert.Equal(t, "reason is required", PublicMessage(Validation("reason is required")))
}
