package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	authenticateFunc func(ctx context.Context, token string) (auth.Caller, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (auth.Caller, error) {
	return m.authenticateFunc(ctx, token)
}

func callerEcho(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(auth.CallerFrom(r.Context()).UserID))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) responses.APIResponse[any] {
	t.Helper()
	var resp responses.APIResponse[any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	authn := &mockAuthenticator{authenticateFunc: func(_ context.Context, token string) (auth.Caller, error) {
		if token == "good" {
			return auth.Caller{UserID: "u1", Roles: []constants.Role{constants.RoleMember}}, nil
		}
		return auth.Caller{}, apperr.NotAuthenticated()
	}}
	h := AuthMiddleware(authn)(http.HandlerFunc(callerEcho))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
		{"good token", "Bearer good", http.StatusOK, "u1"},
		{"scheme is case insensitive", "bearer good", http.StatusOK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Equal(t, "not_authenticated", decodeError(t, rec).Code)
			}
		})
	}
}

func TestOptionalAuthMiddleware_FallsBackToAnonymous(t *testing.T) {
	authn := &mockAuthenticator{authenticateFunc: func(context.Context, string) (auth.Caller, error) {
		return auth.Caller{}, apperr.NotAuthenticated()
	}}
	h := OptionalAuthMiddleware(authn)(http.HandlerFunc(callerEcho))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRoleGates(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	cases := []struct {
		name   string
		gate   func(http.Handler) http.Handler
		caller auth.Caller
		status int
	}{
		{"member gate rejects anonymous", IsMemberMiddleware(), auth.Caller{}, http.StatusUnauthorized},
		{"member gate admits member", IsMemberMiddleware(), auth.Caller{UserID: "u1"}, http.StatusNoContent},
		{"staff gate rejects core", IsStaffMiddleware(), auth.Caller{UserID: "u1", Roles: []constants.Role{constants.RoleCore}}, http.StatusForbidden},
		{"staff gate admits coordinator", IsStaffMiddleware(), auth.Caller{UserID: "u1", Roles: []constants.Role{constants.RoleCoordinator}}, http.StatusNoContent},
		{"admin gate rejects coordinator", IsAdminMiddleware(), auth.Caller{UserID: "u1", Roles: []constants.Role{constants.RoleCoordinator}}, http.StatusForbidden},
		{"admin gate admits admin", IsAdminMiddleware(), auth.Caller{UserID: "u1", Roles: []constants.Role{constants.RoleAdmin}}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.SetCaller(req.Context(), tc.caller))
			rec := httptest.NewRecorder()
			tc.gate(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRecoverer(t *testing.T) {
	h := RequestIDMiddleware(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(constants.APIStatusError), resp.Status)
	assert.Equal(t, "internal_error", resp.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = auth.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-upstream")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-upstream", seen)
	assert.Equal(t, "req-upstream", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Regexp(t, `^req-[0-9a-f-]{36}$`, seen)
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	reg := metrics.Nop()
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(reg))
	r.Get("/api/v1/members/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/members/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/api/v1/members/{id}", "GET", "202")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.HTTPRequestsInFlight.WithLabelValues("/api/v1/members/a")))
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/v1/members/{id}", NormalizeEndpoint("/api/v1/members/3f2a1b4c-1d2e-4f50-8a9b-0c1d2e3f4a5b"))
	assert.Equal(t, "/api/v1/items/{id}/return", NormalizeEndpoint("/api/v1/items/42/return"))
	assert.Equal(t, "/api/v1/activities", NormalizeEndpoint("/api/v1/activities"))
}

func TestLoginLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	limited := NewLoginLimiter(1).Middleware(ok)
	send := func(h http.Handler, addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(limited, "198.51.100.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send(limited, "198.51.100.1:1001"))
	// buckets are per IP
	assert.Equal(t, http.StatusOK, send(limited, "198.51.100.2:1000"))

	unlimited := NewLoginLimiter(0).Middleware(ok)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send(unlimited, "198.51.100.1:1000"))
	}
}

func TestLoginLimiter_DropsIdleBuckets(t *testing.T) {
	limiter := newLoginLimiter(1, 50*time.Millisecond)

	assert.True(t, limiter.get("198.51.100.1").Allow())
	assert.False(t, limiter.get("198.51.100.1").Allow())
	limiter.get("198.51.100.2")
	assert.Equal(t, 2, limiter.limiters.ItemCount())

	time.Sleep(100 * time.Millisecond)
	limiter.limiters.DeleteExpired()
	assert.Zero(t, limiter.limiters.ItemCount(), "idle buckets must be evicted")

	// a returning IP starts over with a full bucket
	assert.True(t, limiter.get("198.51.100.1").Allow())
}
