package middleware

import (
	"context"
	"net/http"
	"strings"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
)

// Authenticator resolves a bearer token to a caller.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (auth.Caller, error)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the resolved caller to the request context.
func AuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAppError(w, apperr.NotAuthenticated())
				return
			}
			caller, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				writeAppError(w, err)
				return
			}
			noteUser(r.Context(), caller.UserID)
			ctx := auth.SetCaller(r.Context(), caller)
			ctx = auth.SetAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches a caller when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			noteUser(r.Context(), caller.UserID)
			ctx := auth.SetCaller(r.Context(), caller)
			ctx = auth.SetAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
