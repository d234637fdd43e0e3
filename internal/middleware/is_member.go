package middleware

import (
	"net/http"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
)

// IsMemberMiddleware requires any authenticated caller.
func IsMemberMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.CallerFrom(r.Context()).IsAuthenticated() {
				writeAppError(w, apperr.NotAuthenticated())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
