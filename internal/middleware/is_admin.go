package middleware

import (
	"net/http"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := auth.CallerFrom(r.Context())
			if !caller.IsAdmin() {
				writeAppError(w, apperr.Forbidden(constants.MsgAdminOnly))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
