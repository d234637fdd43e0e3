package middleware

import (
	"net/http"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
)

// IsStaffMiddleware lets admins and coordinators through.
func IsStaffMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := auth.CallerFrom(r.Context())
			if caller.IsAdminOrCoordinator() {
				next.ServeHTTP(w, r)
				return
			}
			writeAppError(w, apperr.Forbidden(constants.MsgAdminOrCoordOnly))
		})
	}
}
