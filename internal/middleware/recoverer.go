package middleware

import (
	"net/http"
	"runtime/debug"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/logging"
)

// Recoverer turns a handler panic into a logged 500 with the standard envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			userID := ""
			if info := infoFrom(r.Context()); info != nil {
				userID = info.userID
			}
			logging.WithRequest(auth.RequestID(r.Context()), userID, r.URL.Path).Errorw("handler panic",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
