package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/models/dtos/responses"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Error:     message,
		Code:      code,
	})
}

func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, apperr.HTTPStatus(err), apperr.CodeOf(err), apperr.PublicMessage(err))
}
