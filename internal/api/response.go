package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusOk),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	respondWithSuccess(w, statusCode, &responses.MessageData{Message: message})
}

// respondWithError maps err onto the error envelope. Unclassified and backend
// failures are logged with the request id; the client only sees a short message.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		caller := auth.CallerFrom(r.Context())
		logging.WithRequest(auth.RequestID(r.Context()), caller.UserID, r.URL.Path).Errorw("request failed",
			"status_code", status,
			"error", err,
		)
	}

	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Error:     apperr.PublicMessage(err),
		Code:      apperr.CodeOf(err),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// decodeJSON reads a bounded request body into dst and rejects unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("%s: %v", constants.MsgInvalidJSON, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if id == "" {
		return "", apperr.Validation(constants.MsgMissingID)
	}
	return id, nil
}
