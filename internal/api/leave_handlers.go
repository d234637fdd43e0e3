package api

import (
	"net/http"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
)

func (h *Handlers) SubmitLeave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LeaveRequestInput
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		leave, err := h.svc().Leaves.Submit(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, leave)
	}
}

// ReviewLeave handles POST /api/v1/leaves/{id}/review. Only pending requests can be reviewed.
func (h *Handlers) ReviewLeave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.ReviewLeaveRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		leave, err := h.svc().Leaves.Review(r.Context(), auth.CallerFrom(r.Context()), id, req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, leave)
	}
}

// ListLeaves returns every request to staff and only their own to members.
func (h *Handlers) ListLeaves() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leaves, err := h.svc().Leaves.ListVisibleTo(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &leaves)
	}
}
