package api

import (
	"net/http"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
)

// MarkAttendance handles POST /api/v1/attendance. The batch is all-or-nothing.
func (h *Handlers) MarkAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.MarkAttendanceRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		records, err := h.svc().Attendance.MarkBatch(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, &records)
	}
}

// ListEventAttendance handles GET /api/v1/attendance?activity_id=|meeting_id=
func (h *Handlers) ListEventAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		records, err := h.svc().Attendance.ListForEvent(r.Context(), auth.CallerFrom(r.Context()),
			q.Get("activity_id"), q.Get("meeting_id"))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &records)
	}
}

func (h *Handlers) ListMemberAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		records, err := h.svc().Attendance.ListForMember(r.Context(), auth.CallerFrom(r.Context()), userID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &records)
	}
}
