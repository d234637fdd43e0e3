package api

import (
	"net/http"
	"time"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
)

// ListAnnouncements handles GET /api/v1/announcements; expired ones are hidden.
func (h *Handlers) ListAnnouncements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc().Announcements.ListCurrent(r.Context(), time.Now())
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &items)
	}
}

func (h *Handlers) CreateAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateAnnouncementRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		item, err := h.svc().Announcements.Create(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, item)
	}
}

func (h *Handlers) DeleteAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Announcements.Delete(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "announcement deleted")
	}
}

func (h *Handlers) ListMeetings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meetings, err := h.svc().Meetings.List(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &meetings)
	}
}

func (h *Handlers) CreateMeeting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.MeetingRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		meeting, err := h.svc().Meetings.Create(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, meeting)
	}
}

func (h *Handlers) UpdateMeeting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.UpdateMeetingRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		meeting, err := h.svc().Meetings.Update(r.Context(), auth.CallerFrom(r.Context()), id, req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, meeting)
	}
}

// SetMeetingMinutes handles PUT /api/v1/meetings/{id}/minutes
func (h *Handlers) SetMeetingMinutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.MinutesRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		meeting, err := h.svc().Meetings.SetMinutes(r.Context(), auth.CallerFrom(r.Context()), id, req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, meeting)
	}
}

func (h *Handlers) DeleteMeeting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Meetings.Delete(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "meeting deleted")
	}
}

// ListCertificates handles GET /api/v1/certificates[?user_id=]. Members only
// ever see their own.
func (h *Handlers) ListCertificates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certs, err := h.svc().Certificates.List(r.Context(), auth.CallerFrom(r.Context()), r.URL.Query().Get("user_id"))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &certs)
	}
}

func (h *Handlers) IssueCertificate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.IssueCertificateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		cert, err := h.svc().Certificates.Issue(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, cert)
	}
}

func (h *Handlers) DeleteCertificate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Certificates.Delete(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "certificate deleted")
	}
}
