package api

import (
	"net/http"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
)

// ListActivities handles GET /api/v1/activities. Anonymous callers get counts
// without their own registration flag.
func (h *Handlers) ListActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activities, err := h.svc().Activities.List(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &activities)
	}
}

// CreateActivity handles POST /api/v1/activities
//
// @Summary      Create an activity
// @Tags         Activities
// @Accept       json
// @Produce      json
// @Param        body  body      dtos.CreateActivityRequest  true  "Activity"
// @Success      201   {object}  dtos.ActivityView
// @Router       /api/v1/activities [post]
func (h *Handlers) CreateActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateActivityRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		activity, err := h.svc().Activities.Create(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, activity)
	}
}

func (h *Handlers) UpdateActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.UpdateActivityRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		activity, err := h.svc().Activities.Update(r.Context(), auth.CallerFrom(r.Context()), id, req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, activity)
	}
}

func (h *Handlers) DeleteActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Activities.Delete(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "activity deleted")
	}
}

// RegisterForActivity handles POST /api/v1/activities/{id}/registration
func (h *Handlers) RegisterForActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		reg, err := h.svc().Activities.Register(r.Context(), auth.CallerFrom(r.Context()), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, reg)
	}
}

// UnregisterFromActivity handles DELETE /api/v1/activities/{id}/registration
func (h *Handlers) UnregisterFromActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Activities.Unregister(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "registration removed")
	}
}

func (h *Handlers) ListActivityRegistrations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		regs, err := h.svc().Activities.ListRegistrations(r.Context(), auth.CallerFrom(r.Context()), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &regs)
	}
}
