package api

import (
	"net/http"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
)

func (h *Handlers) ListResources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resources, err := h.svc().Inventory.ListResources(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &resources)
	}
}

func (h *Handlers) CreateResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateResourceRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		resource, err := h.svc().Inventory.CreateResource(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, resource)
	}
}

// AssignResource handles POST /api/v1/inventory/assignments
//
// @Summary      Hand stock to a member
// @Description  Fails with 409 when fewer units are available than requested; stock is unchanged.
// @Tags         Inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dtos.AssignResourceRequest  true  "Assignment"
// @Success      201   {object}  dtos.AssignmentView
// @Router       /api/v1/inventory/assignments [post]
func (h *Handlers) AssignResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.AssignResourceRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		assignment, err := h.svc().Inventory.Assign(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, assignment)
	}
}

// ReturnAssignment handles POST /api/v1/inventory/assignments/{id}/return
func (h *Handlers) ReturnAssignment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Inventory.ReturnAssignment(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "assignment returned")
	}
}

func (h *Handlers) ListActiveAssignments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.svc().Inventory.ListActiveAssignments(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &rows)
	}
}

func (h *Handlers) ListMemberAssignments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		rows, err := h.svc().Inventory.ListAssignmentsForMember(r.Context(), auth.CallerFrom(r.Context()), userID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &rows)
	}
}
