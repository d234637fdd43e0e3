package api

import (
	"net/http"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// IssueMember handles POST /api/v1/members
//
// @Summary      Issue a member identity
// @Description  Allocates the next uid, provisions a login and returns the one-time password.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        body  body      dtos.IssueMemberRequest  true  "Member"
// @Success      201   {object}  dtos.IssuedMember
// @Router       /api/v1/members [post]
func (h *Handlers) IssueMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.IssueMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		issued, err := h.svc().Identity.IssueMember(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, issued)
	}
}

func (h *Handlers) ListMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := h.svc().Members.ListMembers(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &members)
	}
}

func (h *Handlers) GetMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		member, err := h.svc().Members.GetMember(r.Context(), auth.CallerFrom(r.Context()), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, member)
	}
}

func (h *Handlers) UpdateMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.UpdateMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		member, err := h.svc().Members.UpdateMember(r.Context(), auth.CallerFrom(r.Context()), id, req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, member)
	}
}

func (h *Handlers) SetMemberStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.SetStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		status := constants.MemberStatus(req.Status)
		if err := h.svc().Members.SetStatus(r.Context(), auth.CallerFrom(r.Context()), id, status); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &dtos.SetStatusRequest{Status: string(status)})
	}
}

func (h *Handlers) ToggleMemberStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		status, err := h.svc().Members.ToggleStatus(r.Context(), auth.CallerFrom(r.Context()), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &dtos.SetStatusRequest{Status: string(status)})
	}
}

func (h *Handlers) SetProfilePhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.ProfilePhotoRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		member, err := h.svc().Members.SetProfilePhoto(r.Context(), auth.CallerFrom(r.Context()), id, req.ProfilePhotoURL)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, member)
	}
}

func (h *Handlers) DeleteMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := h.svc().Members.DeleteMember(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "member deleted")
	}
}

// MemberRoles handles GET /api/v1/roles/{userID}
func (h *Handlers) MemberRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		caller := auth.CallerFrom(r.Context())
		if !caller.Owns(userID) && !caller.IsAdminOrCoordinator() {
			respondWithError(w, r, apperr.Forbidden(constants.MsgAdminOrCoordOnly))
			return
		}
		roles, err := h.svc().Identity.RolesOf(r.Context(), userID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		resp := dtos.RolesResponse{
			UserID:      userID,
			DisplayRole: string(h.svc().Identity.DisplayRole(roles)),
			Roles:       make([]string, 0, len(roles)),
		}
		for _, role := range roles {
			resp.Roles = append(resp.Roles, string(role))
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// AssignRole handles POST /api/v1/roles/{userID}
func (h *Handlers) AssignRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var req dtos.RoleRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		role, err := constants.ParseRole(req.Role)
		if err != nil {
			respondWithError(w, r, apperr.Validation("%v", err))
			return
		}
		if err := h.svc().Identity.AssignRole(r.Context(), auth.CallerFrom(r.Context()), userID, role); err != nil {
			respondWithError(w, r, err)
			return
		}
		h.MemberRoles()(w, r)
	}
}

// RevokeRole handles DELETE /api/v1/roles/{userID}/{role}
func (h *Handlers) RevokeRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		role, err := constants.ParseRole(chi.URLParam(r, "role"))
		if err != nil {
			respondWithError(w, r, apperr.Validation("%v", err))
			return
		}
		if err := h.svc().Identity.RevokeRole(r.Context(), auth.CallerFrom(r.Context()), userID, role); err != nil {
			respondWithError(w, r, err)
			return
		}
		h.MemberRoles()(w, r)
	}
}
