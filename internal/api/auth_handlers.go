package api

import (
	"context"
	"net/http"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
	"bsg-portal/registry/internal/providers"
)

// LoginWithUID handles POST /api/v1/auth/uid-login
//
// @Summary      Sign in with a member uid
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  dtos.SessionResponse
// @Failure      401  {object}  responses.APIResponse[any]
// @Router       /api/v1/auth/uid-login [post]
func (h *Handlers) LoginWithUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UIDLoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		sess, err := h.svc().Identity.ResolveLoginByUID(r.Context(), req.UID, req.Password)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		h.respondWithSession(w, r, sess)
	}
}

// SignIn handles POST /api/v1/auth/sign-in with the raw login email.
func (h *Handlers) SignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SignInRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		sess, err := h.svc().Identity.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		h.respondWithSession(w, r, sess)
	}
}

func (h *Handlers) respondWithSession(w http.ResponseWriter, r *http.Request, sess *providers.AuthSession) {
	view, err := h.sessionProfile(r.Context(), sess.AccessToken)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithSuccess(w, http.StatusOK, &dtos.SessionResponse{
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
		User:        *view,
	})
}

func (h *Handlers) sessionProfile(ctx context.Context, token string) (*dtos.MemberView, error) {
	caller, err := h.svc().Identity.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return h.svc().Members.GetMyProfile(ctx, caller)
}

// SignOut handles POST /api/v1/auth/sign-out
func (h *Handlers) SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc().Identity.SignOut(r.Context(), auth.AccessToken(r.Context())); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithMessage(w, http.StatusOK, "signed out")
	}
}

// RefreshSession handles POST /api/v1/auth/refresh
func (h *Handlers) RefreshSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.svc().Identity.RefreshSession(r.Context(), auth.AccessToken(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		h.respondWithSession(w, r, sess)
	}
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.svc().Members.GetMyProfile(r.Context(), auth.CallerFrom(r.Context()))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, view)
	}
}
