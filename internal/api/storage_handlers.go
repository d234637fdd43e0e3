package api

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/models/dtos"
	"bsg-portal/registry/internal/providers"
	"bsg-portal/registry/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

// SignBlobURL handles POST /api/v1/storage/sign
func (h *Handlers) SignBlobURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SignURLRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
		out, err := h.svc().Storage.Sign(r.Context(), auth.CallerFrom(r.Context()), req)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, out)
	}
}

// UploadBlob handles POST /api/v1/storage/{bucket} with a multipart "file"
// field. Objects land under <caller user id>/<random name>; the response
// carries the bare reference to store and a signed URL for immediate use.
func (h *Handlers) UploadBlob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := h.deps.ObjectStore
		if store == nil {
			respondWithError(w, r, apperr.Validation("uploads are not served by this backend"))
			return
		}
		bucket := chi.URLParam(r, "bucket")
		if !services.IsKnownBucket(bucket) {
			respondWithError(w, r, apperr.Validation("unknown bucket %q", bucket))
			return
		}
		caller := auth.CallerFrom(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, r, apperr.Validation("file is required"))
			return
		}
		defer file.Close()

		path := caller.UserID + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		if _, err := store.Put(r.Context(), bucket, path, file); err != nil {
			respondWithError(w, r, apperr.Backend("store upload", err))
			return
		}
		logging.Info("Blob uploaded", "bucket", bucket, "path", path, "size", header.Size, "by", caller.UserID)

		signed, err := h.svc().Storage.SignedURL(r.Context(), bucket, path, services.DefaultSignedURLTTL)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, &dtos.UploadResponse{
			Ref:       bucket + "/" + path,
			SignedURL: signed,
		})
	}
}

// ServeSignedObject handles GET /storage/v1/object/sign/{bucket}/* for the
// local backend. The token must name exactly the requested object.
func (h *Handlers) ServeSignedObject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.deps.ObjectSigner == nil || h.deps.ObjectStore == nil {
			http.NotFound(w, r)
			return
		}
		bucket := chi.URLParam(r, "bucket")
		path, err := url.PathUnescape(chi.URLParam(r, "*"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		obj, err := h.deps.ObjectSigner.Validate(r.URL.Query().Get("token"))
		if err != nil || obj.Bucket != bucket || obj.Path != path {
			respondWithError(w, r, apperr.Forbidden("invalid or expired object token"))
			return
		}

		f, err := h.deps.ObjectStore.Open(bucket, path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, providers.ErrInvalidObjectPath) {
				respondWithError(w, r, apperr.NotFound("object not found"))
				return
			}
			respondWithError(w, r, apperr.Backend("open object", err))
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			respondWithError(w, r, apperr.Backend("stat object", err))
			return
		}
		w.Header().Set("Cache-Control", "private, max-age=60")
		http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
	}
}
