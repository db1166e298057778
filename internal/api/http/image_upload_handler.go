package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/storage"
)

// ImageUploadHandler serves the upload and download URLs handed out by local storage.
type ImageUploadHandler struct {
	store        storage.StorageInterface
	auth         *sessionAuth
	maxBytes     int64
	allowedTypes []string
}

func NewImageUploadHandler(store storage.StorageInterface, auth *sessionAuth, maxBytes int64, allowedTypes []string) *ImageUploadHandler {
	return &ImageUploadHandler{
		store:        store,
		auth:         auth,
		maxBytes:     maxBytes,
		allowedTypes: allowedTypes,
	}
}

// HandleUpload stores the PUT body under the key from the query string.
func (h *ImageUploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" || !storage.ValidKey(key) {
		writeError(w, http.StatusBadRequest, "missing or invalid key parameter")
		return
	}

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !slices.Contains(h.allowedTypes, contentType) {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return
	}
	if r.ContentLength > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	n, err := h.store.SaveFile(key, r.Body, h.maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooBig):
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		case errors.Is(err, storage.ErrInvalidKey):
			writeError(w, http.StatusBadRequest, "invalid key")
		default:
			logger.ErrorContext(r.Context(), "Failed to save upload", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save file")
		}
		return
	}

	logger.InfoContext(r.Context(), "Image uploaded", "key", key, "bytes", n)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload streams a stored image.
func (h *ImageUploadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key parameter")
		return
	}

	file, err := h.store.ReadFile(key)
	if err != nil {
		if errors.Is(err, storage.ErrFileMissing) || errors.Is(err, storage.ErrInvalidKey) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to open image", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", imageContentType(key))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Image download interrupted", "key", key, "error", err)
	}
}

func imageContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// Register mounts the storage endpoints. Uploads require an admin session.
func (h *ImageUploadHandler) Register(router *mux.Router) {
	router.Handle("/api/v1/upload/{token}", h.auth.requireAdmin(http.HandlerFunc(h.HandleUpload))).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/download/{key}", h.HandleDownload).Methods(http.MethodGet, http.MethodHead)
}
