package http

import (
	"net/http"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

func (h *Handler) AdminListBikes(w http.ResponseWriter, r *http.Request) {
	bikes, err := h.svc.Bikes.ListBikes(r.Context(), domain.BikeCategory(r.URL.Query().Get("category")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bikes)
}

func (h *Handler) AdminGetBike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	bike, err := h.svc.Bikes.GetBike(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bike)
}

func (h *Handler) CreateBike(w http.ResponseWriter, r *http.Request) {
	var bike domain.Bike
	if err := decodeJSON(w, r, &bike); err != nil {
		writeServiceError(w, r, err)
		return
	}
	bike.ID = 0
	if err := h.svc.Bikes.CreateBike(r.Context(), &bike); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bike)
}

func (h *Handler) UpdateBike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var bike domain.Bike
	if err := decodeJSON(w, r, &bike); err != nil {
		writeServiceError(w, r, err)
		return
	}
	bike.ID = id
	if err := h.svc.Bikes.UpdateBike(r.Context(), &bike); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bike)
}

func (h *Handler) DeleteBike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Bikes.DeleteBike(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

// GetUploadURL issues a URL the browser PUTs the image to.
func (h *Handler) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req uploadURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	uploadURL, key, expiresAt, err := h.svc.Images.GetUploadURL(r.Context(), id, req.Filename, req.ContentType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{UploadURL: uploadURL, Key: key, ExpiresAt: expiresAt})
}

type confirmUploadRequest struct {
	Key string `json:"key"`
}

// ConfirmUpload adds an uploaded image to the bike's gallery.
func (h *Handler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req confirmUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	url, err := h.svc.Images.ConfirmUpload(r.Context(), id, req.Key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
