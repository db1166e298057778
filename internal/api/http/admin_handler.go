package http

import (
	"net/http"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := decodeJSON(w, r, &settings); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Settings.UpdateSettings(r.Context(), &settings); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AdminCalendar shows per-bike occupancy for the requested range.
func (h *Handler) AdminCalendar(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	calendar, err := h.svc.Bookings.Calendar(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendar)
}

func (h *Handler) ListInterest(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.Interest.ListInterest(r.Context(), domain.InterestStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

type interestStatusRequest struct {
	Status domain.InterestStatus `json:"status"`
}

func (h *Handler) UpdateInterest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req interestStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Interest.UpdateInterestStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}
