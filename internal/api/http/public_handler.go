package http

import (
	"net/http"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/service"
)

// requestLocale prefers an explicit locale from the payload, then Accept-Language.
func (h *Handler) requestLocale(r *http.Request, explicit string) string {
	if explicit != "" {
		return h.catalog.Normalize(explicit)
	}
	if loc := h.catalog.FromAcceptLanguage(r.Header.Get("Accept-Language")); loc != "" {
		return loc
	}
	return h.catalog.Default()
}

func (h *Handler) ListBikes(w http.ResponseWriter, r *http.Request) {
	category := domain.BikeCategory(r.URL.Query().Get("category"))
	bikes, err := h.svc.Bikes.ListPublic(r.Context(), category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bikes)
}

// GetBike hides sold and retired bikes from the public API.
func (h *Handler) GetBike(w http.ResponseWriter, r *http.Request) {
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
	if bike.Status == domain.BikeStatusSold || bike.Status == domain.BikeStatusRetired {
		writeError(w, http.StatusNotFound, "bike not found")
		return
	}
	writeJSON(w, http.StatusOK, bike)
}

type availabilityResponse struct {
	From      domain.Date `json:"from"`
	To        domain.Date `json:"to"`
	Available int         `json:"available"`
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	n, err := h.svc.Rentals.AvailableCount(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{From: from, To: to, Available: n})
}

// RequestRental answers 201 with the pending booking, or 202 when the request
// went to the waiting list.
func (h *Handler) RequestRental(w http.ResponseWriter, r *http.Request) {
	var req service.RentalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	req.Locale = h.requestLocale(r, req.Locale)

	res, err := h.svc.Rentals.RequestRental(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Waitlisted {
		status = http.StatusAccepted
	}
	writeJSON(w, status, res)
}

func (h *Handler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	var reg domain.InterestRegistration
	if err := decodeJSON(w, r, &reg); err != nil {
		writeServiceError(w, r, err)
		return
	}
	reg.ID = 0
	reg.NotifiedOn = nil
	reg.Locale = h.requestLocale(r, reg.Locale)

	if err := h.svc.Rentals.RegisterInterest(r.Context(), &reg); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *Handler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var inq domain.Inquiry
	if err := decodeJSON(w, r, &inq); err != nil {
		writeServiceError(w, r, err)
		return
	}
	inq.Locale = h.requestLocale(r, inq.Locale)

	if err := h.svc.Inquiries.Submit(r.Context(), &inq); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"sent": true})
}
