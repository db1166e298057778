package http

import (
	"net/http"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Bookings.ListBookings(r.Context(), domain.BookingStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.svc.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var booking domain.RentalBooking
	if err := decodeJSON(w, r, &booking); err != nil {
		writeServiceError(w, r, err)
		return
	}
	booking.ID = 0
	booking.Payments = nil
	if booking.Locale == "" {
		booking.Locale = h.catalog.Default()
	} else {
		booking.Locale = h.catalog.Normalize(booking.Locale)
	}
	view, err := h.svc.Bookings.CreateBooking(r.Context(), &booking)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var booking domain.RentalBooking
	if err := decodeJSON(w, r, &booking); err != nil {
		writeServiceError(w, r, err)
		return
	}
	booking.ID = id
	booking.Payments = nil
	booking.Locale = h.catalog.Normalize(booking.Locale)
	view, err := h.svc.Bookings.UpdateBooking(r.Context(), &booking)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Bookings.DeleteBooking(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status"`
	BikeID *int32               `json:"bike_id,omitempty"`
}

func (h *Handler) ChangeBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.svc.Bookings.ChangeStatus(r.Context(), id, req.Status, req.BikeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type bondRequest struct {
	BondStatus domain.BondStatus `json:"bond_status"`
}

func (h *Handler) SetBond(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req bondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.svc.Bookings.SetBond(r.Context(), id, req.BondStatus)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type contractRequest struct {
	Signed bool `json:"signed"`
}

func (h *Handler) SetContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req contractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.svc.Bookings.SetContract(r.Context(), id, req.Signed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Debtors lists bookings that owe money as of today, largest debt first.
func (h *Handler) Debtors(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Bookings.Debtors(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	payments, err := h.svc.Payments.ListPayments(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// RecordPayment returns the created payment together with the updated ledger.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var payment domain.Payment
	if err := decodeJSON(w, r, &payment); err != nil {
		writeServiceError(w, r, err)
		return
	}
	payment.ID = 0
	payment.BookingID = id
	ledger, err := h.svc.Payments.RecordPayment(r.Context(), &payment)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"payment": payment,
		"ledger":  ledger,
	})
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Payments.DeletePayment(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
