package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/service"
)

const maxFormBytes = 64 << 10

// inquiryPages maps an inquiry kind to the page its form lives on.
var inquiryPages = map[domain.InquiryKind]string{
	domain.InquiryKindContact:    "contact",
	domain.InquiryKindSale:       "sales",
	domain.InquiryKindConversion: "conversions",
	domain.InquiryKindTour:       "tours",
}

func parseForm(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = strings.TrimSpace(r.PostForm.Get(k))
	}
	return values, nil
}

// parseOptionalDate leaves the date zero when the field is empty so that the
// service reports the missing value.
func parseOptionalDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}

func (s *Site) handleRentalForm(w http.ResponseWriter, r *http.Request) {
	view := s.newView(w, r, "rentals")
	form, err := parseForm(w, r)
	if err != nil {
		view.Error = view.T("errors.invalid")
		s.render(w, r, http.StatusBadRequest, view)
		return
	}
	view.Form = form

	req := &service.RentalRequest{
		Name:    form["name"],
		Email:   form["email"],
		Phone:   form["phone"],
		Address: form["address"],
		Notes:   form["notes"],
		Locale:  view.Locale,
	}
	var res *service.RentalRequestResult
	req.StartDate, err = parseOptionalDate(form["start_date"])
	if err == nil {
		req.EndDate, err = parseOptionalDate(form["end_date"])
	}
	if err == nil {
		res, err = s.rentals.RequestRental(r.Context(), req)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		logger.InfoContext(r.Context(), "Rental form rejected", "error", err)
		view.Error = view.T("errors.invalid") + " " + strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
		s.render(w, r, http.StatusBadRequest, view)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	view.Form = map[string]string{}
	if res.Waitlisted {
		view.Notice = view.T("rentals.waitlisted")
	} else {
		view.Notice = view.T("rentals.submitted")
	}
	s.render(w, r, http.StatusOK, view)
}

func (s *Site) handleInquiryForm(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(w, r)
	kind := domain.InquiryKind(form["kind"])
	page, known := inquiryPages[kind]
	if !known {
		page = "contact"
	}
	view := s.newView(w, r, page)
	if err != nil || !known {
		view.Error = view.T("errors.invalid")
		s.render(w, r, http.StatusBadRequest, view)
		return
	}
	view.Form = form

	inq := &domain.Inquiry{
		Kind:    kind,
		Name:    form["name"],
		Email:   form["email"],
		Phone:   form["phone"],
		Message: form["message"],
		Locale:  view.Locale,
	}
	if id, perr := strconv.ParseInt(form["bike_id"], 10, 32); perr == nil {
		bikeID := int32(id)
		inq.BikeID = &bikeID
	}
	if n, perr := strconv.Atoi(form["group_size"]); perr == nil {
		inq.GroupSize = int32(n)
	}
	inq.TourDate, err = parseOptionalDate(form["tour_date"])
	if err == nil {
		err = s.inquiries.Submit(r.Context(), inq)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		view.Error = view.T("errors.invalid")
		if err := s.load(r, view); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.render(w, r, http.StatusBadRequest, view)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, view.Path(page)+"?sent=1", http.StatusSeeOther)
}
