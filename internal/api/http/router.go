// Package http exposes the public and admin JSON API and mounts the website.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/javicara/beonbike-sub000/internal/i18n"
	"github.com/javicara/beonbike-sub000/internal/metrics"
	"github.com/javicara/beonbike-sub000/internal/service"
	"github.com/javicara/beonbike-sub000/internal/storage"
)

// Services bundles the business services the handlers call into.
type Services struct {
	Auth      service.AuthService
	Bikes     service.BikeService
	Bookings  service.BookingService
	Rentals   service.RentalService
	Payments  service.PaymentService
	Settings  service.SettingsService
	Interest  service.InterestService
	Dashboard service.DashboardService
	Inquiries service.InquiryService
	Images    service.ImageStorageService
}

type Options struct {
	CookieName     string
	SecureCookie   bool
	MaxUploadBytes int64
	AllowedTypes   []string
	MetricsEnabled bool

	RateLimitPerMinute int
	RateLimitBurst     int

	// Peers allowed to set X-Forwarded-For and X-Real-IP.
	TrustedProxies []string
}

// Site is the server-rendered website mounted under the API routes.
type Site interface {
	Register(r *mux.Router)
	NotFound(w http.ResponseWriter, r *http.Request)
}

type Handler struct {
	svc     Services
	store   storage.StorageInterface
	catalog *i18n.Catalog
	auth    *sessionAuth
	opts    Options
}

func NewHandler(svc Services, store storage.StorageInterface, catalog *i18n.Catalog, opts Options) *Handler {
	return &Handler{
		svc:     svc,
		store:   store,
		catalog: catalog,
		auth: &sessionAuth{
			auth:       svc.Auth,
			cookieName: opts.CookieName,
			secure:     opts.SecureCookie,
		},
		opts: opts,
	}
}

// NewRouter wires the API, the image endpoints and, when site is non-nil, the website.
func NewRouter(h *Handler, site Site) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, trustedRealIP(parseTrustedProxies(h.opts.TrustedProxies)), accessLog, middleware.Recoverer, metrics.Middleware)

	limiter := newIPLimiter(h.opts.RateLimitPerMinute, h.opts.RateLimitBurst)

	if h.opts.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Registered before the /api subrouter, which answers every other /api path.
	uploads := NewImageUploadHandler(h.store, h.auth, h.opts.MaxUploadBytes, h.opts.AllowedTypes)
	uploads.Register(r)

	api := r.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(limiter.middleware)
	public.HandleFunc("/bikes", h.ListBikes).Methods(http.MethodGet)
	public.HandleFunc("/bikes/{id:[0-9]+}", h.GetBike).Methods(http.MethodGet)
	public.HandleFunc("/availability", h.Availability).Methods(http.MethodGet)
	public.HandleFunc("/rentals", h.RequestRental).Methods(http.MethodPost)
	public.HandleFunc("/interest", h.RegisterInterest).Methods(http.MethodPost)
	public.HandleFunc("/inquiries", h.SubmitInquiry).Methods(http.MethodPost)

	authR := api.PathPrefix("/auth").Subrouter()
	authR.Handle("/login", limiter.middleware(http.HandlerFunc(h.Login))).Methods(http.MethodPost)
	authR.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	authR.Handle("/me", h.auth.requireAdmin(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.auth.requireAdmin)
	admin.HandleFunc("/bikes", h.AdminListBikes).Methods(http.MethodGet)
	admin.HandleFunc("/bikes", h.CreateBike).Methods(http.MethodPost)
	admin.HandleFunc("/bikes/{id:[0-9]+}", h.AdminGetBike).Methods(http.MethodGet)
	admin.HandleFunc("/bikes/{id:[0-9]+}", h.UpdateBike).Methods(http.MethodPut)
	admin.HandleFunc("/bikes/{id:[0-9]+}", h.DeleteBike).Methods(http.MethodDelete)
	admin.HandleFunc("/bikes/{id:[0-9]+}/images", h.GetUploadURL).Methods(http.MethodPost)
	admin.HandleFunc("/bikes/{id:[0-9]+}/images/confirm", h.ConfirmUpload).Methods(http.MethodPost)

	admin.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}", h.UpdateBooking).Methods(http.MethodPut)
	admin.HandleFunc("/bookings/{id:[0-9]+}", h.DeleteBooking).Methods(http.MethodDelete)
	admin.HandleFunc("/bookings/{id:[0-9]+}/status", h.ChangeBookingStatus).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id:[0-9]+}/bond", h.SetBond).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id:[0-9]+}/contract", h.SetContract).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id:[0-9]+}/payments", h.ListPayments).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}/payments", h.RecordPayment).Methods(http.MethodPost)
	admin.HandleFunc("/payments/{id:[0-9]+}", h.DeletePayment).Methods(http.MethodDelete)
	admin.HandleFunc("/debtors", h.Debtors).Methods(http.MethodGet)

	admin.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/availability", h.AdminCalendar).Methods(http.MethodGet)
	admin.HandleFunc("/interest", h.ListInterest).Methods(http.MethodGet)
	admin.HandleFunc("/interest/{id:[0-9]+}", h.UpdateInterest).Methods(http.MethodPut)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	if site != nil {
		pages := r.NewRoute().Subrouter()
		pages.Use(limiter.middleware)
		site.Register(pages)
		r.NotFoundHandler = middleware.RequestID(accessLog(http.HandlerFunc(site.NotFound)))
	}
	return r
}
