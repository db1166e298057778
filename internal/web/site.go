// Package web renders the public, localized pages of the site.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/i18n"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// LocaleCookie remembers the visitor's language between visits.
const LocaleCookie = "lang"

var pages = []string{"home", "sales", "conversions", "rentals", "tours", "contact", "notfound"}

// Options configures a Site.
type Options struct {
	Name         string
	SecureCookie bool
	Location     *time.Location
}

// Site serves the public pages.
type Site struct {
	catalog   *i18n.Catalog
	bikes     service.BikeService
	settings  service.SettingsService
	rentals   service.RentalService
	inquiries service.InquiryService
	opts      Options
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
	now       func() time.Time
}

func NewSite(
	catalog *i18n.Catalog,
	bikes service.BikeService,
	settings service.SettingsService,
	rentals service.RentalService,
	inquiries service.InquiryService,
	opts Options,
) (*Site, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Site{
		catalog:   catalog,
		bikes:     bikes,
		settings:  settings,
		rentals:   rentals,
		inquiries: inquiries,
		opts:      opts,
		templates: make(map[string]*template.Template, len(pages)),
		markdown:  goldmark.New(),
		policy:    bluemonday.UGCPolicy(),
		now:       time.Now,
	}
	funcs := template.FuncMap{
		"upper":  strings.ToUpper,
		"digits": digitsOnly,
	}
	for _, page := range pages {
		tpl, err := template.New("layout.html").
			Option("missingkey=zero").
			Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/bikes.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", page, err)
		}
		s.templates[page] = tpl
	}
	return s, nil
}

// Register mounts the pages on r. Every page is reachable with and without a
// locale prefix, e.g. /rentals and /en/rentals.
func (s *Site) Register(r *mux.Router) {
	static, _ := fs.Sub(staticFS, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).Methods(http.MethodGet)

	lang := "{lang:" + strings.Join(s.catalog.Locales(), "|") + "}"
	page := "{page:sales|conversions|rentals|tours|contact}"

	for _, prefix := range []string{"", "/" + lang} {
		r.HandleFunc(prefix+"/rentals", s.handleRentalForm).Methods(http.MethodPost)
		r.HandleFunc(prefix+"/inquiry", s.handleInquiryForm).Methods(http.MethodPost)
		r.HandleFunc(prefix+"/"+page, s.handlePage).Methods(http.MethodGet, http.MethodHead)
	}
	r.HandleFunc("/"+lang, s.handlePage).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/"+lang+"/", s.handlePage).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet, http.MethodHead)
}

// NotFound renders the localized 404 page.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	view := s.newView(w, r, "notfound")
	s.render(w, r, http.StatusNotFound, view)
}

// Locale resolves the request's locale: path prefix, then cookie, then
// Accept-Language, then the default. A locale taken from the path is remembered in the cookie.
func (s *Site) Locale(w http.ResponseWriter, r *http.Request) string {
	if loc := mux.Vars(r)["lang"]; loc != "" && s.catalog.Supported(loc) {
		if c, err := r.Cookie(LocaleCookie); err != nil || c.Value != loc {
			http.SetCookie(w, &http.Cookie{
				Name:     LocaleCookie,
				Value:    loc,
				Path:     "/",
				MaxAge:   365 * 24 * 3600,
				HttpOnly: true,
				Secure:   s.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		return loc
	}
	if c, err := r.Cookie(LocaleCookie); err == nil && s.catalog.Supported(c.Value) {
		return c.Value
	}
	if loc := s.catalog.FromAcceptLanguage(r.Header.Get("Accept-Language")); loc != "" {
		return loc
	}
	return s.catalog.Default()
}

func (s *Site) newView(w http.ResponseWriter, r *http.Request, page string) *pageView {
	loc := s.Locale(w, r)
	v := &pageView{
		Page:    page,
		Locale:  loc,
		Locales: s.catalog.Locales(),
		Site:    s.opts.Name,
		Today:   domain.DateOf(s.now(), s.opts.Location).String(),
		Form:    map[string]string{},
		catalog: s.catalog,
	}
	if settings, err := s.settings.GetSettings(r.Context()); err == nil {
		v.Settings = settings
	} else {
		logger.WarnContext(r.Context(), "Failed to load settings for page", "page", page, "error", err)
	}
	return v
}

func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	page := mux.Vars(r)["page"]
	if page == "" {
		page = "home"
	}
	view := s.newView(w, r, page)
	if r.URL.Query().Get("sent") == "1" {
		view.Notice = view.T("contact.sent")
	}
	if err := s.load(r, view); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view)
}

// load fills the page-specific data.
func (s *Site) load(r *http.Request, v *pageView) error {
	ctx := r.Context()
	var category domain.BikeCategory
	switch v.Page {
	case "home":
		bikes, err := s.bikes.ListPublic(ctx, "")
		if err != nil {
			return err
		}
		for _, b := range bikes {
			if b.Featured {
				v.Bikes = append(v.Bikes, s.bikeView(b))
			}
		}
		return nil
	case "sales":
		category = domain.BikeCategorySale
	case "conversions":
		category = domain.BikeCategoryConversion
	case "tours":
		category = domain.BikeCategoryTour
	case "rentals":
		return s.loadAvailability(r, v)
	default:
		return nil
	}
	bikes, err := s.bikes.ListPublic(ctx, category)
	if err != nil {
		return err
	}
	for _, b := range bikes {
		v.Bikes = append(v.Bikes, s.bikeView(b))
	}
	return nil
}

func (s *Site) loadAvailability(r *http.Request, v *pageView) error {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		return nil
	}
	v.Form["from"], v.Form["to"] = q.Get("from"), q.Get("to")
	from, err := domain.ParseDate(q.Get("from"))
	if err == nil {
		var to domain.Date
		if to, err = domain.ParseDate(q.Get("to")); err == nil {
			v.Available, err = s.rentals.AvailableCount(r.Context(), from, to)
		}
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		v.Error = v.T("errors.invalid")
		return nil
	}
	if err != nil {
		return err
	}
	v.Checked = true
	return nil
}

// bikeView renders a bike's Markdown description to sanitized HTML.
func (s *Site) bikeView(b domain.Bike) bikeView {
	view := bikeView{Bike: b}
	if b.Description == "" {
		return view
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(b.Description), &buf); err != nil {
		logger.Warn("Failed to render bike description", "bikeID", b.ID, "error", err)
		view.DescriptionHTML = template.HTML(template.HTMLEscapeString(b.Description))
		return view
	}
	view.DescriptionHTML = template.HTML(s.policy.SanitizeBytes(buf.Bytes()))
	return view
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, v *pageView) {
	tpl, ok := s.templates[v.Page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("unknown page %q", v.Page))
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", v); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", v.Locale)
	w.Header().Add("Vary", "Accept-Language, Cookie")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Site) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "Page rendering failed", "path", r.URL.Path, "error", err)
	http.Error(w, s.catalog.T(s.Locale(w, r), "errors.server"), http.StatusInternalServerError)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
