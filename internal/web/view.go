package web

import (
	"html/template"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/i18n"
)

type bikeView struct {
	domain.Bike
	DescriptionHTML template.HTML
}

// Cover is the first gallery image, if any.
func (b bikeView) Cover() string {
	if len(b.ImageURLs) == 0 {
		return ""
	}
	return b.ImageURLs[0]
}

// pageView is the data every page template is executed with.
type pageView struct {
	Page      string
	Locale    string
	Locales   []string
	Site      string
	Today     string
	Settings  *domain.Settings
	Bikes     []bikeView
	Available int
	Checked   bool
	Notice    string
	Error     string
	Form      map[string]string

	catalog *i18n.Catalog
}

func (v *pageView) T(key string, args ...any) string {
	return v.catalog.T(v.Locale, key, args...)
}

func (v *pageView) Money(cents int64) string {
	return i18n.Money(cents)
}

func (v *pageView) Title() string {
	switch v.Page {
	case "home":
		return v.T("home.title")
	case "notfound":
		return v.T("errors.not_found")
	}
	return v.T(v.Page + ".title")
}

// Path links to a page in the current locale.
func (v *pageView) Path(page string) string {
	return "/" + v.Locale + "/" + page
}

// SwitchPath links to the current page in another locale.
func (v *pageView) SwitchPath(locale string) string {
	if v.Page == "home" || v.Page == "notfound" {
		return "/" + locale + "/"
	}
	return "/" + locale + "/" + v.Page
}
