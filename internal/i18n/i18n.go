// Package i18n loads the site's message catalogs and resolves the visitor's locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Catalog holds flattened message keys ("rentals.title") per locale.
type Catalog struct {
	defaultLocale string
	messages      map[string]map[string]string
}

// Load reads the embedded catalogs for the given locales. The default locale must be among them.
func Load(defaultLocale string, locales []string) (*Catalog, error) {
	return LoadFS(localeFS, "locales", defaultLocale, locales)
}

// LoadFS reads <dir>/<locale>.toml from fsys for each locale.
func LoadFS(fsys fs.FS, dir, defaultLocale string, locales []string) (*Catalog, error) {
	c := &Catalog{
		defaultLocale: defaultLocale,
		messages:      make(map[string]map[string]string, len(locales)),
	}
	for _, loc := range locales {
		data, err := fs.ReadFile(fsys, path.Join(dir, loc+".toml"))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", loc, err)
		}
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", loc, err)
		}
		flat := make(map[string]string)
		flatten("", raw, flat)
		c.messages[loc] = flat
	}
	if _, ok := c.messages[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q is not loaded", defaultLocale)
	}
	return c, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func (c *Catalog) Default() string {
	return c.defaultLocale
}

// Locales returns the loaded locales, default first.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for loc := range c.messages {
		if loc != c.defaultLocale {
			out = append(out, loc)
		}
	}
	sort.Strings(out)
	return append([]string{c.defaultLocale}, out...)
}

func (c *Catalog) Supported(locale string) bool {
	_, ok := c.messages[locale]
	return ok
}

// Normalize maps "es-AR" or "ES" onto a loaded locale, or the default.
func (c *Catalog) Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if c.Supported(locale) {
		return locale
	}
	if base, _, ok := strings.Cut(locale, "-"); ok && c.Supported(base) {
		return base
	}
	return c.defaultLocale
}

// T looks key up in locale, then in the default locale, then returns the key itself.
// Arguments, when given, are applied with fmt.Sprintf.
func (c *Catalog) T(locale, key string, args ...any) string {
	msg, ok := c.messages[locale][key]
	if !ok {
		msg, ok = c.messages[c.defaultLocale][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key exists in locale without fallback.
func (c *Catalog) Has(locale, key string) bool {
	_, ok := c.messages[locale][key]
	return ok
}

// FromAcceptLanguage picks the first supported language of an Accept-Language header,
// honouring q-values. It returns "" when nothing matches or the header is malformed.
func (c *Catalog) FromAcceptLanguage(header string) string {
	tags, qs, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for i, tag := range tags {
		if qs[i] <= 0 {
			continue
		}
		if c.Supported(strings.ToLower(tag.String())) {
			return strings.ToLower(tag.String())
		}
		base, _ := tag.Base()
		if c.Supported(base.String()) {
			return base.String()
		}
	}
	return ""
}

// Money renders integer cents as a dollar amount, e.g. 8000 -> "$80.00".
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
