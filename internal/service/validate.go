package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

// normalizeEmail trims and lowercases an address and checks it parses as a bare address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("invalid email %q", email)
	}
	return email, nil
}

// clock is embedded by services that need the business-local calendar date.
type clock struct {
	loc *time.Location
	now func() time.Time
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.UTC
	}
	return clock{loc: loc, now: time.Now}
}

func (c clock) today() domain.Date {
	return domain.DateOf(c.now(), c.loc)
}
