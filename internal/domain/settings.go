package domain

import "time"

// Settings is the single row of business-wide rental settings.
type Settings struct {
	WeeklyPriceCents int64     `json:"weekly_price_cents"`
	BondCents        int64     `json:"bond_cents"`
	MinRentalWeeks   int32     `json:"min_rental_weeks"`
	ContactEmail     string    `json:"contact_email"`
	ContactPhone     string    `json:"contact_phone"`
	WhatsAppNumber   string    `json:"whatsapp_number"`
	RentalsOpen      bool      `json:"rentals_open"`
	UpdatedOn        time.Time `json:"updated_on"`
}

// DefaultSettings is used until an administrator saves settings for the first time.
func DefaultSettings() Settings {
	return Settings{
		WeeklyPriceCents: 8000,
		BondCents:        20000,
		MinRentalWeeks:   1,
		RentalsOpen:      true,
	}
}
