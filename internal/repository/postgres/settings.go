package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the stored settings, or the defaults when none have been saved yet.
func (r *settingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	s := &domain.Settings{}
	query := `SELECT weekly_price_cents, bond_cents, min_rental_weeks, contact_email, contact_phone, whatsapp_number, rentals_open, updated_on
	          FROM settings WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&s.WeeklyPriceCents, &s.BondCents, &s.MinRentalWeeks,
		&s.ContactEmail, &s.ContactPhone, &s.WhatsAppNumber, &s.RentalsOpen, &s.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		def := domain.DefaultSettings()
		return &def, nil
	}
	if err != nil {
		return nil, mapError(err, "get settings")
	}
	return s, nil
}

func (r *settingsRepository) Save(ctx context.Context, s *domain.Settings) error {
	logger.DatabaseCall("UPSERT", "settings")
	s.UpdatedOn = time.Now().UTC()
	query := `INSERT INTO settings (id, weekly_price_cents, bond_cents, min_rental_weeks, contact_email, contact_phone, whatsapp_number, rentals_open, updated_on)
	          VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO UPDATE SET weekly_price_cents = EXCLUDED.weekly_price_cents, bond_cents = EXCLUDED.bond_cents,
	          min_rental_weeks = EXCLUDED.min_rental_weeks, contact_email = EXCLUDED.contact_email, contact_phone = EXCLUDED.contact_phone,
	          whatsapp_number = EXCLUDED.whatsapp_number, rentals_open = EXCLUDED.rentals_open, updated_on = EXCLUDED.updated_on`
	_, err := r.db.ExecContext(ctx, query, s.WeeklyPriceCents, s.BondCents, s.MinRentalWeeks,
		s.ContactEmail, s.ContactPhone, s.WhatsAppNumber, s.RentalsOpen, s.UpdatedOn)
	return mapError(err, "save settings")
}
