package service

import (
	"context"
	"strings"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettings saves new defaults. Existing bookings keep the rate and bond they were created with.
func (s *settingsService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	if settings.WeeklyPriceCents <= 0 {
		return invalid("weekly price must be greater than zero")
	}
	if settings.BondCents < 0 {
		return invalid("bond cannot be negative")
	}
	if settings.MinRentalWeeks < 1 {
		return invalid("minimum rental must be at least one week")
	}
	if settings.ContactEmail != "" {
		email, err := normalizeEmail(settings.ContactEmail)
		if err != nil {
			return err
		}
		settings.ContactEmail = email
	}
	settings.ContactPhone = strings.TrimSpace(settings.ContactPhone)
	settings.WhatsAppNumber = strings.TrimSpace(settings.WhatsAppNumber)

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return err
	}
	logger.Info("Settings updated", "weeklyPriceCents", settings.WeeklyPriceCents, "bondCents", settings.BondCents, "rentalsOpen", settings.RentalsOpen)
	return nil
}
