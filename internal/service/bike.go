package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type bikeService struct {
	bikeRepo    repository.BikeRepository
	bookingRepo repository.BookingRepository
}

func NewBikeService(bikeRepo repository.BikeRepository, bookingRepo repository.BookingRepository) BikeService {
	return &bikeService{
		bikeRepo:    bikeRepo,
		bookingRepo: bookingRepo,
	}
}

// ListPublic lists bikes shown on the website: sold and retired bikes are hidden.
func (s *bikeService) ListPublic(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error) {
	if category != "" && !category.Valid() {
		return nil, invalid("unknown category %q", category)
	}
	bikes, err := s.bikeRepo.List(ctx, category)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Bike, 0, len(bikes))
	for _, b := range bikes {
		if b.Status == domain.BikeStatusSold || b.Status == domain.BikeStatusRetired {
			continue
		}
		visible = append(visible, b)
	}
	return visible, nil
}

func (s *bikeService) ListBikes(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error) {
	if category != "" && !category.Valid() {
		return nil, invalid("unknown category %q", category)
	}
	return s.bikeRepo.List(ctx, category)
}

func (s *bikeService) GetBike(ctx context.Context, id int32) (*domain.Bike, error) {
	return s.bikeRepo.GetByID(ctx, id)
}

func validateBike(b *domain.Bike) error {
	b.Name = strings.TrimSpace(b.Name)
	if err := requireText("name", b.Name); err != nil {
		return err
	}
	if !b.Category.Valid() {
		return invalid("unknown category %q", b.Category)
	}
	if b.Status == "" {
		b.Status = domain.BikeStatusAvailable
	}
	if !b.Status.Valid() {
		return invalid("unknown status %q", b.Status)
	}
	if b.WeeklyPriceCents < 0 || b.SalePriceCents < 0 {
		return invalid("prices cannot be negative")
	}
	if b.BatteryWh < 0 || b.RangeKm < 0 {
		return invalid("battery and range cannot be negative")
	}
	return nil
}

func (s *bikeService) CreateBike(ctx context.Context, b *domain.Bike) error {
	logger.EnterMethod("bikeService.CreateBike", "name", b.Name, "category", b.Category)
	if err := validateBike(b); err != nil {
		return err
	}
	if err := s.bikeRepo.Create(ctx, b); err != nil {
		return err
	}
	logger.ExitMethod("bikeService.CreateBike", "bikeID", b.ID)
	return nil
}

// UpdateBike replaces the editable fields. Images are managed through uploads,
// so an update without images keeps the current gallery.
func (s *bikeService) UpdateBike(ctx context.Context, b *domain.Bike) error {
	if err := validateBike(b); err != nil {
		return err
	}
	existing, err := s.bikeRepo.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if b.ImageURLs == nil {
		b.ImageURLs = existing.ImageURLs
	}
	b.CreatedOn = existing.CreatedOn
	return s.bikeRepo.Update(ctx, b)
}

// DeleteBike refuses to delete a bike that still has pending, confirmed or active bookings.
func (s *bikeService) DeleteBike(ctx context.Context, id int32) error {
	if _, err := s.bikeRepo.GetByID(ctx, id); err != nil {
		return err
	}
	bookings, err := s.bookingRepo.List(ctx, repository.BookingFilter{BikeID: id})
	if err != nil {
		return err
	}
	for i := range bookings {
		if bookings[i].BlocksBike() {
			return fmt.Errorf("%w: bike %d has open booking %d", domain.ErrConflict, id, bookings[i].ID)
		}
	}
	logger.Info("Deleting bike", "bikeID", id)
	return s.bikeRepo.Delete(ctx, id)
}

func (s *bikeService) AddImage(ctx context.Context, id int32, url string) error {
	if err := requireText("url", url); err != nil {
		return err
	}
	return s.bikeRepo.AddImage(ctx, id, url)
}
