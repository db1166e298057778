package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/metrics"
	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

type rentalService struct {
	clock
	bookingRepo   repository.BookingRepository
	bikeRepo      repository.BikeRepository
	settingsRepo  repository.SettingsRepository
	interestRepo  repository.InterestRepository
	emailSvc      EmailService
	defaultLocale string
}

func NewRentalService(
	bookingRepo repository.BookingRepository,
	bikeRepo repository.BikeRepository,
	settingsRepo repository.SettingsRepository,
	interestRepo repository.InterestRepository,
	emailSvc EmailService,
	loc *time.Location,
	defaultLocale string,
) RentalService {
	return &rentalService{
		clock:         newClock(loc),
		bookingRepo:   bookingRepo,
		bikeRepo:      bikeRepo,
		settingsRepo:  settingsRepo,
		interestRepo:  interestRepo,
		emailSvc:      emailSvc,
		defaultLocale: defaultLocale,
	}
}

// freeBikes lists rental bikes with no blocking booking in [from, to].
func (s *rentalService) freeBikes(ctx context.Context, from, to domain.Date) ([]domain.Bike, error) {
	if err := utils.ValidateRange(from, to); err != nil {
		return nil, err
	}
	bikes, err := s.bikeRepo.List(ctx, domain.BikeCategoryRental)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.List(ctx, repository.BookingFilter{Statuses: blockingStatuses, From: from, To: to})
	if err != nil {
		return nil, err
	}
	return utils.AvailableBikes(bikes, bookings, from, to)
}

func (s *rentalService) AvailableCount(ctx context.Context, from, to domain.Date) (int, error) {
	free, err := s.freeBikes(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return len(free), nil
}

func (s *rentalService) validateRequest(req *RentalRequest, settings *domain.Settings) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := requireText("name", req.Name); err != nil {
		return err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	req.Email = email
	if err := requireText("phone", req.Phone); err != nil {
		return err
	}
	if err := utils.ValidateRange(req.StartDate, req.EndDate); err != nil {
		return err
	}
	if req.StartDate.Before(s.today()) {
		return invalid("start date %s is in the past", req.StartDate)
	}
	minWeeks := max(int(settings.MinRentalWeeks), 1)
	if minEnd := req.StartDate.AddDays(minWeeks*7 - 1); req.EndDate.Before(minEnd) {
		return invalid("the minimum rental is %d week(s): end date must be on or after %s", minWeeks, minEnd)
	}
	if req.Locale == "" {
		req.Locale = s.defaultLocale
	}
	return nil
}

// RequestRental turns a website request into a pending booking on the first free
// bike. When rentals are closed or no bike is free, the visitor joins the waiting list.
func (s *rentalService) RequestRental(ctx context.Context, req *RentalRequest) (*RentalRequestResult, error) {
	logger.EnterMethod("rentalService.RequestRental", "email", req.Email, "start", req.StartDate, "end", req.EndDate)
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequest(req, settings); err != nil {
		return nil, err
	}

	var free []domain.Bike
	if settings.RentalsOpen {
		if free, err = s.freeBikes(ctx, req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}

	// A concurrent request can take a bike between the availability check and
	// the insert; the database rejects the overlap and the next free bike is tried.
	var booking *domain.RentalBooking
	for _, bike := range free {
		bikeID := bike.ID
		candidate := &domain.RentalBooking{
			BikeID:          &bikeID,
			CustomerName:    req.Name,
			CustomerEmail:   req.Email,
			CustomerPhone:   req.Phone,
			Address:         strings.TrimSpace(req.Address),
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			WeeklyRateCents: settings.WeeklyPriceCents,
			BondCents:       settings.BondCents,
			BondStatus:      domain.BondStatusNotPaid,
			Status:          domain.BookingStatusPending,
			Notes:           strings.TrimSpace(req.Notes),
			Locale:          req.Locale,
		}
		err := s.bookingRepo.Create(ctx, candidate)
		if errors.Is(err, domain.ErrBikeUnavailable) {
			logger.InfoContext(ctx, "Bike taken concurrently, trying next", "bikeID", bikeID)
			continue
		}
		if err != nil {
			return nil, err
		}
		booking = candidate
		break
	}

	if booking == nil {
		reg := &domain.InterestRegistration{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			DesiredStart: req.StartDate,
			DesiredEnd:   req.EndDate,
			Notes:        req.Notes,
			Locale:       req.Locale,
		}
		if err := s.addToWaitlist(ctx, reg); err != nil {
			return nil, err
		}
		logger.ExitMethod("rentalService.RequestRental", "waitlisted", true, "registrationID", reg.ID)
		return &RentalRequestResult{Registration: reg, Waitlisted: true}, nil
	}
	metrics.BookingsCreated.WithLabelValues("web").Inc()

	_ = s.emailSvc.SendRentalRequestReceived(ctx, booking)
	_ = s.emailSvc.SendNewRentalRequest(ctx, booking)

	logger.ExitMethod("rentalService.RequestRental", "bookingID", booking.ID, "bikeID", *booking.BikeID)
	return &RentalRequestResult{Booking: booking}, nil
}

func (s *rentalService) RegisterInterest(ctx context.Context, reg *domain.InterestRegistration) error {
	reg.Name = strings.TrimSpace(reg.Name)
	if err := requireText("name", reg.Name); err != nil {
		return err
	}
	email, err := normalizeEmail(reg.Email)
	if err != nil {
		return err
	}
	reg.Email = email
	if err := utils.ValidateRange(reg.DesiredStart, reg.DesiredEnd); err != nil {
		return err
	}
	if reg.DesiredEnd.Before(s.today()) {
		return invalid("desired dates are in the past")
	}
	if reg.Locale == "" {
		reg.Locale = s.defaultLocale
	}
	return s.addToWaitlist(ctx, reg)
}

func (s *rentalService) addToWaitlist(ctx context.Context, reg *domain.InterestRegistration) error {
	reg.Status = domain.InterestStatusWaiting
	if err := s.interestRepo.Create(ctx, reg); err != nil {
		return err
	}
	metrics.WaitlistRegistrations.Inc()
	_ = s.emailSvc.SendWaitlistJoined(ctx, reg)
	return nil
}
