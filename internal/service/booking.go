package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/metrics"
	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

// blockingStatuses are the statuses that can hold a bike.
var blockingStatuses = []domain.BookingStatus{
	domain.BookingStatusPending,
	domain.BookingStatusConfirmed,
	domain.BookingStatusActive,
}

type bookingService struct {
	clock
	bookingRepo   repository.BookingRepository
	paymentRepo   repository.PaymentRepository
	bikeRepo      repository.BikeRepository
	settingsRepo  repository.SettingsRepository
	emailSvc      EmailService
	defaultLocale string
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	bikeRepo repository.BikeRepository,
	settingsRepo repository.SettingsRepository,
	emailSvc EmailService,
	loc *time.Location,
	defaultLocale string,
) BookingService {
	return &bookingService{
		clock:         newClock(loc),
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		bikeRepo:      bikeRepo,
		settingsRepo:  settingsRepo,
		emailSvc:      emailSvc,
		defaultLocale: defaultLocale,
	}
}

// views attaches payments, bike names and ledgers to bookings.
func (s *bookingService) views(ctx context.Context, bookings []domain.RentalBooking) ([]BookingView, error) {
	ids := make([]int32, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].ID
	}
	payments, err := s.paymentRepo.ListByBookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	bikes, err := s.bikeRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[int32]string, len(bikes))
	for _, b := range bikes {
		names[b.ID] = b.Name
	}

	today := s.today()
	out := make([]BookingView, len(bookings))
	for i := range bookings {
		b := bookings[i]
		b.Payments = payments[b.ID]
		if b.Payments == nil {
			b.Payments = []domain.Payment{}
		}
		out[i] = BookingView{RentalBooking: b, Ledger: utils.ComputeLedger(&b, today)}
		if b.BikeID != nil {
			out[i].BikeName = names[*b.BikeID]
		}
	}
	return out, nil
}

func (s *bookingService) view(ctx context.Context, b *domain.RentalBooking) (*BookingView, error) {
	views, err := s.views(ctx, []domain.RentalBooking{*b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *bookingService) ListBookings(ctx context.Context, status domain.BookingStatus) ([]BookingView, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	bookings, err := s.bookingRepo.List(ctx, repository.BookingFilter{Status: status})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings)
}

func (s *bookingService) GetBooking(ctx context.Context, id int32) (*BookingView, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b)
}

func (s *bookingService) validate(b *domain.RentalBooking) error {
	b.CustomerName = strings.TrimSpace(b.CustomerName)
	if err := requireText("customer_name", b.CustomerName); err != nil {
		return err
	}
	email, err := normalizeEmail(b.CustomerEmail)
	if err != nil {
		return err
	}
	b.CustomerEmail = email
	if err := utils.ValidateRange(b.StartDate, b.EndDate); err != nil {
		return err
	}
	if b.WeeklyRateCents < 0 || b.BondCents < 0 {
		return invalid("rate and bond cannot be negative")
	}
	if b.Locale == "" {
		b.Locale = s.defaultLocale
	}
	if (b.Status == domain.BookingStatusConfirmed || b.Status == domain.BookingStatusActive) && b.BikeID == nil {
		return invalid("a bike must be assigned to a %s booking", b.Status)
	}
	return nil
}

// ensureBikeFree checks the bike exists, can be rented and has no other blocking
// booking overlapping b's dates.
func (s *bookingService) ensureBikeFree(ctx context.Context, b *domain.RentalBooking) (*domain.Bike, error) {
	if b.BikeID == nil {
		return nil, nil
	}
	bike, err := s.bikeRepo.GetByID(ctx, *b.BikeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalid("bike %d does not exist", *b.BikeID)
		}
		return nil, err
	}
	if !b.BlocksBike() {
		return bike, nil
	}
	if !bike.Rentable() {
		return nil, fmt.Errorf("%w: bike %d is %s", domain.ErrBikeUnavailable, bike.ID, bike.Status)
	}
	others, err := s.bookingRepo.List(ctx, repository.BookingFilter{
		BikeID:   bike.ID,
		Statuses: blockingStatuses,
		From:     b.StartDate,
		To:       b.EndDate,
	})
	if err != nil {
		return nil, err
	}
	if !utils.BikeIsFree(bike.ID, others, b.StartDate, b.EndDate, b.ID) {
		return nil, fmt.Errorf("%w: bike %d is booked between %s and %s", domain.ErrBikeUnavailable, bike.ID, b.StartDate, b.EndDate)
	}
	return bike, nil
}

// releaseBike marks a bike available again unless another active booking holds it.
func (s *bookingService) releaseBike(ctx context.Context, bikeID, exceptBookingID int32) error {
	active, err := s.bookingRepo.List(ctx, repository.BookingFilter{BikeID: bikeID, Status: domain.BookingStatusActive})
	if err != nil {
		return err
	}
	for _, other := range active {
		if other.ID != exceptBookingID {
			return nil
		}
	}
	bike, err := s.bikeRepo.GetByID(ctx, bikeID)
	if err != nil {
		return err
	}
	if bike.Status != domain.BikeStatusRented {
		return nil
	}
	return s.bikeRepo.UpdateStatus(ctx, bikeID, domain.BikeStatusAvailable)
}

func (s *bookingService) CreateBooking(ctx context.Context, b *domain.RentalBooking) (*BookingView, error) {
	logger.EnterMethod("bookingService.CreateBooking", "email", b.CustomerEmail)
	if b.Status == "" {
		b.Status = domain.BookingStatusPending
	}
	if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusActive {
		return nil, invalid("a new booking cannot be %q", b.Status)
	}
	if b.BondStatus == "" {
		b.BondStatus = domain.BondStatusNotPaid
	}
	if !b.BondStatus.Valid() {
		return nil, invalid("unknown bond status %q", b.BondStatus)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if b.WeeklyRateCents == 0 {
		b.WeeklyRateCents = settings.WeeklyPriceCents
	}
	if b.BondCents == 0 {
		b.BondCents = settings.BondCents
	}
	if err := s.validate(b); err != nil {
		return nil, err
	}
	if _, err := s.ensureBikeFree(ctx, b); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	if b.Status == domain.BookingStatusActive {
		if err := s.bikeRepo.UpdateStatus(ctx, *b.BikeID, domain.BikeStatusRented); err != nil {
			return nil, err
		}
	}
	metrics.BookingsCreated.WithLabelValues("admin").Inc()
	logger.ExitMethod("bookingService.CreateBooking", "bookingID", b.ID)
	return s.view(ctx, b)
}

// UpdateBooking edits customer details, dates, bike, rate and bond. Status, bond
// status and contract have their own operations and are kept as stored.
func (s *bookingService) UpdateBooking(ctx context.Context, b *domain.RentalBooking) (*BookingView, error) {
	existing, err := s.bookingRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Status = existing.Status
	b.BondStatus = existing.BondStatus
	b.ContractSigned = existing.ContractSigned
	b.CreatedOn = existing.CreatedOn
	if err := s.validate(b); err != nil {
		return nil, err
	}
	if _, err := s.ensureBikeFree(ctx, b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if b.Status == domain.BookingStatusActive && !sameBike(existing.BikeID, b.BikeID) {
		if existing.BikeID != nil {
			if err := s.releaseBike(ctx, *existing.BikeID, b.ID); err != nil {
				return nil, err
			}
		}
		if err := s.bikeRepo.UpdateStatus(ctx, *b.BikeID, domain.BikeStatusRented); err != nil {
			return nil, err
		}
	}
	return s.GetBooking(ctx, b.ID)
}

func sameBike(a, b *int32) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *bookingService) DeleteBooking(ctx context.Context, id int32) error {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}
	if b.Status == domain.BookingStatusActive && b.BikeID != nil {
		return s.releaseBike(ctx, *b.BikeID, id)
	}
	return nil
}

// ChangeStatus moves a booking along pending -> confirmed -> active -> completed
// (or to cancelled before it starts), optionally assigning a bike on the way.
func (s *bookingService) ChangeStatus(ctx context.Context, id int32, status domain.BookingStatus, bikeID *int32) (*BookingView, error) {
	logger.EnterMethod("bookingService.ChangeStatus", "bookingID", id, "status", status)
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s", domain.ErrConflict, b.Status, status)
	}

	previous := b.Status
	if bikeID != nil {
		b.BikeID = bikeID
	}
	b.Status = status
	if err := s.validate(b); err != nil {
		return nil, err
	}
	bike, err := s.ensureBikeFree(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	switch status {
	case domain.BookingStatusConfirmed:
		_ = s.emailSvc.SendBookingConfirmed(ctx, b, bike)
	case domain.BookingStatusActive:
		if err := s.bikeRepo.UpdateStatus(ctx, *b.BikeID, domain.BikeStatusRented); err != nil {
			return nil, err
		}
	case domain.BookingStatusCompleted, domain.BookingStatusCancelled:
		if previous == domain.BookingStatusActive && b.BikeID != nil {
			if err := s.releaseBike(ctx, *b.BikeID, b.ID); err != nil {
				return nil, err
			}
		}
	}

	logger.ExitMethod("bookingService.ChangeStatus", "bookingID", id, "from", previous, "to", status)
	return s.view(ctx, b)
}

func (s *bookingService) SetBond(ctx context.Context, id int32, status domain.BondStatus) (*BookingView, error) {
	if !status.Valid() {
		return nil, invalid("unknown bond status %q", status)
	}
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.BondStatus != status {
		if !b.BondStatus.CanAdvanceTo(status) {
			return nil, fmt.Errorf("%w: bond cannot move from %s to %s", domain.ErrConflict, b.BondStatus, status)
		}
		b.BondStatus = status
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, b)
}

func (s *bookingService) SetContract(ctx context.Context, id int32, signed bool) (*BookingView, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ContractSigned != signed {
		b.ContractSigned = signed
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, b)
}

func (s *bookingService) Calendar(ctx context.Context, from, to domain.Date) ([]utils.BikeCalendar, error) {
	if err := utils.ValidateCalendarRange(from, to); err != nil {
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
	return utils.Calendar(bikes, bookings, from, to)
}

// Debtors returns the active bookings that owe money today, largest debt first.
func (s *bookingService) Debtors(ctx context.Context) ([]BookingView, error) {
	bookings, err := s.bookingRepo.List(ctx, repository.BookingFilter{Status: domain.BookingStatusActive})
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, bookings)
	if err != nil {
		return nil, err
	}
	debtors := make([]BookingView, 0, len(views))
	for _, v := range views {
		if v.Ledger.Debt > 0 {
			debtors = append(debtors, v)
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].Ledger.Debt > debtors[j].Ledger.Debt })
	return debtors, nil
}
