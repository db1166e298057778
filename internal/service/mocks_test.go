package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) TouchLastLogin(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteByUser(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockBikeRepo
type MockBikeRepo struct {
	mock.Mock
}

func (m *MockBikeRepo) Create(ctx context.Context, bike *domain.Bike) error {
	args := m.Called(ctx, bike)
	return args.Error(0)
}
func (m *MockBikeRepo) GetByID(ctx context.Context, id int32) (*domain.Bike, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bike), args.Error(1)
}
func (m *MockBikeRepo) Update(ctx context.Context, bike *domain.Bike) error {
	args := m.Called(ctx, bike)
	return args.Error(0)
}
func (m *MockBikeRepo) UpdateStatus(ctx context.Context, id int32, status domain.BikeStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBikeRepo) AddImage(ctx context.Context, id int32, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}
func (m *MockBikeRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBikeRepo) List(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]domain.Bike), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.RentalBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.RentalBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalBooking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, booking *domain.RentalBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]domain.RentalBooking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalBooking), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByBookings(ctx context.Context, bookingIDs []int32) (map[int32][]domain.Payment, error) {
	args := m.Called(ctx, bookingIDs)
	return args.Get(0).(map[int32][]domain.Payment), args.Error(1)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}
func (m *MockSettingsRepo) Save(ctx context.Context, settings *domain.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockInterestRepo
type MockInterestRepo struct {
	mock.Mock
}

func (m *MockInterestRepo) Create(ctx context.Context, reg *domain.InterestRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockInterestRepo) GetByID(ctx context.Context, id int32) (*domain.InterestRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestRegistration), args.Error(1)
}
func (m *MockInterestRepo) UpdateStatus(ctx context.Context, id int32, status domain.InterestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockInterestRepo) MarkNotified(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockInterestRepo) List(ctx context.Context, status domain.InterestStatus) ([]domain.InterestRegistration, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.InterestRegistration), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalRequestReceived(ctx context.Context, booking *domain.RentalBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmed(ctx context.Context, booking *domain.RentalBooking, bike *domain.Bike) error {
	args := m.Called(ctx, booking, bike)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceived(ctx context.Context, booking *domain.RentalBooking, payment *domain.Payment, ledger utils.BookingLedger) error {
	args := m.Called(ctx, booking, payment, ledger)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReminder(ctx context.Context, booking *domain.RentalBooking, ledger utils.BookingLedger) error {
	args := m.Called(ctx, booking, ledger)
	return args.Error(0)
}
func (m *MockEmailService) SendWaitlistJoined(ctx context.Context, reg *domain.InterestRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockEmailService) SendBikeAvailable(ctx context.Context, reg *domain.InterestRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockEmailService) SendInquiryAck(ctx context.Context, inquiry *domain.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}
func (m *MockEmailService) SendNewRentalRequest(ctx context.Context, booking *domain.RentalBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockEmailService) SendInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

// captureMailer records every message instead of delivering it.
type captureMailer struct {
	mu   sync.Mutex
	sent []*Mail
	err  error
}

func (c *captureMailer) Send(_ context.Context, m *Mail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *captureMailer) last() *Mail {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return nil
	}
	return c.sent[len(c.sent)-1]
}

func fixedNow(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

func bikeID(id int32) *int32 { return &id }
