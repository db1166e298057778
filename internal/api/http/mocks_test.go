package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/service"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*domain.User, string, time.Time, error) {
	args := m.Called(ctx, email, password, userAgent, ip)
	if args.Get(0) == nil {
		return nil, "", time.Time{}, args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Get(2).(time.Time), args.Error(3)
}
func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.Session), args.Error(2)
}
func (m *MockAuthService) CreateAdmin(ctx context.Context, email, name, password string) (*domain.User, error) {
	args := m.Called(ctx, email, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

type MockBikeService struct{ mock.Mock }

func (m *MockBikeService) ListPublic(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bike), args.Error(1)
}
func (m *MockBikeService) ListBikes(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bike), args.Error(1)
}
func (m *MockBikeService) GetBike(ctx context.Context, id int32) (*domain.Bike, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bike), args.Error(1)
}
func (m *MockBikeService) CreateBike(ctx context.Context, bike *domain.Bike) error {
	return m.Called(ctx, bike).Error(0)
}
func (m *MockBikeService) UpdateBike(ctx context.Context, bike *domain.Bike) error {
	return m.Called(ctx, bike).Error(0)
}
func (m *MockBikeService) DeleteBike(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockBikeService) AddImage(ctx context.Context, id int32, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) view(args mock.Arguments) (*service.BookingView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}
func (m *MockBookingService) views(args mock.Arguments) ([]service.BookingView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BookingView), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, status domain.BookingStatus) ([]service.BookingView, error) {
	return m.views(m.Called(ctx, status))
}
func (m *MockBookingService) GetBooking(ctx context.Context, id int32) (*service.BookingView, error) {
	return m.view(m.Called(ctx, id))
}
func (m *MockBookingService) CreateBooking(ctx context.Context, booking *domain.RentalBooking) (*service.BookingView, error) {
	return m.view(m.Called(ctx, booking))
}
func (m *MockBookingService) UpdateBooking(ctx context.Context, booking *domain.RentalBooking) (*service.BookingView, error) {
	return m.view(m.Called(ctx, booking))
}
func (m *MockBookingService) DeleteBooking(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockBookingService) ChangeStatus(ctx context.Context, id int32, status domain.BookingStatus, bikeID *int32) (*service.BookingView, error) {
	return m.view(m.Called(ctx, id, status, bikeID))
}
func (m *MockBookingService) SetBond(ctx context.Context, id int32, status domain.BondStatus) (*service.BookingView, error) {
	return m.view(m.Called(ctx, id, status))
}
func (m *MockBookingService) SetContract(ctx context.Context, id int32, signed bool) (*service.BookingView, error) {
	return m.view(m.Called(ctx, id, signed))
}
func (m *MockBookingService) Calendar(ctx context.Context, from, to domain.Date) ([]utils.BikeCalendar, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.BikeCalendar), args.Error(1)
}
func (m *MockBookingService) Debtors(ctx context.Context) ([]service.BookingView, error) {
	return m.views(m.Called(ctx))
}

type MockRentalService struct{ mock.Mock }

func (m *MockRentalService) AvailableCount(ctx context.Context, from, to domain.Date) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}
func (m *MockRentalService) RequestRental(ctx context.Context, req *service.RentalRequest) (*service.RentalRequestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RentalRequestResult), args.Error(1)
}
func (m *MockRentalService) RegisterInterest(ctx context.Context, reg *domain.InterestRegistration) error {
	return m.Called(ctx, reg).Error(0)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) ListPayments(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) RecordPayment(ctx context.Context, payment *domain.Payment) (*utils.BookingLedger, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.BookingLedger), args.Error(1)
}
func (m *MockPaymentService) DeletePayment(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type MockSettingsService struct{ mock.Mock }

func (m *MockSettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}
func (m *MockSettingsService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

type MockInterestService struct{ mock.Mock }

func (m *MockInterestService) ListInterest(ctx context.Context, status domain.InterestStatus) ([]domain.InterestRegistration, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterestRegistration), args.Error(1)
}
func (m *MockInterestService) UpdateInterestStatus(ctx context.Context, id int32, status domain.InterestStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockDashboardService struct{ mock.Mock }

func (m *MockDashboardService) Stats(ctx context.Context) (*utils.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.DashboardStats), args.Error(1)
}

type MockInquiryService struct{ mock.Mock }

func (m *MockInquiryService) Submit(ctx context.Context, inquiry *domain.Inquiry) error {
	return m.Called(ctx, inquiry).Error(0)
}

type MockImageStorageService struct{ mock.Mock }

func (m *MockImageStorageService) GetUploadURL(ctx context.Context, bikeID int32, filename, contentType string) (string, string, int64, error) {
	args := m.Called(ctx, bikeID, filename, contentType)
	return args.String(0), args.String(1), args.Get(2).(int64), args.Error(3)
}
func (m *MockImageStorageService) ConfirmUpload(ctx context.Context, bikeID int32, key string) (string, error) {
	args := m.Called(ctx, bikeID, key)
	return args.String(0), args.Error(1)
}
