package service

import (
	"context"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

// BookingView is a booking with its payments and ledger computed as of today.
type BookingView struct {
	domain.RentalBooking
	BikeName string              `json:"bike_name,omitempty"`
	Ledger   utils.BookingLedger `json:"ledger"`
}

// RentalRequest is a rental form submission from the public site.
type RentalRequest struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
	Notes     string      `json:"notes"`
	Locale    string      `json:"locale"`
}

// RentalRequestResult reports whether a request became a pending booking or
// was put on the waiting list.
type RentalRequestResult struct {
	Booking      *domain.RentalBooking        `json:"booking,omitempty"`
	Registration *domain.InterestRegistration `json:"registration,omitempty"`
	Waitlisted   bool                         `json:"waitlisted"`
}

type AuthService interface {
	Login(ctx context.Context, email, password, userAgent, ip string) (*domain.User, string, time.Time, error) // user, token, expiresAt
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error)
	CreateAdmin(ctx context.Context, email, name, password string) (*domain.User, error)
	ResetPassword(ctx context.Context, email, password string) error
}

type BikeService interface {
	ListPublic(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error)
	ListBikes(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error)
	GetBike(ctx context.Context, id int32) (*domain.Bike, error)
	CreateBike(ctx context.Context, bike *domain.Bike) error
	UpdateBike(ctx context.Context, bike *domain.Bike) error
	DeleteBike(ctx context.Context, id int32) error
	AddImage(ctx context.Context, id int32, url string) error
}

type BookingService interface {
	ListBookings(ctx context.Context, status domain.BookingStatus) ([]BookingView, error)
	GetBooking(ctx context.Context, id int32) (*BookingView, error)
	CreateBooking(ctx context.Context, booking *domain.RentalBooking) (*BookingView, error)
	UpdateBooking(ctx context.Context, booking *domain.RentalBooking) (*BookingView, error)
	DeleteBooking(ctx context.Context, id int32) error
	ChangeStatus(ctx context.Context, id int32, status domain.BookingStatus, bikeID *int32) (*BookingView, error)
	SetBond(ctx context.Context, id int32, status domain.BondStatus) (*BookingView, error)
	SetContract(ctx context.Context, id int32, signed bool) (*BookingView, error)
	Calendar(ctx context.Context, from, to domain.Date) ([]utils.BikeCalendar, error)
	Debtors(ctx context.Context) ([]BookingView, error)
}

// RentalService is the public rental flow: availability, requests and the waiting list.
type RentalService interface {
	AvailableCount(ctx context.Context, from, to domain.Date) (int, error)
	RequestRental(ctx context.Context, req *RentalRequest) (*RentalRequestResult, error)
	RegisterInterest(ctx context.Context, reg *domain.InterestRegistration) error
}

type PaymentService interface {
	ListPayments(ctx context.Context, bookingID int32) ([]domain.Payment, error)
	RecordPayment(ctx context.Context, payment *domain.Payment) (*utils.BookingLedger, error)
	DeletePayment(ctx context.Context, id int32) error
}

type SettingsService interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, settings *domain.Settings) error
}

type InterestService interface {
	ListInterest(ctx context.Context, status domain.InterestStatus) ([]domain.InterestRegistration, error)
	UpdateInterestStatus(ctx context.Context, id int32, status domain.InterestStatus) error
}

type DashboardService interface {
	Stats(ctx context.Context) (*utils.DashboardStats, error)
}

type InquiryService interface {
	Submit(ctx context.Context, inquiry *domain.Inquiry) error
}

type ImageStorageService interface {
	// GetUploadURL returns the upload URL, the storage key and the URL's expiry (unix seconds).
	GetUploadURL(ctx context.Context, bikeID int32, filename, contentType string) (string, string, int64, error)
	// ConfirmUpload attaches the stored image to the bike and returns its download URL.
	ConfirmUpload(ctx context.Context, bikeID int32, key string) (string, error)
}

type EmailService interface {
	// Customer messages, localized to the booking or registration locale.
	SendRentalRequestReceived(ctx context.Context, booking *domain.RentalBooking) error
	SendBookingConfirmed(ctx context.Context, booking *domain.RentalBooking, bike *domain.Bike) error
	SendPaymentReceived(ctx context.Context, booking *domain.RentalBooking, payment *domain.Payment, ledger utils.BookingLedger) error
	SendPaymentReminder(ctx context.Context, booking *domain.RentalBooking, ledger utils.BookingLedger) error
	SendWaitlistJoined(ctx context.Context, reg *domain.InterestRegistration) error
	SendBikeAvailable(ctx context.Context, reg *domain.InterestRegistration) error
	SendInquiryAck(ctx context.Context, inquiry *domain.Inquiry) error

	// Business notifications
	SendNewRentalRequest(ctx context.Context, booking *domain.RentalBooking) error
	SendInquiry(ctx context.Context, inquiry *domain.Inquiry) error
}
