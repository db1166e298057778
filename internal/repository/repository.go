package repository

import (
	"context"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

// BookingFilter narrows booking listings. Zero values mean "any".
type BookingFilter struct {
	Status   domain.BookingStatus
	Statuses []domain.BookingStatus
	BikeID   int32
	From     domain.Date
	To       domain.Date
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int32, at time.Time) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int32) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type BikeRepository interface {
	Create(ctx context.Context, bike *domain.Bike) error
	GetByID(ctx context.Context, id int32) (*domain.Bike, error)
	Update(ctx context.Context, bike *domain.Bike) error
	UpdateStatus(ctx context.Context, id int32, status domain.BikeStatus) error
	AddImage(ctx context.Context, id int32, url string) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.RentalBooking) error
	GetByID(ctx context.Context, id int32) (*domain.RentalBooking, error)
	Update(ctx context.Context, booking *domain.RentalBooking) error
	UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter BookingFilter) ([]domain.RentalBooking, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	Delete(ctx context.Context, id int32) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error)
	ListByBookings(ctx context.Context, bookingIDs []int32) (map[int32][]domain.Payment, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

type InterestRepository interface {
	Create(ctx context.Context, reg *domain.InterestRegistration) error
	GetByID(ctx context.Context, id int32) (*domain.InterestRegistration, error)
	UpdateStatus(ctx context.Context, id int32, status domain.InterestStatus) error
	MarkNotified(ctx context.Context, id int32, at time.Time) error
	List(ctx context.Context, status domain.InterestStatus) ([]domain.InterestRegistration, error)
}
