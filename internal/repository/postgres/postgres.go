package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

// Postgres error codes mapped onto domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqExclusionViolation  = "23P01"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.SessionRepository
	repository.BikeRepository
	repository.BookingRepository
	repository.PaymentRepository
	repository.SettingsRepository
	repository.InterestRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		SessionRepository:  NewSessionRepository(db),
		BikeRepository:     NewBikeRepository(db),
		BookingRepository:  NewBookingRepository(db),
		PaymentRepository:  NewPaymentRepository(db),
		SettingsRepository: NewSettingsRepository(db),
		InterestRepository: NewInterestRepository(db),
	}
}

// DB exposes the underlying handle for jobs that run set-based statements.
func (s *Store) DB() *sql.DB {
	return s.db
}

type scanner interface {
	Scan(dest ...any) error
}

// mapError translates driver errors into domain errors, keeping the original in the chain.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", what, domain.ErrConflict, pqErr.Message)
		case pqCheckViolation:
			return fmt.Errorf("%s: %w: %s", what, domain.ErrInvalidInput, pqErr.Message)
		case pqExclusionViolation:
			return fmt.Errorf("%s: %w", what, domain.ErrBikeUnavailable)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// expectRow turns a zero-rows-affected result into ErrNotFound.
func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
