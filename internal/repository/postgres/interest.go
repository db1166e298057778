package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type interestRepository struct {
	db *sql.DB
}

func NewInterestRepository(db *sql.DB) repository.InterestRepository {
	return &interestRepository{db: db}
}

const interestColumns = `id, name, email, phone, desired_start, desired_end, notes, status, locale, notified_on, created_on`

func scanInterest(row scanner) (*domain.InterestRegistration, error) {
	reg := &domain.InterestRegistration{}
	var notified sql.NullTime
	err := row.Scan(&reg.ID, &reg.Name, &reg.Email, &reg.Phone, &reg.DesiredStart, &reg.DesiredEnd,
		&reg.Notes, &reg.Status, &reg.Locale, &notified, &reg.CreatedOn)
	if err != nil {
		return nil, err
	}
	if notified.Valid {
		t := notified.Time
		reg.NotifiedOn = &t
	}
	return reg, nil
}

func (r *interestRepository) Create(ctx context.Context, reg *domain.InterestRegistration) error {
	logger.DatabaseCall("INSERT", "interest_registrations", "email", reg.Email)
	reg.CreatedOn = time.Now().UTC()
	if reg.Status == "" {
		reg.Status = domain.InterestStatusWaiting
	}
	query := `INSERT INTO interest_registrations (name, email, phone, desired_start, desired_end, notes, status, locale, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, reg.Name, reg.Email, reg.Phone, reg.DesiredStart, reg.DesiredEnd,
		reg.Notes, reg.Status, reg.Locale, reg.CreatedOn).Scan(&reg.ID)
	return mapError(err, "create interest registration")
}

func (r *interestRepository) GetByID(ctx context.Context, id int32) (*domain.InterestRegistration, error) {
	reg, err := scanInterest(r.db.QueryRowContext(ctx, `SELECT `+interestColumns+` FROM interest_registrations WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get interest registration")
	}
	return reg, nil
}

func (r *interestRepository) UpdateStatus(ctx context.Context, id int32, status domain.InterestStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE interest_registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return mapError(err, "update interest status")
	}
	return expectRow(res, "update interest status")
}

func (r *interestRepository) MarkNotified(ctx context.Context, id int32, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE interest_registrations SET notified_on = $1 WHERE id = $2`, at, id)
	if err != nil {
		return mapError(err, "mark interest notified")
	}
	return expectRow(res, "mark interest notified")
}

// List returns registrations oldest first. An empty status lists every registration.
func (r *interestRepository) List(ctx context.Context, status domain.InterestStatus) ([]domain.InterestRegistration, error) {
	query := `SELECT ` + interestColumns + ` FROM interest_registrations`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_on ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list interest registrations")
	}
	defer rows.Close()

	regs := []domain.InterestRegistration{}
	for rows.Next() {
		reg, err := scanInterest(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}
