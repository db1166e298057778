package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, bike_id, customer_name, customer_email, customer_phone, address, start_date, end_date,
	weekly_rate_cents, bond_cents, bond_status, contract_signed, status, notes, locale, created_on, updated_on`

func scanBooking(row scanner) (*domain.RentalBooking, error) {
	b := &domain.RentalBooking{}
	var bikeID sql.NullInt32
	err := row.Scan(&b.ID, &bikeID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.Address, &b.StartDate, &b.EndDate,
		&b.WeeklyRateCents, &b.BondCents, &b.BondStatus, &b.ContractSigned, &b.Status, &b.Notes, &b.Locale, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if bikeID.Valid {
		id := bikeID.Int32
		b.BikeID = &id
	}
	return b, nil
}

func nullBikeID(id *int32) sql.NullInt32 {
	if id == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *id, Valid: true}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.RentalBooking) error {
	logger.DatabaseCall("INSERT", "rental_bookings", "email", b.CustomerEmail)
	now := time.Now().UTC()
	b.CreatedOn = now
	b.UpdatedOn = now
	query := `INSERT INTO rental_bookings (bike_id, customer_name, customer_email, customer_phone, address, start_date, end_date,
	          weekly_rate_cents, bond_cents, bond_status, contract_signed, status, notes, locale, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, nullBikeID(b.BikeID), b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Address,
		b.StartDate, b.EndDate, b.WeeklyRateCents, b.BondCents, b.BondStatus, b.ContractSigned, b.Status, b.Notes, b.Locale,
		b.CreatedOn, b.UpdatedOn).Scan(&b.ID)
	return mapError(err, "create booking")
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.RentalBooking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM rental_bookings WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get booking")
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.RentalBooking) error {
	logger.DatabaseCall("UPDATE", "rental_bookings", "id", b.ID)
	b.UpdatedOn = time.Now().UTC()
	query := `UPDATE rental_bookings SET bike_id=$1, customer_name=$2, customer_email=$3, customer_phone=$4, address=$5,
	          start_date=$6, end_date=$7, weekly_rate_cents=$8, bond_cents=$9, bond_status=$10, contract_signed=$11,
	          status=$12, notes=$13, locale=$14, updated_on=$15 WHERE id=$16`
	res, err := r.db.ExecContext(ctx, query, nullBikeID(b.BikeID), b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Address,
		b.StartDate, b.EndDate, b.WeeklyRateCents, b.BondCents, b.BondStatus, b.ContractSigned, b.Status, b.Notes, b.Locale,
		b.UpdatedOn, b.ID)
	if err != nil {
		return mapError(err, "update booking")
	}
	return expectRow(res, "update booking")
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	logger.DatabaseCall("UPDATE", "rental_bookings", "id", id, "status", status)
	res, err := r.db.ExecContext(ctx, `UPDATE rental_bookings SET status = $1, updated_on = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return mapError(err, "update booking status")
	}
	return expectRow(res, "update booking status")
}

func (r *bookingRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "rental_bookings", "id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_bookings WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete booking")
	}
	return expectRow(res, "delete booking")
}

// List returns bookings matching the filter ordered by start date. From/To select bookings
// whose inclusive range overlaps the window.
func (r *bookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.RentalBooking, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		add("status = ANY($%d)", pq.Array(statuses))
	}
	if f.BikeID != 0 {
		add("bike_id = $%d", f.BikeID)
	}
	if !f.To.IsZero() {
		add("start_date <= $%d", f.To)
	}
	if !f.From.IsZero() {
		add("end_date >= $%d", f.From)
	}

	query := `SELECT ` + bookingColumns + ` FROM rental_bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY start_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list bookings")
	}
	defer rows.Close()

	bookings := []domain.RentalBooking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
