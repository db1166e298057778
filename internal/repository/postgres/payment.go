package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, paid_on, method, reference, notes, created_on`

func scanPayment(row scanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	if err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaidOn, &p.Method, &p.Reference, &p.Notes, &p.CreatedOn); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	logger.DatabaseCall("INSERT", "payments", "booking_id", p.BookingID, "amount_cents", p.AmountCents)
	p.CreatedOn = time.Now().UTC()
	query := `INSERT INTO payments (booking_id, amount_cents, paid_on, method, reference, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.BookingID, p.AmountCents, p.PaidOn, p.Method, p.Reference, p.Notes, p.CreatedOn).Scan(&p.ID)
	return mapError(err, "create payment")
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get payment")
	}
	return p, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "payments", "id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete payment")
	}
	return expectRow(res, "delete payment")
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY paid_on ASC, id ASC`, bookingID)
	if err != nil {
		return nil, mapError(err, "list payments")
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// ListByBookings loads the payments of many bookings in one query, keyed by booking id.
func (r *paymentRepository) ListByBookings(ctx context.Context, bookingIDs []int32) (map[int32][]domain.Payment, error) {
	out := make(map[int32][]domain.Payment, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}
	ids := make([]int64, len(bookingIDs))
	for i, id := range bookingIDs {
		ids[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = ANY($1) ORDER BY paid_on ASC, id ASC`, pq.Array(ids))
	if err != nil {
		return nil, mapError(err, "list payments")
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out[p.BookingID] = append(out[p.BookingID], *p)
	}
	return out, rows.Err()
}
