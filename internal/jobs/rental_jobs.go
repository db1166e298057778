package jobs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
)

type bookingBike struct {
	BookingID int32
	BikeID    sql.NullInt32
}

// updateBookings runs a status-changing UPDATE ... RETURNING id, bike_id and collects
// the rows before any further statement runs on the transaction.
func updateBookings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]bookingBike, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bookingBike
	for rows.Next() {
		var bb bookingBike
		if err := rows.Scan(&bb.BookingID, &bb.BikeID); err != nil {
			return nil, err
		}
		out = append(out, bb)
	}
	return out, rows.Err()
}

// ActivateBookings starts confirmed bookings whose rental period covers today and marks their bikes rented.
func (jr *JobRunner) ActivateBookings() {
	jr.runWithRecovery("ActivateBookings", func(ctx context.Context) error {
		today := jr.today()
		tx, err := jr.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		started, err := updateBookings(ctx, tx, `
			UPDATE rental_bookings
			SET status = 'active',
			    updated_on = NOW()
			WHERE status = 'confirmed'
			  AND start_date <= $1
			  AND end_date >= $1
			  AND bike_id IS NOT NULL
			RETURNING id, bike_id
		`, today)
		if err != nil {
			return fmt.Errorf("activate bookings: %w", err)
		}

		for _, b := range started {
			res, err := tx.ExecContext(ctx, `
				UPDATE bikes
				SET status = $1,
				    updated_on = NOW()
				WHERE id = $2
				  AND status = $3
			`, domain.BikeStatusRented, b.BikeID.Int32, domain.BikeStatusAvailable)
			if err != nil {
				return fmt.Errorf("mark bike %d rented: %w", b.BikeID.Int32, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				logger.WarnContext(ctx, "Bike was not available when its booking started",
					"booking_id", b.BookingID, "bike_id", b.BikeID.Int32)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}

		logger.InfoContext(ctx, "Activated bookings", "count", len(started), "today", today)
		return nil
	})
}

// CompleteBookings completes active bookings that ended before today. A bike goes back
// to available once no other active booking holds it.
func (jr *JobRunner) CompleteBookings() {
	jr.runWithRecovery("CompleteBookings", func(ctx context.Context) error {
		today := jr.today()
		tx, err := jr.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		finished, err := updateBookings(ctx, tx, `
			UPDATE rental_bookings
			SET status = 'completed',
			    updated_on = NOW()
			WHERE status = 'active'
			  AND end_date < $1
			RETURNING id, bike_id
		`, today)
		if err != nil {
			return fmt.Errorf("complete bookings: %w", err)
		}

		released := 0
		seen := make(map[int32]bool)
		for _, b := range finished {
			if !b.BikeID.Valid || seen[b.BikeID.Int32] {
				continue
			}
			seen[b.BikeID.Int32] = true
			res, err := tx.ExecContext(ctx, `
				UPDATE bikes
				SET status = $1,
				    updated_on = NOW()
				WHERE id = $2
				  AND status = $3
				  AND NOT EXISTS (
				      SELECT 1 FROM rental_bookings
				      WHERE bike_id = $2 AND status = 'active'
				  )
			`, domain.BikeStatusAvailable, b.BikeID.Int32, domain.BikeStatusRented)
			if err != nil {
				return fmt.Errorf("release bike %d: %w", b.BikeID.Int32, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				released++
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}

		logger.InfoContext(ctx, "Completed bookings", "count", len(finished), "bikes_released", released)
		return nil
	})
}
