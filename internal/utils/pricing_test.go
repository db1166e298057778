package utils

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

func d(s string) domain.Date {
	date, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return date
}

func int32p(v int32) *int32 { return &v }

func activeBooking(start, end string, rate int64, payments ...int64) *domain.RentalBooking {
	b := &domain.RentalBooking{
		ID:              1,
		BikeID:          int32p(7),
		StartDate:       d(start),
		EndDate:         d(end),
		WeeklyRateCents: rate,
		Status:          domain.BookingStatusActive,
	}
	for i, amt := range payments {
		b.Payments = append(b.Payments, domain.Payment{ID: int32(i + 1), BookingID: 1, AmountCents: amt, PaidOn: d(start)})
	}
	return b
}

func TestContractWeeks(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"single day", "2026-03-02", "2026-03-02", 1},
		{"exactly one week", "2026-03-02", "2026-03-08", 1},
		{"one week and a day", "2026-03-02", "2026-03-09", 2},
		{"four weeks", "2026-03-02", "2026-03-29", 4},
		{"across month end", "2026-01-26", "2026-02-08", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := activeBooking(tt.start, tt.end, 8000)
			assert.Equal(t, tt.expected, ContractWeeks(b))
		})
	}
}

func TestWeeksElapsed(t *testing.T) {
	b := activeBooking("2026-03-02", "2026-03-29", 8000)

	t.Run("Before start", func(t *testing.T) {
		assert.Equal(t, 0, WeeksElapsed(b, d("2026-03-01")))
	})

	t.Run("First day charges first week", func(t *testing.T) {
		assert.Equal(t, 1, WeeksElapsed(b, d("2026-03-02")))
	})

	t.Run("Last day of first week", func(t *testing.T) {
		assert.Equal(t, 1, WeeksElapsed(b, d("2026-03-08")))
	})

	t.Run("First day of second week", func(t *testing.T) {
		assert.Equal(t, 2, WeeksElapsed(b, d("2026-03-09")))
	})

	t.Run("Capped at end date", func(t *testing.T) {
		assert.Equal(t, 4, WeeksElapsed(b, d("2026-06-01")))
	})

	t.Run("Pending bookings do not accrue", func(t *testing.T) {
		pending := *b
		pending.Status = domain.BookingStatusPending
		assert.Equal(t, 0, WeeksElapsed(&pending, d("2026-03-20")))
	})

	t.Run("Cancelled bookings do not accrue", func(t *testing.T) {
		cancelled := *b
		cancelled.Status = domain.BookingStatusCancelled
		assert.Equal(t, 0, WeeksElapsed(&cancelled, d("2026-03-20")))
	})

	t.Run("Completed bookings keep accrued weeks", func(t *testing.T) {
		completed := *b
		completed.Status = domain.BookingStatusCompleted
		assert.Equal(t, 4, WeeksElapsed(&completed, d("2026-04-10")))
	})
}

func TestComputeLedger(t *testing.T) {
	t.Run("Partial payment leaves debt", func(t *testing.T) {
		b := activeBooking("2026-03-02", "2026-03-29", 8000, 8000, 3000)
		next := d("2026-03-16")

		got := ComputeLedger(b, d("2026-03-10"))
		want := BookingLedger{
			BookingID:     1,
			AsOf:          d("2026-03-10"),
			WeeksElapsed:  2,
			TotalWeeks:    4,
			TotalDue:      16000,
			TotalPaid:     11000,
			Debt:          5000,
			Credit:        0,
			ContractValue: 32000,
			Remaining:     21000,
			NextDueDate:   &next,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ComputeLedger mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Overpayment is credit never negative debt", func(t *testing.T) {
		b := activeBooking("2026-03-02", "2026-03-29", 8000, 20000)
		got := ComputeLedger(b, d("2026-03-03"))
		assert.Equal(t, int64(0), got.Debt)
		assert.Equal(t, int64(12000), got.Credit)
	})

	t.Run("Finished booking has no next due date", func(t *testing.T) {
		b := activeBooking("2026-03-02", "2026-03-08", 8000, 8000)
		got := ComputeLedger(b, d("2026-03-20"))
		assert.Nil(t, got.NextDueDate)
		assert.Equal(t, int64(0), got.Debt)
		assert.Equal(t, int64(0), got.Remaining)
	})

	t.Run("Week starting on the end date has no next due date", func(t *testing.T) {
		b := activeBooking("2026-03-02", "2026-03-09", 8000, 8000)
		got := ComputeLedger(b, d("2026-03-05"))
		assert.Equal(t, 1, got.WeeksElapsed)
		assert.Equal(t, 2, got.TotalWeeks)
		assert.Nil(t, got.NextDueDate)
	})

	t.Run("Next due date before the end date", func(t *testing.T) {
		b := activeBooking("2026-03-02", "2026-03-10", 8000)
		got := ComputeLedger(b, d("2026-03-05"))
		if assert.NotNil(t, got.NextDueDate) {
			assert.Equal(t, "2026-03-09", got.NextDueDate.String())
		}
	})

	t.Run("Future booking is due on its start date", func(t *testing.T) {
		b := activeBooking("2026-03-02", "2026-03-29", 8000)
		b.Status = domain.BookingStatusConfirmed
		got := ComputeLedger(b, d("2026-02-20"))
		if assert.NotNil(t, got.NextDueDate) {
			assert.Equal(t, "2026-03-02", got.NextDueDate.String())
		}
		assert.Equal(t, int64(0), got.TotalDue)
	})
}

func TestSummarize(t *testing.T) {
	today := d("2026-03-10")
	bikes := []domain.Bike{
		{ID: 7, Category: domain.BikeCategoryRental, Status: domain.BikeStatusRented},
		{ID: 8, Category: domain.BikeCategoryRental, Status: domain.BikeStatusAvailable},
		{ID: 9, Category: domain.BikeCategoryRental, Status: domain.BikeStatusMaintenance},
		{ID: 10, Category: domain.BikeCategoryRental, Status: domain.BikeStatusRetired},
		{ID: 11, Category: domain.BikeCategorySale, Status: domain.BikeStatusAvailable},
	}

	active := activeBooking("2026-03-02", "2026-03-29", 8000, 8000)
	active.BondCents = 20000
	active.BondStatus = domain.BondStatusPaid
	active.Payments[0].PaidOn = d("2026-03-02")

	old := activeBooking("2026-01-05", "2026-01-18", 8000, 16000)
	old.ID = 2
	old.BikeID = int32p(8)
	old.Status = domain.BookingStatusCompleted
	old.BondStatus = domain.BondStatusReturned
	old.Payments[0].PaidOn = d("2026-01-05")

	pending := activeBooking("2026-04-01", "2026-04-30", 8000)
	pending.ID = 3
	pending.BikeID = nil
	pending.Status = domain.BookingStatusPending

	stats := Summarize([]domain.RentalBooking{*active, *old, *pending}, bikes, today)

	assert.Equal(t, int64(24000), stats.TotalRevenue)
	assert.Equal(t, int64(8000), stats.RevenueThisMonth)
	assert.Equal(t, int64(8000), stats.OutstandingDebt)
	assert.Equal(t, 1, stats.BookingsWithDebt)
	assert.Equal(t, 1, stats.ActiveBookings)
	assert.Equal(t, 1, stats.PendingBookings)
	assert.Equal(t, int64(20000), stats.BondsHeld)
	assert.Equal(t, 3, stats.FleetSize)
	assert.Equal(t, 1, stats.BikesRentedNow)
	assert.Equal(t, 1, stats.BikesAvailableNow)
	assert.InDelta(t, 1.0/3.0, stats.Utilization, 0.0001)
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	today := Today(loc)
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, time.UTC, today.Location())
}
