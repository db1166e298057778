package utils

import (
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

const daysPerWeek = 7

// BookingLedger is the money position of a booking as of a given day.
type BookingLedger struct {
	BookingID     int32        `json:"booking_id"`
	AsOf          domain.Date  `json:"as_of"`
	WeeksElapsed  int          `json:"weeks_elapsed"`
	TotalWeeks    int          `json:"total_weeks"`
	TotalDue      int64        `json:"total_due_cents"`
	TotalPaid     int64        `json:"total_paid_cents"`
	Debt          int64        `json:"debt_cents"`
	Credit        int64        `json:"credit_cents"`
	ContractValue int64        `json:"contract_value_cents"`
	Remaining     int64        `json:"remaining_cents"`
	NextDueDate   *domain.Date `json:"next_due_date,omitempty"`
}

// weeksFor rounds a day count up to whole weeks.
func weeksFor(days int) int {
	if days <= 0 {
		return 0
	}
	return (days + daysPerWeek - 1) / daysPerWeek
}

// ContractWeeks returns the number of weeks a booking covers. Both ends are inclusive,
// so a booking from Monday to the following Sunday is exactly one week.
func ContractWeeks(b *domain.RentalBooking) int {
	return weeksFor(b.StartDate.DaysUntil(b.EndDate) + 1)
}

// WeeksElapsed returns how many rental weeks have started as of today.
// A started week is charged in full. Pending and cancelled bookings never accrue.
func WeeksElapsed(b *domain.RentalBooking, today domain.Date) int {
	if b.Status == domain.BookingStatusPending || b.Status == domain.BookingStatusCancelled {
		return 0
	}
	if today.Before(b.StartDate) {
		return 0
	}
	effectiveEnd := domain.MinDate(today, b.EndDate)
	return weeksFor(b.StartDate.DaysUntil(effectiveEnd) + 1)
}

// TotalPaid sums the payments recorded against a booking.
func TotalPaid(payments []domain.Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.AmountCents
	}
	return total
}

// ComputeLedger derives due, paid and debt figures for a booking from its payments.
// Debt is never negative; overpayment is reported as credit.
func ComputeLedger(b *domain.RentalBooking, today domain.Date) BookingLedger {
	elapsed := WeeksElapsed(b, today)
	totalWeeks := ContractWeeks(b)
	due := int64(elapsed) * b.WeeklyRateCents
	paid := TotalPaid(b.Payments)
	contract := int64(totalWeeks) * b.WeeklyRateCents

	l := BookingLedger{
		BookingID:     b.ID,
		AsOf:          today,
		WeeksElapsed:  elapsed,
		TotalWeeks:    totalWeeks,
		TotalDue:      due,
		TotalPaid:     paid,
		Debt:          max(0, due-paid),
		Credit:        max(0, paid-due),
		ContractValue: contract,
		Remaining:     max(0, contract-paid),
	}

	if elapsed > 0 && elapsed < totalWeeks {
		if next := b.StartDate.AddDays(elapsed * daysPerWeek); next.Before(b.EndDate) {
			l.NextDueDate = &next
		}
	} else if elapsed == 0 && b.Status != domain.BookingStatusCancelled && b.Status != domain.BookingStatusCompleted {
		start := b.StartDate
		l.NextDueDate = &start
	}
	return l
}

// DashboardStats aggregates the admin dashboard figures.
type DashboardStats struct {
	AsOf              domain.Date `json:"as_of"`
	TotalRevenue      int64       `json:"total_revenue_cents"`
	RevenueThisMonth  int64       `json:"revenue_this_month_cents"`
	OutstandingDebt   int64       `json:"outstanding_debt_cents"`
	ActiveBookings    int         `json:"active_bookings"`
	PendingBookings   int         `json:"pending_bookings"`
	ConfirmedBookings int         `json:"confirmed_bookings"`
	BookingsWithDebt  int         `json:"bookings_with_debt"`
	BondsHeld         int64       `json:"bonds_held_cents"`
	FleetSize         int         `json:"fleet_size"`
	BikesAvailableNow int         `json:"bikes_available_now"`
	BikesRentedNow    int         `json:"bikes_rented_now"`
	Utilization       float64     `json:"utilization"`
}

// Summarize computes dashboard statistics over all bookings (with payments loaded) and bikes.
func Summarize(bookings []domain.RentalBooking, bikes []domain.Bike, today domain.Date) DashboardStats {
	stats := DashboardStats{AsOf: today}

	for i := range bookings {
		b := &bookings[i]
		for _, p := range b.Payments {
			stats.TotalRevenue += p.AmountCents
			if p.PaidOn.Year() == today.Year() && p.PaidOn.Month() == today.Month() {
				stats.RevenueThisMonth += p.AmountCents
			}
		}

		switch b.Status {
		case domain.BookingStatusActive:
			stats.ActiveBookings++
		case domain.BookingStatusPending:
			stats.PendingBookings++
		case domain.BookingStatusConfirmed:
			stats.ConfirmedBookings++
		}

		if b.BondStatus == domain.BondStatusPaid {
			stats.BondsHeld += b.BondCents
		}

		if l := ComputeLedger(b, today); l.Debt > 0 {
			stats.OutstandingDebt += l.Debt
			stats.BookingsWithDebt++
		}
	}

	rented := make(map[int32]bool)
	for i := range bookings {
		b := &bookings[i]
		if b.Status == domain.BookingStatusActive && b.BikeID != nil && b.Overlaps(today, today) {
			rented[*b.BikeID] = true
		}
	}
	for i := range bikes {
		bike := &bikes[i]
		if !bike.InFleet() {
			continue
		}
		stats.FleetSize++
		if rented[bike.ID] {
			stats.BikesRentedNow++
		} else if bike.Rentable() {
			stats.BikesAvailableNow++
		}
	}
	if stats.FleetSize > 0 {
		stats.Utilization = float64(stats.BikesRentedNow) / float64(stats.FleetSize)
	}
	return stats
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) domain.Date {
	return domain.DateOf(time.Now(), loc)
}
