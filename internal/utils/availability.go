package utils

import (
	"fmt"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

// MaxCalendarDays bounds the range accepted by Calendar.
const MaxCalendarDays = 366

// RangesOverlap reports whether the inclusive ranges [aStart, aEnd] and [bStart, bEnd] intersect.
func RangesOverlap(aStart, aEnd, bStart, bEnd domain.Date) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// ValidateRange checks that from is not after to.
func ValidateRange(from, to domain.Date) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", domain.ErrInvalidInput)
	}
	if from.After(to) {
		return fmt.Errorf("%w: from date %s is after to date %s", domain.ErrInvalidInput, from, to)
	}
	return nil
}

// ValidateCalendarRange checks [from, to] is a valid range of at most
// MaxCalendarDays days, both ends included.
func ValidateCalendarRange(from, to domain.Date) error {
	if err := ValidateRange(from, to); err != nil {
		return err
	}
	if span := from.DaysUntil(to) + 1; span > MaxCalendarDays {
		return fmt.Errorf("%w: range of %d days exceeds %d", domain.ErrInvalidInput, span, MaxCalendarDays)
	}
	return nil
}

// busyBikes returns the bikes held by a blocking booking overlapping [from, to],
// mapped to the first such booking.
func busyBikes(bookings []domain.RentalBooking, from, to domain.Date) map[int32]int32 {
	busy := make(map[int32]int32)
	for i := range bookings {
		b := &bookings[i]
		if !b.BlocksBike() || !b.Overlaps(from, to) {
			continue
		}
		if _, seen := busy[*b.BikeID]; !seen {
			busy[*b.BikeID] = b.ID
		}
	}
	return busy
}

// AvailableBikes returns the rentable bikes with no blocking booking in [from, to].
func AvailableBikes(bikes []domain.Bike, bookings []domain.RentalBooking, from, to domain.Date) ([]domain.Bike, error) {
	if err := ValidateRange(from, to); err != nil {
		return nil, err
	}
	busy := busyBikes(bookings, from, to)
	free := make([]domain.Bike, 0, len(bikes))
	for _, bike := range bikes {
		if !bike.Rentable() {
			continue
		}
		if _, taken := busy[bike.ID]; taken {
			continue
		}
		free = append(free, bike)
	}
	return free, nil
}

// BikeIsFree reports whether bikeID has no blocking booking in [from, to], ignoring the
// booking with id exceptBookingID (used when re-assigning an existing booking).
func BikeIsFree(bikeID int32, bookings []domain.RentalBooking, from, to domain.Date, exceptBookingID int32) bool {
	for i := range bookings {
		b := &bookings[i]
		if b.ID == exceptBookingID || b.BikeID == nil || *b.BikeID != bikeID {
			continue
		}
		if b.BlocksBike() && b.Overlaps(from, to) {
			return false
		}
	}
	return true
}

// CalendarDay is one cell of the availability calendar.
type CalendarDay struct {
	Date      domain.Date `json:"date"`
	BookingID *int32      `json:"booking_id,omitempty"`
}

// BikeCalendar is the per-day occupancy of one bike.
type BikeCalendar struct {
	BikeID   int32         `json:"bike_id"`
	BikeName string        `json:"bike_name"`
	Status   string        `json:"status"`
	FreeDays int           `json:"free_days"`
	Days     []CalendarDay `json:"days"`
}

// Calendar lays out the occupancy of every fleet bike across [from, to].
func Calendar(bikes []domain.Bike, bookings []domain.RentalBooking, from, to domain.Date) ([]BikeCalendar, error) {
	if err := ValidateCalendarRange(from, to); err != nil {
		return nil, err
	}
	span := from.DaysUntil(to) + 1

	byBike := make(map[int32][]*domain.RentalBooking)
	for i := range bookings {
		b := &bookings[i]
		if b.BlocksBike() && b.Overlaps(from, to) {
			byBike[*b.BikeID] = append(byBike[*b.BikeID], b)
		}
	}

	out := make([]BikeCalendar, 0, len(bikes))
	for _, bike := range bikes {
		if !bike.InFleet() {
			continue
		}
		cal := BikeCalendar{
			BikeID:   bike.ID,
			BikeName: bike.Name,
			Status:   string(bike.Status),
			Days:     make([]CalendarDay, span),
		}
		for d := 0; d < span; d++ {
			day := from.AddDays(d)
			cal.Days[d].Date = day
			for _, b := range byBike[bike.ID] {
				if b.Overlaps(day, day) {
					id := b.ID
					cal.Days[d].BookingID = &id
					break
				}
			}
			if cal.Days[d].BookingID == nil && bike.Rentable() {
				cal.FreeDays++
			}
		}
		out = append(out, cal)
	}
	return out, nil
}
