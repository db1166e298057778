package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

func fleet() []domain.Bike {
	return []domain.Bike{
		{ID: 1, Name: "Bike 1", Category: domain.BikeCategoryRental, Status: domain.BikeStatusAvailable},
		{ID: 2, Name: "Bike 2", Category: domain.BikeCategoryRental, Status: domain.BikeStatusRented},
		{ID: 3, Name: "Bike 3", Category: domain.BikeCategoryRental, Status: domain.BikeStatusMaintenance},
		{ID: 4, Name: "Sale bike", Category: domain.BikeCategorySale, Status: domain.BikeStatusAvailable},
	}
}

func bookingFor(id, bikeID int32, start, end string, status domain.BookingStatus) domain.RentalBooking {
	return domain.RentalBooking{ID: id, BikeID: int32p(bikeID), StartDate: d(start), EndDate: d(end), Status: status}
}

func TestRangesOverlap(t *testing.T) {
	assert.True(t, RangesOverlap(d("2026-03-01"), d("2026-03-10"), d("2026-03-10"), d("2026-03-20")), "shared end day overlaps")
	assert.True(t, RangesOverlap(d("2026-03-05"), d("2026-03-06"), d("2026-03-01"), d("2026-03-10")), "contained range overlaps")
	assert.False(t, RangesOverlap(d("2026-03-01"), d("2026-03-09"), d("2026-03-10"), d("2026-03-20")))
	assert.False(t, RangesOverlap(d("2026-03-21"), d("2026-03-25"), d("2026-03-10"), d("2026-03-20")))
}

func TestAvailableBikes(t *testing.T) {
	bookings := []domain.RentalBooking{
		bookingFor(10, 2, "2026-03-01", "2026-03-31", domain.BookingStatusActive),
		bookingFor(11, 1, "2026-04-10", "2026-04-20", domain.BookingStatusConfirmed),
		bookingFor(12, 1, "2026-03-01", "2026-03-31", domain.BookingStatusCancelled),
	}

	t.Run("Cancelled bookings do not block", func(t *testing.T) {
		free, err := AvailableBikes(fleet(), bookings, d("2026-03-15"), d("2026-03-20"))
		require.NoError(t, err)
		require.Len(t, free, 1)
		assert.Equal(t, int32(1), free[0].ID)
	})

	t.Run("Overlapping confirmed booking blocks", func(t *testing.T) {
		free, err := AvailableBikes(fleet(), bookings, d("2026-04-01"), d("2026-04-10"))
		require.NoError(t, err)
		require.Len(t, free, 1)
		assert.Equal(t, int32(2), free[0].ID)
	})

	t.Run("Nothing free", func(t *testing.T) {
		free, err := AvailableBikes(fleet(), bookings, d("2026-03-30"), d("2026-04-15"))
		require.NoError(t, err)
		assert.Empty(t, free)
	})

	t.Run("Inverted range", func(t *testing.T) {
		_, err := AvailableBikes(fleet(), bookings, d("2026-04-15"), d("2026-04-01"))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestBikeIsFree(t *testing.T) {
	bookings := []domain.RentalBooking{
		bookingFor(10, 2, "2026-03-01", "2026-03-31", domain.BookingStatusActive),
	}
	assert.False(t, BikeIsFree(2, bookings, d("2026-03-10"), d("2026-04-10"), 0))
	assert.True(t, BikeIsFree(2, bookings, d("2026-03-10"), d("2026-04-10"), 10), "own booking is ignored")
	assert.True(t, BikeIsFree(1, bookings, d("2026-03-10"), d("2026-04-10"), 0))
}

func TestCalendar(t *testing.T) {
	bookings := []domain.RentalBooking{
		bookingFor(10, 1, "2026-03-03", "2026-03-04", domain.BookingStatusActive),
	}

	cal, err := Calendar(fleet(), bookings, d("2026-03-01"), d("2026-03-05"))
	require.NoError(t, err)
	require.Len(t, cal, 3, "sale bikes are not part of the fleet calendar")

	first := cal[0]
	assert.Equal(t, int32(1), first.BikeID)
	require.Len(t, first.Days, 5)
	assert.Nil(t, first.Days[1].BookingID)
	if assert.NotNil(t, first.Days[2].BookingID) {
		assert.Equal(t, int32(10), *first.Days[2].BookingID)
	}
	assert.Equal(t, 3, first.FreeDays)

	assert.Equal(t, 0, cal[2].FreeDays, "bikes in maintenance have no free days")

	_, err = Calendar(fleet(), nil, d("2026-01-01"), d("2027-06-01"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidateCalendarRange(t *testing.T) {
	from := d("2026-01-01")
	assert.NoError(t, ValidateCalendarRange(from, from))
	assert.NoError(t, ValidateCalendarRange(from, d("2027-01-01")), "366 days inclusive")
	assert.ErrorIs(t, ValidateCalendarRange(from, d("2027-01-02")), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateCalendarRange(from, d("2025-12-31")), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateCalendarRange(domain.Date{}, from), domain.ErrInvalidInput)
}
