package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

type rentalMocks struct {
	bookings *MockBookingRepo
	bikes    *MockBikeRepo
	settings *MockSettingsRepo
	interest *MockInterestRepo
	email    *MockEmailService
}

func newRentalService(now func() time.Time) (*rentalService, *rentalMocks) {
	m := &rentalMocks{
		bookings: new(MockBookingRepo),
		bikes:    new(MockBikeRepo),
		settings: new(MockSettingsRepo),
		interest: new(MockInterestRepo),
		email:    new(MockEmailService),
	}
	svc := NewRentalService(m.bookings, m.bikes, m.settings, m.interest, m.email, time.UTC, "es").(*rentalService)
	svc.now = now
	return svc, m
}

func openSettings() *domain.Settings {
	s := domain.DefaultSettings()
	s.MinRentalWeeks = 2
	return &s
}

func rentalRequest() *RentalRequest {
	return &RentalRequest{
		Name:      " Lucia ",
		Email:     "lucia@example.com",
		Phone:     "0411 111 111",
		StartDate: domain.NewDate(2026, 3, 2),
		EndDate:   domain.NewDate(2026, 3, 15),
		Locale:    "en",
	}
}

func TestRentalService_RequestRental(t *testing.T) {
	ctx := context.Background()
	fleet := []domain.Bike{
		*rentalBike(1, domain.BikeStatusAvailable),
		*rentalBike(2, domain.BikeStatusAvailable),
	}

	t.Run("Creates Pending Booking On Free Bike", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		taken := domain.RentalBooking{ID: 3, BikeID: bikeID(1), Status: domain.BookingStatusConfirmed,
			StartDate: domain.NewDate(2026, 3, 10), EndDate: domain.NewDate(2026, 4, 10)}

		m.settings.On("Get", ctx).Return(openSettings(), nil)
		m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
		m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return([]domain.RentalBooking{taken}, nil)
		m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.RentalBooking")).Return(nil)
		m.email.On("SendRentalRequestReceived", ctx, mock.AnythingOfType("*domain.RentalBooking")).Return(nil)
		m.email.On("SendNewRentalRequest", ctx, mock.AnythingOfType("*domain.RentalBooking")).Return(nil)

		res, err := svc.RequestRental(ctx, rentalRequest())
		require.NoError(t, err)
		assert.False(t, res.Waitlisted)
		require.NotNil(t, res.Booking)
		assert.Equal(t, int32(2), *res.Booking.BikeID)
		assert.Equal(t, domain.BookingStatusPending, res.Booking.Status)
		assert.Equal(t, "Lucia", res.Booking.CustomerName)
		assert.Equal(t, int64(8000), res.Booking.WeeklyRateCents)
		assert.Equal(t, int64(20000), res.Booking.BondCents)
		assert.Equal(t, "en", res.Booking.Locale)
		m.email.AssertExpectations(t)
		m.interest.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Waitlists When Fleet Is Booked", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		booked := []domain.RentalBooking{
			{ID: 3, BikeID: bikeID(1), Status: domain.BookingStatusActive, StartDate: domain.NewDate(2026, 2, 1), EndDate: domain.NewDate(2026, 3, 5)},
			{ID: 4, BikeID: bikeID(2), Status: domain.BookingStatusPending, StartDate: domain.NewDate(2026, 3, 14), EndDate: domain.NewDate(2026, 3, 20)},
		}

		m.settings.On("Get", ctx).Return(openSettings(), nil)
		m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
		m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return(booked, nil)
		m.interest.On("Create", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)
		m.email.On("SendWaitlistJoined", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)

		res, err := svc.RequestRental(ctx, rentalRequest())
		require.NoError(t, err)
		assert.True(t, res.Waitlisted)
		require.NotNil(t, res.Registration)
		assert.Equal(t, domain.InterestStatusWaiting, res.Registration.Status)
		assert.Equal(t, domain.NewDate(2026, 3, 2), res.Registration.DesiredStart)
		m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Waitlists When Rentals Closed", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		closed := openSettings()
		closed.RentalsOpen = false

		m.settings.On("Get", ctx).Return(closed, nil)
		m.interest.On("Create", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)
		m.email.On("SendWaitlistJoined", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)

		res, err := svc.RequestRental(ctx, rentalRequest())
		require.NoError(t, err)
		assert.True(t, res.Waitlisted)
		m.bikes.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("Email Failure Does Not Fail Request", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		m.settings.On("Get", ctx).Return(openSettings(), nil)
		m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
		m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return([]domain.RentalBooking{}, nil)
		m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.RentalBooking")).Return(nil)
		m.email.On("SendRentalRequestReceived", ctx, mock.Anything).Return(assert.AnError)
		m.email.On("SendNewRentalRequest", ctx, mock.Anything).Return(assert.AnError)

		res, err := svc.RequestRental(ctx, rentalRequest())
		require.NoError(t, err)
		assert.Equal(t, int32(1), *res.Booking.BikeID)
	})

	onBike := func(id int32) interface{} {
		return mock.MatchedBy(func(b *domain.RentalBooking) bool { return b.BikeID != nil && *b.BikeID == id })
	}

	t.Run("Moves To Next Bike When Taken Concurrently", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		m.settings.On("Get", ctx).Return(openSettings(), nil)
		m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
		m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return([]domain.RentalBooking{}, nil)
		m.bookings.On("Create", ctx, onBike(1)).Return(domain.ErrBikeUnavailable).Once()
		m.bookings.On("Create", ctx, onBike(2)).Return(nil).Once()
		m.email.On("SendRentalRequestReceived", ctx, mock.Anything).Return(nil)
		m.email.On("SendNewRentalRequest", ctx, mock.Anything).Return(nil)

		res, err := svc.RequestRental(ctx, rentalRequest())
		require.NoError(t, err)
		assert.False(t, res.Waitlisted)
		assert.Equal(t, int32(2), *res.Booking.BikeID)
		m.bookings.AssertExpectations(t)
	})

	t.Run("Waitlists When Every Free Bike Is Taken Concurrently", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		m.settings.On("Get", ctx).Return(openSettings(), nil)
		m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
		m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return([]domain.RentalBooking{}, nil)
		m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.RentalBooking")).Return(domain.ErrBikeUnavailable).Twice()
		m.interest.On("Create", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)
		m.email.On("SendWaitlistJoined", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)

		res, err := svc.RequestRental(ctx, rentalRequest())
		require.NoError(t, err)
		assert.True(t, res.Waitlisted)
		m.email.AssertNotCalled(t, "SendRentalRequestReceived", mock.Anything, mock.Anything)
	})

	t.Run("Repository Error Is Returned", func(t *testing.T) {
		svc, m := newRentalService(fixedNow(2026, 3, 1))
		m.settings.On("Get", ctx).Return(openSettings(), nil)
		m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
		m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return([]domain.RentalBooking{}, nil)
		m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.RentalBooking")).Return(assert.AnError).Once()

		_, err := svc.RequestRental(ctx, rentalRequest())
		assert.ErrorIs(t, err, assert.AnError)
		m.interest.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRentalService_RequestRentalValidation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		mutate func(r *RentalRequest)
	}{
		{"missing name", func(r *RentalRequest) { r.Name = "  " }},
		{"bad email", func(r *RentalRequest) { r.Email = "not-an-email" }},
		{"missing phone", func(r *RentalRequest) { r.Phone = "" }},
		{"start in the past", func(r *RentalRequest) { r.StartDate = domain.NewDate(2026, 2, 27) }},
		{"end before start", func(r *RentalRequest) { r.EndDate = domain.NewDate(2026, 3, 1) }},
		{"shorter than minimum", func(r *RentalRequest) { r.EndDate = domain.NewDate(2026, 3, 14) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newRentalService(fixedNow(2026, 3, 1))
			m.settings.On("Get", ctx).Return(openSettings(), nil)

			req := rentalRequest()
			tt.mutate(req)
			_, err := svc.RequestRental(ctx, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			m.interest.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRentalService_AvailableCount(t *testing.T) {
	ctx := context.Background()
	svc, m := newRentalService(fixedNow(2026, 3, 1))
	fleet := []domain.Bike{
		*rentalBike(1, domain.BikeStatusAvailable),
		*rentalBike(2, domain.BikeStatusMaintenance),
		*rentalBike(3, domain.BikeStatusRented),
	}
	m.bikes.On("List", ctx, domain.BikeCategoryRental).Return(fleet, nil)
	m.bookings.On("List", ctx, mock.AnythingOfType("repository.BookingFilter")).Return([]domain.RentalBooking{
		{ID: 1, BikeID: bikeID(3), Status: domain.BookingStatusCancelled, StartDate: domain.NewDate(2026, 3, 1), EndDate: domain.NewDate(2026, 3, 31)},
	}, nil)

	n, err := svc.AvailableCount(ctx, domain.NewDate(2026, 3, 2), domain.NewDate(2026, 3, 9))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.AvailableCount(ctx, domain.NewDate(2026, 3, 9), domain.NewDate(2026, 3, 2))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRentalService_RegisterInterest(t *testing.T) {
	ctx := context.Background()
	svc, m := newRentalService(fixedNow(2026, 3, 1))
	m.interest.On("Create", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)
	m.email.On("SendWaitlistJoined", ctx, mock.AnythingOfType("*domain.InterestRegistration")).Return(nil)

	reg := &domain.InterestRegistration{
		Name:         "Tom",
		Email:        "TOM@example.com",
		DesiredStart: domain.NewDate(2026, 4, 1),
		DesiredEnd:   domain.NewDate(2026, 4, 30),
	}
	require.NoError(t, svc.RegisterInterest(ctx, reg))
	assert.Equal(t, "tom@example.com", reg.Email)
	assert.Equal(t, "es", reg.Locale)
	assert.Equal(t, domain.InterestStatusWaiting, reg.Status)

	past := &domain.InterestRegistration{Name: "Tom", Email: "tom@example.com",
		DesiredStart: domain.NewDate(2026, 1, 1), DesiredEnd: domain.NewDate(2026, 1, 31)}
	assert.ErrorIs(t, svc.RegisterInterest(ctx, past), domain.ErrInvalidInput)
}
