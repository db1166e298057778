package service

import (
	"context"
	"time"

	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

type dashboardService struct {
	clock
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	bikeRepo    repository.BikeRepository
}

func NewDashboardService(bookingRepo repository.BookingRepository, paymentRepo repository.PaymentRepository, bikeRepo repository.BikeRepository, loc *time.Location) DashboardService {
	return &dashboardService{
		clock:       newClock(loc),
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		bikeRepo:    bikeRepo,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*utils.DashboardStats, error) {
	bookings, err := s.bookingRepo.List(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, err
	}
	ids := make([]int32, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].ID
	}
	payments, err := s.paymentRepo.ListByBookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Payments = payments[bookings[i].ID]
	}
	bikes, err := s.bikeRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	stats := utils.Summarize(bookings, bikes, s.today())
	return &stats, nil
}
