package service

import (
	"context"
	"strings"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/metrics"
	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

type paymentService struct {
	clock
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	emailSvc    EmailService
}

func NewPaymentService(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository, emailSvc EmailService, loc *time.Location) PaymentService {
	return &paymentService{
		clock:       newClock(loc),
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		emailSvc:    emailSvc,
	}
}

func (s *paymentService) ListPayments(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}

// RecordPayment stores a payment and returns the booking's ledger including it.
// Payments beyond the amount due are accepted and show as credit.
func (s *paymentService) RecordPayment(ctx context.Context, p *domain.Payment) (*utils.BookingLedger, error) {
	logger.EnterMethod("paymentService.RecordPayment", "bookingID", p.BookingID, "amount", p.AmountCents)
	if p.AmountCents <= 0 {
		return nil, invalid("amount must be greater than zero")
	}
	if p.Method == "" {
		p.Method = domain.PaymentMethodCash
	}
	if !p.Method.Valid() {
		return nil, invalid("unknown payment method %q", p.Method)
	}
	if p.PaidOn.IsZero() {
		p.PaidOn = s.today()
	}
	p.Reference = strings.TrimSpace(p.Reference)

	booking, err := s.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		logger.ExitMethodWithError("paymentService.RecordPayment", err, "bookingID", p.BookingID)
		return nil, err
	}
	metrics.PaymentsRecorded.Inc()
	metrics.PaymentCents.Add(float64(p.AmountCents))

	payments, err := s.paymentRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Payments = payments
	ledger := utils.ComputeLedger(booking, s.today())

	_ = s.emailSvc.SendPaymentReceived(ctx, booking, p, ledger)

	logger.ExitMethod("paymentService.RecordPayment", "paymentID", p.ID, "debt", ledger.Debt)
	return &ledger, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id int32) error {
	logger.Info("Deleting payment", "paymentID", id)
	return s.paymentRepo.Delete(ctx, id)
}
