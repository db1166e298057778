package jobs

import (
	"context"
	"fmt"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
)

// SendPaymentReminders emails every active booking that owes money as of today.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func(ctx context.Context) error {
		views, err := jr.services.Bookings.ListBookings(ctx, domain.BookingStatusActive)
		if err != nil {
			return fmt.Errorf("list active bookings: %w", err)
		}

		sent, failed := 0, 0
		for i := range views {
			v := &views[i]
			if v.Ledger.Debt <= 0 {
				continue
			}
			if err := jr.services.Email.SendPaymentReminder(ctx, &v.RentalBooking, v.Ledger); err != nil {
				logger.WarnContext(ctx, "Failed to send payment reminder", "booking_id", v.ID, "error", err)
				failed++
				continue
			}
			sent++
		}
		logger.InfoContext(ctx, "Payment reminders sent", "sent", sent, "failed", failed)
		return nil
	})
}

// NotifyWaitlist tells waiting registrations, once, that a bike is free for the
// rest of their desired range. The status stays waiting until an admin follows up.
func (jr *JobRunner) NotifyWaitlist() {
	jr.runWithRecovery("NotifyWaitlist", func(ctx context.Context) error {
		today := jr.today()
		regs, err := jr.store.InterestRepository.List(ctx, domain.InterestStatusWaiting)
		if err != nil {
			return fmt.Errorf("list waiting registrations: %w", err)
		}

		notified := 0
		for i := range regs {
			reg := &regs[i]
			if reg.NotifiedOn != nil || reg.DesiredEnd.Before(today) {
				continue
			}
			from := reg.DesiredStart
			if from.Before(today) {
				from = today
			}
			free, err := jr.services.Rentals.AvailableCount(ctx, from, reg.DesiredEnd)
			if err != nil {
				logger.WarnContext(ctx, "Failed to check availability for registration", "registration_id", reg.ID, "error", err)
				continue
			}
			if free == 0 {
				continue
			}
			if err := jr.services.Email.SendBikeAvailable(ctx, reg); err != nil {
				logger.WarnContext(ctx, "Failed to notify registration", "registration_id", reg.ID, "error", err)
				continue
			}
			if err := jr.store.InterestRepository.MarkNotified(ctx, reg.ID, jr.now().UTC()); err != nil {
				return fmt.Errorf("mark registration %d notified: %w", reg.ID, err)
			}
			notified++
		}
		logger.InfoContext(ctx, "Waiting list notified", "waiting", len(regs), "notified", notified)
		return nil
	})
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (jr *JobRunner) PurgeExpiredSessions() {
	jr.runWithRecovery("PurgeExpiredSessions", func(ctx context.Context) error {
		n, err := jr.store.SessionRepository.DeleteExpired(ctx, jr.now().UTC())
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Purged expired sessions", "count", n)
		return nil
	})
}
