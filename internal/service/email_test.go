package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javicara/beonbike-sub000/internal/config"
	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/i18n"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

func newTestEmailService(t *testing.T, mailer Mailer, business string) EmailService {
	t.Helper()
	catalog, err := i18n.Load("es", []string{"es", "en"})
	require.NoError(t, err)
	svc, err := NewEmailService(mailer, catalog, business, "Be On Bikes", "https://beonbikes.com")
	require.NoError(t, err)
	return svc
}

func TestEmailService_RentalMessages(t *testing.T) {
	ctx := context.Background()
	mailer := &captureMailer{}
	svc := newTestEmailService(t, mailer, "hola@beonbikes.com")

	b := pendingBooking()
	b.Locale = "en"
	b.CustomerName = "Ana <Admin>"

	require.NoError(t, svc.SendRentalRequestReceived(ctx, b))
	m := mailer.last()
	require.NotNil(t, m)
	assert.Equal(t, "ana@example.com", m.To)
	assert.Equal(t, "hola@beonbikes.com", m.ReplyTo)
	assert.Equal(t, "We received your rental request", m.Subject)
	assert.Contains(t, m.Text, "Hi Ana <Admin>,")
	assert.Contains(t, m.Text, "- Dates: 2026-03-02 to 2026-03-29")
	assert.Contains(t, m.Text, "- Weekly rate: $80.00")
	assert.Contains(t, m.Text, "- Bond: $200.00")
	assert.Contains(t, m.HTML, `<html lang="en">`)
	assert.Contains(t, m.HTML, "Ana &lt;Admin&gt;")
	assert.NotContains(t, m.HTML, "<Admin>")

	require.NoError(t, svc.SendNewRentalRequest(ctx, b))
	m = mailer.last()
	assert.Equal(t, "hola@beonbikes.com", m.To)
	assert.Equal(t, "ana@example.com", m.ReplyTo)
	assert.Equal(t, "Nueva solicitud de alquiler de Ana <Admin>", m.Subject)
	assert.Contains(t, m.Text, "Fechas: 2026-03-02 a 2026-03-29")
}

func TestEmailService_PaymentMessages(t *testing.T) {
	ctx := context.Background()
	mailer := &captureMailer{}
	svc := newTestEmailService(t, mailer, "hola@beonbikes.com")

	b := pendingBooking()
	next := domain.NewDate(2026, 3, 23)
	ledger := utils.BookingLedger{WeeksElapsed: 3, Debt: 11000, NextDueDate: &next}

	require.NoError(t, svc.SendPaymentReceived(ctx, b, &domain.Payment{AmountCents: 5000}, ledger))
	m := mailer.last()
	assert.Equal(t, "Pago recibido: $50.00", m.Subject)
	assert.Contains(t, m.Text, "Saldo pendiente: $110.00")

	require.NoError(t, svc.SendPaymentReminder(ctx, b, ledger))
	m = mailer.last()
	assert.Equal(t, "Recordatorio de pago del alquiler", m.Subject)
	assert.Contains(t, m.Text, "$110.00")
	assert.Contains(t, m.Text, "3 semana(s)")
	assert.Contains(t, m.Text, "Próximo pago: 2026-03-23")

	require.NoError(t, svc.SendPaymentReceived(ctx, b, &domain.Payment{AmountCents: 5000}, utils.BookingLedger{}))
	assert.NotContains(t, mailer.last().Text, "Saldo pendiente")
}

func TestEmailService_UnsupportedLocaleFallsBack(t *testing.T) {
	mailer := &captureMailer{}
	svc := newTestEmailService(t, mailer, "hola@beonbikes.com")

	reg := &domain.InterestRegistration{
		Name:         "Jo",
		Email:        "jo@example.com",
		Locale:       "fr",
		DesiredStart: domain.NewDate(2026, 5, 1),
		DesiredEnd:   domain.NewDate(2026, 5, 31),
	}
	require.NoError(t, svc.SendBikeAvailable(context.Background(), reg))
	assert.Equal(t, "Hay una e-bike disponible para tus fechas", mailer.last().Subject)
}

func TestEmailService_InquiryAndFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("Inquiry Goes To Business", func(t *testing.T) {
		mailer := &captureMailer{}
		svc := newTestEmailService(t, mailer, "hola@beonbikes.com")
		inq := &domain.Inquiry{Kind: domain.InquiryKindTour, Name: "Group", Email: "g@example.com",
			TourDate: domain.NewDate(2026, 6, 1), GroupSize: 6, Message: "Six riders"}

		require.NoError(t, svc.SendInquiry(ctx, inq))
		m := mailer.last()
		assert.Equal(t, "hola@beonbikes.com", m.To)
		assert.Equal(t, "g@example.com", m.ReplyTo)
		assert.Contains(t, m.Text, "Six riders")
		assert.Contains(t, m.Text, "2026-06-01")
	})

	t.Run("No Business Address Skips", func(t *testing.T) {
		mailer := &captureMailer{}
		svc := newTestEmailService(t, mailer, "")
		require.NoError(t, svc.SendNewRentalRequest(ctx, pendingBooking()))
		assert.Nil(t, mailer.last())
	})

	t.Run("Mailer Error Is Returned", func(t *testing.T) {
		mailer := &captureMailer{err: assert.AnError}
		svc := newTestEmailService(t, mailer, "hola@beonbikes.com")
		assert.ErrorIs(t, svc.SendBookingConfirmed(ctx, pendingBooking(), nil), assert.AnError)
	})
}

func TestNewMailer(t *testing.T) {
	_, err := NewMailer(config.EmailConfig{Provider: "pigeon"})
	assert.Error(t, err)

	m, err := NewMailer(config.EmailConfig{Provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &logMailer{}, m)

	m, err = NewMailer(config.EmailConfig{Provider: "sendgrid", SendGridAPIKey: "key", RedirectTo: "qa@beonbikes.com"})
	require.NoError(t, err)
	r, ok := m.(*redirectMailer)
	require.True(t, ok)
	assert.IsType(t, &sendGridMailer{}, r.next)
}

func TestRedirectMailer(t *testing.T) {
	inner := &captureMailer{}
	m := &redirectMailer{next: inner, to: "qa@beonbikes.com"}

	orig := &Mail{To: "ana@example.com", ToName: "Ana", Subject: "Hello"}
	require.NoError(t, m.Send(context.Background(), orig))

	sent := inner.last()
	assert.Equal(t, "qa@beonbikes.com", sent.To)
	assert.Empty(t, sent.ToName)
	assert.Equal(t, "[to: ana@example.com] Hello", sent.Subject)
	assert.Equal(t, "ana@example.com", orig.To)
}

func TestBuildMIME(t *testing.T) {
	body, err := buildMIME("noreply@beonbikes.com", "Be On Bikes", &Mail{
		To:      "ana@example.com",
		ToName:  "Ana",
		ReplyTo: "hola@beonbikes.com",
		Subject: "Confirmación",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)

	msg := string(body)
	assert.True(t, strings.HasPrefix(msg, "From: Be On Bikes <noreply@beonbikes.com>\r\n"))
	assert.Contains(t, msg, "To: Ana <ana@example.com>\r\n")
	assert.Contains(t, msg, "Reply-To: hola@beonbikes.com\r\n")
	assert.Contains(t, msg, "Subject: =?utf-8?q?Confirmaci=C3=B3n?=\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, msg, "plain body")
	assert.Contains(t, msg, "<p>html body</p>")
	assert.Less(t, strings.Index(msg, "text/plain"), strings.Index(msg, "text/html"))
}
