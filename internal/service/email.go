package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/i18n"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/metrics"
	"github.com/javicara/beonbike-sub000/internal/utils"
)

//go:embed templates/email.html
var emailTemplates embed.FS

type emailService struct {
	mailer   Mailer
	catalog  *i18n.Catalog
	business string
	site     string
	siteURL  string
	tpl      *template.Template
}

// NewEmailService renders localized messages from the catalog and hands them to mailer.
// Business notifications go to businessEmail in the catalog's default locale.
func NewEmailService(mailer Mailer, catalog *i18n.Catalog, businessEmail, siteName, siteURL string) (EmailService, error) {
	tpl, err := template.ParseFS(emailTemplates, "templates/email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &emailService{
		mailer:   mailer,
		catalog:  catalog,
		business: businessEmail,
		site:     siteName,
		siteURL:  siteURL,
		tpl:      tpl,
	}, nil
}

// message is the locale-independent shape every email is rendered from.
type message struct {
	kind       string
	locale     string
	to         string
	toName     string
	replyTo    string
	subject    string
	paragraphs []string
	details    []string
}

type emailView struct {
	Locale     string
	Site       string
	SiteURL    string
	Greeting   string
	Paragraphs []string
	Details    []string
	Signoff    []string
}

func (s *emailService) render(m *message) (*Mail, error) {
	loc := s.catalog.Normalize(m.locale)
	name := m.toName
	if name == "" {
		name = s.site
	}
	view := emailView{
		Locale:     loc,
		Site:       s.site,
		SiteURL:    s.siteURL,
		Greeting:   s.catalog.T(loc, "email.greeting", name),
		Paragraphs: m.paragraphs,
		Details:    m.details,
		Signoff:    strings.Split(s.catalog.T(loc, "email.signoff"), "\n"),
	}

	var html bytes.Buffer
	if err := s.tpl.ExecuteTemplate(&html, "email.html", view); err != nil {
		return nil, fmt.Errorf("failed to render %s email: %w", m.kind, err)
	}

	var text strings.Builder
	text.WriteString(view.Greeting + "\n\n")
	for _, p := range view.Paragraphs {
		text.WriteString(p + "\n\n")
	}
	for _, d := range view.Details {
		text.WriteString("- " + d + "\n")
	}
	if len(view.Details) > 0 {
		text.WriteString("\n")
	}
	text.WriteString(strings.Join(view.Signoff, "\n"))
	text.WriteString("\n")

	return &Mail{
		To:      m.to,
		ToName:  m.toName,
		ReplyTo: m.replyTo,
		Subject: m.subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func (s *emailService) deliver(ctx context.Context, m *message) error {
	if m.to == "" {
		return nil
	}
	mail, err := s.render(m)
	if err == nil {
		err = s.mailer.Send(ctx, mail)
	}
	if err != nil {
		metrics.EmailsSent.WithLabelValues(m.kind, "failed").Inc()
		logger.WarnContext(ctx, "Email delivery failed", "kind", m.kind, "to", m.to, "error", err)
		return err
	}
	metrics.EmailsSent.WithLabelValues(m.kind, "sent").Inc()
	return nil
}

func (s *emailService) bookingDetails(loc string, b *domain.RentalBooking) []string {
	return []string{
		s.catalog.T(loc, "email.dates", b.StartDate.String(), b.EndDate.String()),
		s.catalog.T(loc, "email.weekly_rate", i18n.Money(b.WeeklyRateCents)),
		s.catalog.T(loc, "email.bond", i18n.Money(b.BondCents)),
	}
}

func (s *emailService) SendRentalRequestReceived(ctx context.Context, b *domain.RentalBooking) error {
	loc := s.catalog.Normalize(b.Locale)
	return s.deliver(ctx, &message{
		kind:       "rental_received",
		locale:     loc,
		to:         b.CustomerEmail,
		toName:     b.CustomerName,
		replyTo:    s.business,
		subject:    s.catalog.T(loc, "email.rental_received.subject"),
		paragraphs: []string{s.catalog.T(loc, "email.rental_received.body")},
		details:    s.bookingDetails(loc, b),
	})
}

func (s *emailService) SendNewRentalRequest(ctx context.Context, b *domain.RentalBooking) error {
	loc := s.catalog.Default()
	details := []string{
		s.catalog.T(loc, "form.name") + ": " + b.CustomerName,
		s.catalog.T(loc, "form.email") + ": " + b.CustomerEmail,
		s.catalog.T(loc, "form.phone") + ": " + b.CustomerPhone,
	}
	if b.Address != "" {
		details = append(details, s.catalog.T(loc, "form.address")+": "+b.Address)
	}
	details = append(details, s.bookingDetails(loc, b)...)
	if b.Notes != "" {
		details = append(details, s.catalog.T(loc, "form.message")+": "+b.Notes)
	}
	return s.deliver(ctx, &message{
		kind:       "rental_new",
		locale:     loc,
		to:         s.business,
		replyTo:    b.CustomerEmail,
		subject:    s.catalog.T(loc, "email.rental_new.subject", b.CustomerName),
		paragraphs: []string{s.catalog.T(loc, "email.rental_new.body")},
		details:    details,
	})
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, b *domain.RentalBooking, bike *domain.Bike) error {
	loc := s.catalog.Normalize(b.Locale)
	details := s.bookingDetails(loc, b)
	if bike != nil {
		details = append([]string{bike.Name}, details...)
	}
	return s.deliver(ctx, &message{
		kind:       "booking_confirmed",
		locale:     loc,
		to:         b.CustomerEmail,
		toName:     b.CustomerName,
		replyTo:    s.business,
		subject:    s.catalog.T(loc, "email.booking_confirmed.subject"),
		paragraphs: []string{s.catalog.T(loc, "email.booking_confirmed.body")},
		details:    details,
	})
}

func (s *emailService) SendPaymentReceived(ctx context.Context, b *domain.RentalBooking, p *domain.Payment, ledger utils.BookingLedger) error {
	loc := s.catalog.Normalize(b.Locale)
	amount := i18n.Money(p.AmountCents)
	paragraphs := []string{s.catalog.T(loc, "email.payment_received.body", amount)}
	if ledger.Debt > 0 {
		paragraphs = append(paragraphs, s.catalog.T(loc, "email.payment_received.balance", i18n.Money(ledger.Debt)))
	}
	return s.deliver(ctx, &message{
		kind:       "payment_received",
		locale:     loc,
		to:         b.CustomerEmail,
		toName:     b.CustomerName,
		replyTo:    s.business,
		subject:    s.catalog.T(loc, "email.payment_received.subject", amount),
		paragraphs: paragraphs,
	})
}

func (s *emailService) SendPaymentReminder(ctx context.Context, b *domain.RentalBooking, ledger utils.BookingLedger) error {
	loc := s.catalog.Normalize(b.Locale)
	paragraphs := []string{s.catalog.T(loc, "email.payment_reminder.body", i18n.Money(ledger.Debt), ledger.WeeksElapsed)}
	if ledger.NextDueDate != nil {
		paragraphs = append(paragraphs, s.catalog.T(loc, "email.payment_reminder.next_due", ledger.NextDueDate.String()))
	}
	return s.deliver(ctx, &message{
		kind:       "payment_reminder",
		locale:     loc,
		to:         b.CustomerEmail,
		toName:     b.CustomerName,
		replyTo:    s.business,
		subject:    s.catalog.T(loc, "email.payment_reminder.subject"),
		paragraphs: paragraphs,
		details:    s.bookingDetails(loc, b),
	})
}

func (s *emailService) interestMessage(kind string, reg *domain.InterestRegistration) *message {
	loc := s.catalog.Normalize(reg.Locale)
	return &message{
		kind:       kind,
		locale:     loc,
		to:         reg.Email,
		toName:     reg.Name,
		replyTo:    s.business,
		subject:    s.catalog.T(loc, "email."+kind+".subject"),
		paragraphs: []string{s.catalog.T(loc, "email."+kind+".body")},
		details:    []string{s.catalog.T(loc, "email.dates", reg.DesiredStart.String(), reg.DesiredEnd.String())},
	}
}

func (s *emailService) SendWaitlistJoined(ctx context.Context, reg *domain.InterestRegistration) error {
	return s.deliver(ctx, s.interestMessage("waitlist_joined", reg))
}

func (s *emailService) SendBikeAvailable(ctx context.Context, reg *domain.InterestRegistration) error {
	return s.deliver(ctx, s.interestMessage("bike_available", reg))
}

func (s *emailService) SendInquiry(ctx context.Context, inq *domain.Inquiry) error {
	loc := s.catalog.Default()
	details := []string{
		s.catalog.T(loc, "form.name") + ": " + inq.Name,
		s.catalog.T(loc, "form.email") + ": " + inq.Email,
	}
	if inq.Phone != "" {
		details = append(details, s.catalog.T(loc, "form.phone")+": "+inq.Phone)
	}
	if inq.BikeID != nil {
		details = append(details, fmt.Sprintf("Bike #%d", *inq.BikeID))
	}
	if !inq.TourDate.IsZero() {
		details = append(details, s.catalog.T(loc, "tours.date")+": "+inq.TourDate.String())
	}
	if inq.GroupSize > 0 {
		details = append(details, fmt.Sprintf("%s: %d", s.catalog.T(loc, "tours.group_size"), inq.GroupSize))
	}
	paragraphs := []string{s.catalog.T(loc, "email.inquiry.body")}
	if inq.Message != "" {
		paragraphs = append(paragraphs, inq.Message)
	}
	return s.deliver(ctx, &message{
		kind:       "inquiry",
		locale:     loc,
		to:         s.business,
		replyTo:    inq.Email,
		subject:    s.catalog.T(loc, "email.inquiry.subject", s.catalog.T(loc, "inquiry."+string(inq.Kind)), inq.Name),
		paragraphs: paragraphs,
		details:    details,
	})
}

func (s *emailService) SendInquiryAck(ctx context.Context, inq *domain.Inquiry) error {
	loc := s.catalog.Normalize(inq.Locale)
	return s.deliver(ctx, &message{
		kind:       "inquiry_ack",
		locale:     loc,
		to:         inq.Email,
		toName:     inq.Name,
		replyTo:    s.business,
		subject:    s.catalog.T(loc, "email.inquiry_ack.subject"),
		paragraphs: []string{s.catalog.T(loc, "email.inquiry_ack.body")},
	})
}
