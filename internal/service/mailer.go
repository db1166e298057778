package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/javicara/beonbike-sub000/internal/config"
	"github.com/javicara/beonbike-sub000/internal/logger"
)

// Mail is a rendered message ready for a provider.
type Mail struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, m *Mail) error
}

// NewMailer builds the provider selected in config, wrapped with the recipient
// redirect when email.redirect_to is set.
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	var m Mailer
	switch cfg.Provider {
	case "sendgrid":
		m = &sendGridMailer{apiKey: cfg.SendGridAPIKey, fromEmail: cfg.From, fromName: cfg.FromName}
	case "smtp":
		m = &smtpMailer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUser,
			password: cfg.SMTPPassword,
			from:     cfg.From,
			fromName: cfg.FromName,
		}
	case "log", "":
		m = &logMailer{}
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
	if cfg.RedirectTo != "" {
		m = &redirectMailer{next: m, to: cfg.RedirectTo}
	}
	return m, nil
}

type sendGridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func (s *sendGridMailer) Send(ctx context.Context, m *Mail) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", m.To, "subject", m.Subject)
	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), m.Subject, mail.NewEmail(m.ToName, m.To), m.Text, m.HTML)
	if m.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", m.ReplyTo))
	}

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

func (s *smtpMailer) Send(ctx context.Context, m *Mail) error {
	logger.ExternalServiceCall("smtp", "send", "to", m.To, "subject", m.Subject)
	body, err := buildMIME(s.from, s.fromName, m)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	addr := s.host + ":" + strconv.Itoa(s.port)

	errCh := make(chan error, 1)
	go func() { errCh <- smtp.SendMail(addr, auth, s.from, []string{m.To}, body) }()
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}
	logger.ExternalServiceResult("smtp", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

// buildMIME renders a multipart/alternative message with text and HTML parts.
func buildMIME(from, fromName string, m *Mail) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }
	header("From", (&mailAddress{name: fromName, addr: from}).String())
	header("To", (&mailAddress{name: m.ToName, addr: m.To}).String())
	if m.ReplyTo != "" {
		header("Reply-To", m.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("Date", time.Now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "multipart/alternative; boundary="+w.Boundary())
	buf.WriteString("\r\n")

	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=utf-8", m.Text},
		{"text/html; charset=utf-8", m.HTML},
	} {
		if part.body == "" {
			continue
		}
		pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type mailAddress struct {
	name string
	addr string
}

func (a *mailAddress) String() string {
	if a.name == "" {
		return "<" + a.addr + ">"
	}
	return mime.QEncoding.Encode("utf-8", a.name) + " <" + a.addr + ">"
}

// logMailer writes messages to the log instead of sending them.
type logMailer struct{}

func (l *logMailer) Send(ctx context.Context, m *Mail) error {
	logger.InfoContext(ctx, "Email (log provider)", "to", m.To, "subject", m.Subject, "text", m.Text)
	return nil
}

// redirectMailer sends every message to a single address, keeping the intended
// recipient in the subject.
type redirectMailer struct {
	next Mailer
	to   string
}

func (r *redirectMailer) Send(ctx context.Context, m *Mail) error {
	redirected := *m
	redirected.Subject = fmt.Sprintf("[to: %s] %s", m.To, m.Subject)
	redirected.To = r.to
	redirected.ToName = ""
	return r.next.Send(ctx, &redirected)
}
