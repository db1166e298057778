package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
)

type inquiryService struct {
	emailSvc      EmailService
	defaultLocale string
}

func NewInquiryService(emailSvc EmailService, defaultLocale string) InquiryService {
	return &inquiryService{emailSvc: emailSvc, defaultLocale: defaultLocale}
}

func validateInquiry(inq *domain.Inquiry) error {
	if !inq.Kind.Valid() {
		return invalid("unknown inquiry kind %q", inq.Kind)
	}
	inq.Name = strings.TrimSpace(inq.Name)
	inq.Message = strings.TrimSpace(inq.Message)
	if err := requireText("name", inq.Name); err != nil {
		return err
	}
	email, err := normalizeEmail(inq.Email)
	if err != nil {
		return err
	}
	inq.Email = email

	switch inq.Kind {
	case domain.InquiryKindTour:
		if inq.TourDate.IsZero() {
			return invalid("tour date is required")
		}
		if inq.GroupSize < 1 {
			return invalid("group size must be at least 1")
		}
	case domain.InquiryKindContact, domain.InquiryKindConversion:
		if err := requireText("message", inq.Message); err != nil {
			return err
		}
	}
	return nil
}

// Submit forwards an inquiry to the business and acknowledges it to the sender.
// Inquiries are not stored, so a failed business delivery is reported to the caller.
func (s *inquiryService) Submit(ctx context.Context, inq *domain.Inquiry) error {
	if err := validateInquiry(inq); err != nil {
		return err
	}
	if inq.Locale == "" {
		inq.Locale = s.defaultLocale
	}
	if err := s.emailSvc.SendInquiry(ctx, inq); err != nil {
		return fmt.Errorf("failed to forward inquiry: %w", err)
	}
	_ = s.emailSvc.SendInquiryAck(ctx, inq)
	logger.Info("Inquiry forwarded", "kind", inq.Kind, "email", inq.Email)
	return nil
}
