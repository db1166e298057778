package service

import (
	"context"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type interestService struct {
	interestRepo repository.InterestRepository
}

func NewInterestService(interestRepo repository.InterestRepository) InterestService {
	return &interestService{interestRepo: interestRepo}
}

func (s *interestService) ListInterest(ctx context.Context, status domain.InterestStatus) ([]domain.InterestRegistration, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	return s.interestRepo.List(ctx, status)
}

func (s *interestService) UpdateInterestStatus(ctx context.Context, id int32, status domain.InterestStatus) error {
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}
	return s.interestRepo.UpdateStatus(ctx, id, status)
}
