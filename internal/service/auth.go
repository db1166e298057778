package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      security.TokenManager
	sessionTTL  time.Duration
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, tokens security.TokenManager, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// Login checks the password, opens a server-side session and returns a signed
// token referencing it. Unknown emails and wrong passwords fail the same way.
func (s *authService) Login(ctx context.Context, email, password, userAgent, ip string) (*domain.User, string, time.Time, error) {
	logger.EnterMethod("authService.Login", "email", email, "ip", ip)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Login failed: unknown email", "email", email, "ip", ip)
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", "userID", user.ID, "ip", ip)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresOn: now.Add(s.sessionTTL),
		CreatedOn: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", time.Time{}, err
	}

	token, err := s.tokens.GenerateSessionToken(session.ID, user.ID, user.Email, string(user.Role), session.ExpiresOn)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("Failed to record last login", "userID", user.ID, "error", err)
	}
	user.LastLoginOn = &now

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, token, session.ExpiresOn, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		// An expired or tampered cookie has nothing left to revoke.
		return nil
	}
	return s.sessionRepo.Delete(ctx, claims.SessionID())
}

// Authenticate resolves a session token to its user. The session must still exist
// server-side and be unexpired.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: session revoked", domain.ErrUnauthorized)
		}
		return nil, nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, nil, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}
	if session.UserID != claims.UserID {
		return nil, nil, fmt.Errorf("%w: session user mismatch", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user removed", domain.ErrUnauthorized)
		}
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) CreateAdmin(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, email)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		if errors.Is(err, security.ErrWeakPassword) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         domain.UserRoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Admin user created", "userID", user.ID, "email", user.Email)
	return user, nil
}

// ResetPassword replaces the password and revokes every open session of the user.
func (s *authService) ResetPassword(ctx context.Context, email, password string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		if errors.Is(err, security.ErrWeakPassword) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.sessionRepo.DeleteByUser(ctx, user.ID)
}
