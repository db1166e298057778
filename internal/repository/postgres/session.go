package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	logger.DatabaseCall("INSERT", "sessions", "user_id", s.UserID)
	if s.CreatedOn.IsZero() {
		s.CreatedOn = time.Now().UTC()
	}
	query := `INSERT INTO sessions (id, user_id, user_agent, ip, expires_on, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.UserAgent, s.IP, s.ExpiresOn, s.CreatedOn)
	return mapError(err, "create session")
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s := &domain.Session{}
	query := `SELECT id, user_id, user_agent, ip, expires_on, created_on FROM sessions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresOn, &s.CreatedOn)
	if err != nil {
		return nil, mapError(err, "get session")
	}
	return s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return mapError(err, "delete session")
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return mapError(err, "delete user sessions")
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	logger.DatabaseCall("DELETE", "sessions", "before", now)
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_on <= $1`, now)
	if err != nil {
		return 0, mapError(err, "purge sessions")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, err)
	return n, err
}
