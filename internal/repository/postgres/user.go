package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, password_hash, role, created_on, last_login_on`

func scanUser(row scanner) (*domain.User, error) {
	u := &domain.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedOn, &lastLogin); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginOn = &t
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	if u.Role == "" {
		u.Role = domain.UserRoleAdmin
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedOn = time.Now().UTC()
	query := `INSERT INTO users (email, name, password_hash, role, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, u.Email, u.Name, u.PasswordHash, u.Role, u.CreatedOn).Scan(&u.ID)
	return mapError(err, "create user")
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get user")
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError(err, "get user by email")
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	logger.DatabaseCall("UPDATE", "users", "id", id)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return mapError(err, "update password")
	}
	return expectRow(res, "update password")
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int32, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_on = $1 WHERE id = $2`, at, id)
	return mapError(err, "touch last login")
}
