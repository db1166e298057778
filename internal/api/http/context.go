package http

import (
	"context"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

func withAuth(ctx context.Context, user *domain.User, session *domain.Session) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, sessionKey, session)
}

// UserFromContext returns the authenticated administrator set by the session middleware.
func UserFromContext(ctx context.Context) (*domain.User, error) {
	user, ok := ctx.Value(userKey).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func SessionFromContext(ctx context.Context) (*domain.Session, error) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	if !ok || session == nil {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}
