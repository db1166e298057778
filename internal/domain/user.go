package domain

import "time"

type UserRole string

const UserRoleAdmin UserRole = "admin"

type User struct {
	ID           int32      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	CreatedOn    time.Time  `json:"created_on"`
	LastLoginOn  *time.Time `json:"last_login_on,omitempty"`
}

// Session is a server-side login session. The cookie only carries a signed reference to it.
type Session struct {
	ID        string    `json:"id"`
	UserID    int32     `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	ExpiresOn time.Time `json:"expires_on"`
	CreatedOn time.Time `json:"created_on"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresOn)
}
