package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles stored in the users.role column.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a row of the users table. PasswordHash never leaves the server:
// it is excluded from JSON and stripped by Sanitize before templating.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitize returns a copy safe to hand to views and API responses.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}
