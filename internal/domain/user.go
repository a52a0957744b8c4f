package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
type User struct {
	ID           string
	Username     string
	Email        string // stored lower-cased
	PasswordHash string
	APIKey       string // encrypted envelope, empty when no key is configured
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAPIKey reports whether an encrypted API key is stored for the user.
func (u *User) HasAPIKey() bool {
	return u.APIKey != ""
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// SetAPIKey stores the encrypted envelope; an empty envelope clears the column.
	SetAPIKey(ctx context.Context, id, envelope string) error
}
