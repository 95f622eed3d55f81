package repository

import (
	"context"
	"errors"

	"optitrack-data/internal/domain"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("not found")

// AuthUser is a user row with its credential hashes. Hashes are hex-encoded
// SHA-256, computed by the service layer; the repository never sees
// plaintext credentials.
type AuthUser struct {
	domain.User
	EmailHash    string
	PasswordHash string
}

// UsersRepository persists the auth-mirror user list (the equivalent of the
// external store's UserauthList/{uid}).
type UsersRepository interface {
	CreateUser(ctx context.Context, u AuthUser) error
	GetByEmailHash(ctx context.Context, emailHash string) (*AuthUser, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) error
}
