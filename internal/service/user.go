package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/pkg/cryptox"
)

// UserService is the thin directory layer: registration with password
// hashing, lookups and removal.
type UserService struct {
	Store store.Store
}

// Register hashes the password and inserts the user record. The stored
// hash never leaves this layer in plaintext form.
func (s *UserService) Register(ctx context.Context, u domain.User, password string) (domain.User, error) {
	if strings.TrimSpace(u.Username) == "" {
		return domain.User{}, fmt.Errorf("username is required")
	}
	if password == "" {
		return domain.User{}, fmt.Errorf("password is required")
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	id, err := s.Store.Users().CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

// GetByUsername returns a directory entry.
func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}

// ChangePassword rehashes and stores a new password for the user.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

// Delete removes the user; refresh tokens go with it via the schema
// cascade.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.Store.Users().DeleteUser(ctx, userID)
}
