// Package service holds the business logic between the HTTP handlers and
// the store: credential checks, token issuance and rotation, catalog
// operations and background cleanup.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/pkg/cryptox"
)

// ErrInvalidRefresh covers unknown and expired refresh tokens alike, so a
// caller probing token values learns nothing from the response.
var ErrInvalidRefresh = errors.New("invalid_refresh_token")

// RefreshTokenService owns the opaque refresh tokens: one live token per
// user, rotated on every issue and every use.
type RefreshTokenService struct {
	Store store.Store
	TTL   time.Duration
}

// CreateFor mints a fresh opaque token for the user, replacing any prior
// one. Delete and insert run in a single transaction, so concurrent
// logins serialize and the last writer wins.
func (s *RefreshTokenService) CreateFor(ctx context.Context, userID int64) (domain.RefreshToken, error) {
	rt := domain.RefreshToken{
		UserID:    userID,
		Token:     cryptox.NewOpaqueToken(),
		ExpiresAt: time.Now().UTC().Add(s.TTL),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().DeleteRefreshTokensForUser(ctx, userID); err != nil {
			return fmt.Errorf("delete prior refresh token: %w", err)
		}
		id, err := tx.RefreshTokens().CreateRefreshToken(ctx, rt)
		if err != nil {
			return fmt.Errorf("insert refresh token: %w", err)
		}
		rt.ID = id
		return nil
	})
	if err != nil {
		return domain.RefreshToken{}, err
	}
	return rt, nil
}

// Validate resolves an opaque token value to its stored row. Unknown and
// expired tokens both come back as ErrInvalidRefresh; expired rows are
// removed on the way out.
func (s *RefreshTokenService) Validate(ctx context.Context, token string) (domain.RefreshToken, error) {
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByValue(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, ErrInvalidRefresh
		}
		return domain.RefreshToken{}, err
	}

	if rt.Expired(time.Now()) {
		_ = s.Store.RefreshTokens().DeleteRefreshTokensForUser(ctx, rt.UserID)
		return domain.RefreshToken{}, ErrInvalidRefresh
	}
	return rt, nil
}

// DeleteExpired removes all expired rows. Housekeeping entry point.
func (s *RefreshTokenService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, time.Now())
}
