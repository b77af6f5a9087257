package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/pkg/cryptox"
	"github.com/streamvault/streamvault/pkg/jwtx"
	"github.com/streamvault/streamvault/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords
	// alike.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrAccountDisabled    = errors.New("account_disabled")
	ErrAccountLocked      = errors.New("account_locked")
	ErrAccountExpired     = errors.New("account_expired")
	ErrCredentialsExpired = errors.New("credentials_expired")
)

// AuthService authenticates credentials and issues token pairs.
type AuthService struct {
	Store     store.Store
	Codec     *jwtx.Codec
	Refresh   *RefreshTokenService
	TokenType string
}

// Login verifies the credentials against the directory and returns a
// fresh token pair. Account-status checks run before the password check,
// except credential expiry which only applies to a correct password.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	now := time.Now()

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	switch {
	case !user.Enabled:
		return domain.TokenPair{}, ErrAccountDisabled
	case user.Locked:
		return domain.TokenPair{}, ErrAccountLocked
	case user.AccountExpired(now):
		return domain.TokenPair{}, ErrAccountExpired
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("verify password: %w", err)
	}

	if user.CredentialsExpired(now) {
		return domain.TokenPair{}, ErrCredentialsExpired
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// Best effort; a failed touch never fails the login.
	if err := s.Store.Users().TouchLastLogin(ctx, user.ID, now.UTC()); err != nil {
		slogx.FromContext(ctx).Warn("failed to record last login",
			"username", user.Username, "error", err)
	}

	return pair, nil
}

// RefreshLogin redeems an opaque refresh token for a new token pair. The
// presented token is consumed: the pair carries its replacement.
func (s *AuthService) RefreshLogin(ctx context.Context, token string) (domain.TokenPair, error) {
	rt, err := s.Refresh.Validate(ctx, token)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	switch {
	case !user.Enabled:
		return domain.TokenPair{}, ErrAccountDisabled
	case user.Locked:
		return domain.TokenPair{}, ErrAccountLocked
	case user.AccountExpired(time.Now()):
		return domain.TokenPair{}, ErrAccountExpired
	}

	return s.issuePair(ctx, user)
}

// issuePair signs an access token from the user snapshot and rotates the
// refresh token in the same breath.
func (s *AuthService) issuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	claims := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.Username},
		UserID:           user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		UserType:         string(user.UserType),
		Roles:            user.Roles,
	}

	access, err := s.Codec.Issue(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.Refresh.CreateFor(ctx, user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresAt:    claims.Expiry(),
		TokenType:    s.TokenType,
	}, nil
}
