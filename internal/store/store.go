package store

import (
	"context"
	"errors"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement
// this. It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Shows() Shows

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh
	// rotation). The caller MUST call Commit() or Rollback() on the
	// returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rollback when fn errors,
	// commit when it returns nil. This is the recommended way to handle
	// transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is the login lookup.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user and returns the generated id.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdatePasswordHash sets the password_hash (bcrypt).
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	// TouchLastLogin records a successful authentication instant.
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error

	// DeleteUser cascades to refresh_tokens (per schema).
	DeleteUser(ctx context.Context, userID int64) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token row and returns its id.
	// The schema enforces one row per user and unique token values.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) (int64, error)

	// GetRefreshTokenByValue returns the row for an opaque token value.
	GetRefreshTokenByValue(ctx context.Context, token string) (domain.RefreshToken, error)

	// DeleteRefreshTokensForUser removes the user's row, if any.
	DeleteRefreshTokensForUser(ctx context.Context, userID int64) error

	// DeleteExpiredRefreshTokens is housekeeping; returns rows removed.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Shows interface {
	// ListShows returns all non-deleted shows, newest first.
	ListShows(ctx context.Context) ([]domain.Show, error)

	// GetShowByID returns a show; soft-deleted rows report ErrNotFound.
	GetShowByID(ctx context.Context, id int64) (domain.Show, error)

	// CreateShow inserts a show and returns the generated id.
	CreateShow(ctx context.Context, sh domain.Show) (int64, error)

	// UpdateShow rewrites the mutable fields of a non-deleted show.
	UpdateShow(ctx context.Context, sh domain.Show) error

	// SoftDeleteShow marks a show deleted, recording who and when.
	SoftDeleteShow(ctx context.Context, id int64, by string, at time.Time) error
}
