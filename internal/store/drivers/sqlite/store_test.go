package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/internal/store/drivers/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		Username:     username,
		PasswordHash: "$2a$10$notarealhash",
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		UserType:     domain.UserTypeUserAccount,
		Roles:        []string{domain.RoleUser},
		Enabled:      true,
	}
	id, err := s.Users().CreateUser(context.Background(), u)
	require.NoError(t, err)
	u.ID = id
	return u
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	seeded := seedUser(t, s, "alice")

	got, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, got.ID)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, []string{domain.RoleUser}, got.Roles)
	require.True(t, got.Enabled)
	require.False(t, got.Locked)
	require.Nil(t, got.LastLoginAt)

	byID, err := s.Users().GetUserByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = s.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateUsername(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "alice")
	_, err := s.Users().CreateUser(context.Background(), domain.User{
		Username:     "alice",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestTouchLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "alice")

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Users().TouchLastLogin(ctx, u.ID, at))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	require.WithinDuration(t, at, *got.LastLoginAt, time.Second)

	require.ErrorIs(t, s.Users().TouchLastLogin(ctx, 9999, at), store.ErrNotFound)
}

func TestRefreshTokenOnePerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "alice")

	first := domain.RefreshToken{
		UserID:    u.ID,
		Token:     "token-one",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	_, err := s.RefreshTokens().CreateRefreshToken(ctx, first)
	require.NoError(t, err)

	// A second row for the same user violates the schema.
	_, err = s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    u.ID,
		Token:     "token-two",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Delete-then-insert in one transaction is the replacement path.
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().DeleteRefreshTokensForUser(ctx, u.ID); err != nil {
			return err
		}
		_, err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			UserID:    u.ID,
			Token:     "token-two",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		return err
	})
	require.NoError(t, err)

	_, err = s.RefreshTokens().GetRefreshTokenByValue(ctx, "token-one")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.RefreshTokens().GetRefreshTokenByValue(ctx, "token-two")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "alice")

	_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    u.ID,
		Token:     "keep-me",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	boom := context.DeadlineExceeded
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().DeleteRefreshTokensForUser(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The delete inside the failed transaction must not stick.
	_, err = s.RefreshTokens().GetRefreshTokenByValue(ctx, "keep-me")
	require.NoError(t, err)
}

func TestDeleteUserCascadesToRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "alice")

	_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    u.ID,
		Token:     "cascade-me",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err = s.RefreshTokens().GetRefreshTokenByValue(ctx, "cascade-me")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    alice.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    bob.ID,
		Token:     "fresh",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	removed, err := s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	_, err = s.RefreshTokens().GetRefreshTokenByValue(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshTokenByValue(ctx, "fresh")
	require.NoError(t, err)
}

func TestShowsSoftDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Shows().CreateShow(ctx, domain.Show{
		ShowType:    domain.ShowTypeMovie,
		Title:       "The Long Goodbye",
		ReleaseYear: 1973,
		CreatedBy:   "alice",
	})
	require.NoError(t, err)

	got, err := s.Shows().GetShowByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "The Long Goodbye", got.Title)
	require.Equal(t, domain.ShowTypeMovie, got.ShowType)
	require.Equal(t, "alice", got.CreatedBy)

	listed, err := s.Shows().ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, s.Shows().SoftDeleteShow(ctx, id, "bob", time.Now()))

	// Soft-deleted rows vanish from every read path.
	_, err = s.Shows().GetShowByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	listed, err = s.Shows().ListShows(ctx)
	require.NoError(t, err)
	require.Empty(t, listed)

	// Deleting twice reports not found.
	require.ErrorIs(t, s.Shows().SoftDeleteShow(ctx, id, "bob", time.Now()), store.ErrNotFound)
}

func TestShowsUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Shows().CreateShow(ctx, domain.Show{
		ShowType:  domain.ShowTypeTVShow,
		Title:     "Original Title",
		CreatedBy: "alice",
	})
	require.NoError(t, err)

	sh, err := s.Shows().GetShowByID(ctx, id)
	require.NoError(t, err)
	sh.Title = "Renamed Title"
	sh.UpdatedBy = "bob"
	require.NoError(t, s.Shows().UpdateShow(ctx, sh))

	got, err := s.Shows().GetShowByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Renamed Title", got.Title)
	require.Equal(t, "bob", got.UpdatedBy)
	require.NotNil(t, got.UpdatedAt)

	sh.ID = 9999
	require.ErrorIs(t, s.Shows().UpdateShow(ctx, sh), store.ErrNotFound)
}
