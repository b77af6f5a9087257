package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, email, first_name, last_name,
	user_type, roles, enabled, locked, account_expires_at,
	credentials_expire_at, last_login_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                domain.User
		userType, roles  string
		enabled, locked  int64
		accountExpires   sql.NullTime
		credentialsExp   sql.NullTime
		lastLogin        sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName,
		&u.LastName, &userType, &roles, &enabled, &locked, &accountExpires,
		&credentialsExp, &lastLogin, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.UserType = domain.UserType(userType)
	u.Roles = splitRoles(roles)
	u.Enabled = enabled != 0
	u.Locked = locked != 0
	u.AccountExpiresAt = mapNullTimePtr(accountExpires)
	u.CredentialsExpireAt = mapNullTimePtr(credentialsExp)
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, first_name, last_name,
			user_type, roles, enabled, locked, account_expires_at,
			credentials_expire_at, last_login_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Email, u.FirstName, u.LastName,
		string(u.UserType), joinRoles(u.Roles), boolToInt(u.Enabled),
		boolToInt(u.Locked), mapOptionalTime(u.AccountExpiresAt),
		mapOptionalTime(u.CredentialsExpireAt), mapOptionalTime(u.LastLoginAt),
		createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, newHash, userID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func requireRowChanged(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
