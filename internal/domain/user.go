// Package domain holds the core entities shared by the store, the
// services and the HTTP layer.
package domain

import "time"

// UserType distinguishes human accounts from machine accounts.
type UserType string

const (
	UserTypeUserAccount    UserType = "USER_ACCOUNT"
	UserTypeServiceAccount UserType = "SERVICE_ACCOUNT"
)

// Role names used by the authorization guards.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is a directory entry. PasswordHash is a bcrypt hash and never
// leaves the service or store layers.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	UserType     UserType
	Roles        []string

	Enabled             bool
	Locked              bool
	AccountExpiresAt    *time.Time
	CredentialsExpireAt *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// AccountExpired reports whether the account expiry, if set, has passed.
func (u *User) AccountExpired(now time.Time) bool {
	return u.AccountExpiresAt != nil && u.AccountExpiresAt.Before(now)
}

// CredentialsExpired reports whether the credential expiry, if set, has
// passed.
func (u *User) CredentialsExpired(now time.Time) bool {
	return u.CredentialsExpireAt != nil && u.CredentialsExpireAt.Before(now)
}
