// Package auth provides authentication and the role permission table.
package auth

import (
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/entity"
	"kiosko/internal/core/id"
)

// User is a shop account.
type User struct {
	entity.Base

	Username            string     `db:"username" json:"username"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Role                Role       `db:"role" json:"role"`
	Active              bool       `db:"active" json:"active"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
}

// NewUser creates an active user.
func NewUser(userID id.ID, username, passwordHash string, role Role, now time.Time) (User, error) {
	u := User{
		Base:         entity.NewBase(userID, now),
		Username:     strings.ToLower(strings.TrimSpace(username)),
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}
	if u.Username == "" {
		return User{}, apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if !role.Valid() {
		return User{}, apperror.NewValidation("unknown role").WithDetail("field", "role").WithDetail("value", string(role))
	}
	return u, nil
}

// IsLocked returns true if account is locked at now.
func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin checks if user can login.
func (u User) CanLogin(now time.Time) error {
	if !u.Active {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked(now) {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin returns the user with the failed counter incremented,
// locked for lockDuration once maxAttempts is reached.
func (u User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration, now time.Time) User {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := now.Add(lockDuration)
		u.LockedUntil = &lockUntil
		u.FailedLoginAttempts = 0
	}
	u.Base = u.Base.Touched(now)
	return u
}

// RecordSuccessfulLogin returns the user with the failed counter reset.
func (u User) RecordSuccessfulLogin(now time.Time) User {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	u.Base = u.Base.Touched(now)
	return u
}

// Deactivate returns the user unable to log in.
func (u User) Deactivate(now time.Time) User {
	u.Active = false
	u.Base = u.Base.Touched(now)
	return u
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
