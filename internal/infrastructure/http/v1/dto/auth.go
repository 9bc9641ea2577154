package dto

import (
	"time"

	appctx "kiosko/internal/core/context"
	"kiosko/internal/domain/auth"
)

// LoginRequest for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Username: r.Username, Password: r.Password}
}

// CreateUserRequest creates an Owner or Employee account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=owner employee"`
}

// ToDomain converts to the auth service request.
func (r *CreateUserRequest) ToDomain() auth.CreateUserRequest {
	return auth.CreateUserRequest{
		Username: r.Username,
		Password: r.Password,
		Role:     auth.Role(r.Role),
	}
}

// UserResponse represents an account without its credentials.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromUser creates UserResponse from a domain user.
func FromUser(u auth.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Role:        string(u.Role),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginResponse carries the access token and the account.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// NewLoginResponse combines token and user.
func NewLoginResponse(t auth.Token, u auth.User) LoginResponse {
	return LoginResponse{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresAt:   t.ExpiresAt,
		User:        FromUser(u),
	}
}

// MeResponse describes the caller and what their role allows.
type MeResponse struct {
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// NewMeResponse builds MeResponse from the request user.
func NewMeResponse(u *appctx.UserContext) MeResponse {
	perms := auth.Permissions(auth.Role(u.Role))
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return MeResponse{
		UserID:      u.UserID,
		Username:    u.Username,
		Role:        u.Role,
		Permissions: out,
	}
}
