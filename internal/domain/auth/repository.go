package auth

import (
	"context"

	"kiosko/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	Create(ctx context.Context, u User) error

	// Update writes u guarded by u.Version.
	Update(ctx context.Context, u User) (User, error)

	GetByID(ctx context.Context, userID id.ID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
}
