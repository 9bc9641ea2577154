// Package auth_repo provides the PostgreSQL user repository.
package auth_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain/auth"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ auth.UserRepository = (*UserRepo)(nil)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	table *postgres.Table[auth.User]
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{table: postgres.NewTable[auth.User](txm, "users", "user")}
}

func (r *UserRepo) Create(ctx context.Context, u auth.User) error {
	err := r.table.Insert(ctx, u)
	if apperror.IsDuplicate(err) {
		return apperror.NewDuplicate("user", "username", u.Username)
	}
	return err
}

func (r *UserRepo) Update(ctx context.Context, u auth.User) (auth.User, error) {
	if err := r.table.UpdateVersioned(ctx, u); err != nil {
		return auth.User{}, err
	}
	u.Base = u.Base.NextVersion()
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (auth.User, error) {
	return r.table.GetByID(ctx, userID)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (auth.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.table.Get(ctx, r.table.SelectAll().Where(squirrel.Eq{"username": username}), username)
}

func (r *UserRepo) List(ctx context.Context) ([]auth.User, error) {
	return r.table.Select(ctx, r.table.SelectAll().OrderBy("username"))
}
