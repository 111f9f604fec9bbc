package repository

import (
	"context"
	"errors"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
)

// ErrNotFound is returned by all repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository defines user-account persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateRoleStatus writes role and status in a single statement.
	UpdateRoleStatus(ctx context.Context, id string, role entity.Role, status entity.Status) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetEmailVerified(ctx context.Context, id string) error
	// Delete removes the account. Used only as a registration compensation.
	Delete(ctx context.Context, id string) error
	// ListReviewers returns active admin and super_admin accounts.
	ListReviewers(ctx context.Context) ([]entity.User, error)
}
