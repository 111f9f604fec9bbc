package repository

import (
	"context"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
)

// RegistrationRepository persists registration requests.
type RegistrationRepository interface {
	Create(ctx context.Context, r *entity.RegistrationRequest) error
	GetByUserID(ctx context.Context, userID string) (*entity.RegistrationRequest, error)
	ListByStatus(ctx context.Context, status entity.Status, limit, offset int) ([]entity.RegistrationRequest, error)
	SetEmailVerified(ctx context.Context, userID string) error
	// UpdateDecision records the admin decision on the request row.
	UpdateDecision(ctx context.Context, userID string, status entity.Status, notes string, reviewedBy string) error
	// DeleteByUserID removes the request. Used only as a compensation.
	DeleteByUserID(ctx context.Context, userID string) error
}
