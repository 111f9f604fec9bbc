package repository

import (
	"context"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
)

// OTPRepository persists issued verification codes.
type OTPRepository interface {
	Create(ctx context.Context, v *entity.OTPVerification) error
	// LatestByEmailPurpose returns the most recently created row for the
	// pair, or ErrNotFound.
	LatestByEmailPurpose(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPVerification, error)
	// DeleteByEmailPurpose removes every row for the pair. Used on consume,
	// on re-issue, and on expired-read garbage collection.
	DeleteByEmailPurpose(ctx context.Context, email string, purpose entity.OTPPurpose) error
	DeleteByID(ctx context.Context, id string) error
}
