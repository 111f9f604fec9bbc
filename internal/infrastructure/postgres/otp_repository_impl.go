package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	"github.com/bintangpradana/pressadmin/internal/domain/repository"
)

type OTPRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

func (r *OTPRepository) Create(ctx context.Context, v *entity.OTPVerification) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO otp_verifications (user_id, email, otp_hash, purpose, expires_at)
		VALUES ($1, lower($2), $3, $4, $5)
		RETURNING id, created_at
	`, v.UserID, v.Email, v.OTPHash, v.Purpose, v.ExpiresAt)
	return row.Scan(&v.ID, &v.CreatedAt)
}

func (r *OTPRepository) LatestByEmailPurpose(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPVerification, error) {
	v := &entity.OTPVerification{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, email, otp_hash, purpose, expires_at, created_at
		FROM otp_verifications
		WHERE email = lower($1) AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, email, purpose)
	if err := row.Scan(&v.ID, &v.UserID, &v.Email, &v.OTPHash, &v.Purpose, &v.ExpiresAt, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *OTPRepository) DeleteByEmailPurpose(ctx context.Context, email string, purpose entity.OTPPurpose) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM otp_verifications WHERE email = lower($1) AND purpose = $2
	`, email, purpose)
	return err
}

func (r *OTPRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM otp_verifications WHERE id = $1`, id)
	return err
}

var _ repository.OTPRepository = (*OTPRepository)(nil)
