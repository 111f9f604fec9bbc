package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	"github.com/bintangpradana/pressadmin/internal/domain/repository"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

const registrationColumns = `id, user_id, status, requested_role, admin_notes, reviewed_by, email_verified, created_at, updated_at`

func scanRegistration(row pgx.Row) (*entity.RegistrationRequest, error) {
	reg := &entity.RegistrationRequest{}
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.Status, &reg.RequestedRole, &reg.AdminNotes,
		&reg.ReviewedBy, &reg.EmailVerified, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *entity.RegistrationRequest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_registration_requests (user_id, status, requested_role, email_verified)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, reg.UserID, reg.Status, reg.RequestedRole, reg.EmailVerified)
	return row.Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

func (r *RegistrationRepository) GetByUserID(ctx context.Context, userID string) (*entity.RegistrationRequest, error) {
	return scanRegistration(r.pool.QueryRow(ctx, `
		SELECT `+registrationColumns+` FROM user_registration_requests WHERE user_id = $1
	`, userID))
}

func (r *RegistrationRepository) ListByStatus(ctx context.Context, status entity.Status, limit, offset int) ([]entity.RegistrationRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+registrationColumns+`
		FROM user_registration_requests
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.RegistrationRequest
	for rows.Next() {
		reg := entity.RegistrationRequest{}
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.Status, &reg.RequestedRole, &reg.AdminNotes,
			&reg.ReviewedBy, &reg.EmailVerified, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func (r *RegistrationRepository) SetEmailVerified(ctx context.Context, userID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_registration_requests SET email_verified = true, updated_at = $1 WHERE user_id = $2
	`, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) UpdateDecision(ctx context.Context, userID string, status entity.Status, notes string, reviewedBy string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_registration_requests
		SET status = $1, admin_notes = $2, reviewed_by = $3, updated_at = $4
		WHERE user_id = $5
	`, status, notes, reviewedBy, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_registration_requests WHERE user_id = $1`, userID)
	return err
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)
