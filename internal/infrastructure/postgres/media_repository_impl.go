package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	"github.com/bintangpradana/pressadmin/internal/domain/repository"
)

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) Create(ctx context.Context, m *entity.Media) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blog_media (uploader_id, file_name, object_path, url, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, m.UploaderID, m.FileName, m.ObjectPath, m.URL, m.ContentType, m.SizeBytes)
	return row.Scan(&m.ID, &m.CreatedAt)
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (*entity.Media, error) {
	m := &entity.Media{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, uploader_id, file_name, object_path, url, content_type, size_bytes, created_at
		FROM blog_media WHERE id = $1
	`, id)
	if err := row.Scan(&m.ID, &m.UploaderID, &m.FileName, &m.ObjectPath, &m.URL, &m.ContentType, &m.SizeBytes, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]entity.Media, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM blog_media`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, uploader_id, file_name, object_path, url, content_type, size_bytes, created_at
		FROM blog_media
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []entity.Media
	for rows.Next() {
		m := entity.Media{}
		if err := rows.Scan(&m.ID, &m.UploaderID, &m.FileName, &m.ObjectPath, &m.URL, &m.ContentType, &m.SizeBytes, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM blog_media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.MediaRepository = (*MediaRepository)(nil)
