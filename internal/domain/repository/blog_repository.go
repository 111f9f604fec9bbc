package repository

import (
	"context"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
)

// PostFilter narrows post listings. Zero values mean "any".
type PostFilter struct {
	Status     entity.PostStatus
	CategoryID string
	TagSlug    string
	AuthorID   string
	Limit      int
	Offset     int
}

// PostRepository persists blog posts and their tag associations.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	List(ctx context.Context, f PostFilter) ([]entity.Post, int, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ReplaceTags rewrites the post's tag associations wholesale.
	ReplaceTags(ctx context.Context, postID string, tagIDs []string) error
	TagsForPost(ctx context.Context, postID string) ([]entity.Tag, error)
}

// CategoryRepository persists blog categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// TagRepository persists blog tags.
type TagRepository interface {
	Create(ctx context.Context, t *entity.Tag) error
	GetByID(ctx context.Context, id string) (*entity.Tag, error)
	List(ctx context.Context) ([]entity.Tag, error)
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// MediaRepository persists uploaded-file metadata.
type MediaRepository interface {
	Create(ctx context.Context, m *entity.Media) error
	GetByID(ctx context.Context, id string) (*entity.Media, error)
	List(ctx context.Context, limit, offset int) ([]entity.Media, int, error)
	Delete(ctx context.Context, id string) error
}
