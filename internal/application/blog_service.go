package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
	"github.com/bintangpradana/pressadmin/internal/infrastructure/search"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
)

// BlogService owns the content-management use cases: posts, categories, tags
// and the media pipeline.
type BlogService struct {
	Posts      repo.PostRepository
	Categories repo.CategoryRepository
	Tags       repo.TagRepository
	Media      repo.MediaRepository

	GCS       *storage.Client
	GCSBucket string
	Index     *search.PostIndex
	Logger    *logrus.Logger
}

type slugChecker func(ctx context.Context, slug string) (bool, error)

// slugFor derives a slug from the name, falling back to a timestamp suffix on
// collision instead of failing the request.
func slugFor(ctx context.Context, name string, exists slugChecker) (string, error) {
	base := helpers.Slugify(name)
	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return helpers.UniqueSlug(base), nil
}

type PostInput struct {
	Title         string
	Excerpt       string
	Content       []byte
	CategoryID    *string
	CoverImageURL string
	Status        entity.PostStatus
	TagIDs        []string
}

func (s *BlogService) CreatePost(ctx context.Context, auth AuthContext, in PostInput) (*entity.Post, error) {
	if !auth.Role.CanEditContent() {
		return nil, ErrForbidden
	}
	if in.Status == "" {
		in.Status = entity.PostDraft
	}
	slug, err := slugFor(ctx, in.Title, s.Posts.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		AuthorID:      auth.UserID,
		CategoryID:    in.CategoryID,
		Title:         in.Title,
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
		Status:        in.Status,
	}
	if in.Status == entity.PostPublished {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	if len(in.TagIDs) > 0 {
		if err := s.Posts.ReplaceTags(ctx, p.ID, in.TagIDs); err != nil {
			return nil, err
		}
		p.Tags, _ = s.Posts.TagsForPost(ctx, p.ID)
	}
	_ = s.Index.IndexPost(ctx, p)
	return p, nil
}

func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	p, err := s.Posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *BlogService) ListPosts(ctx context.Context, f repo.PostFilter) ([]entity.Post, int, error) {
	return s.Posts.List(ctx, f)
}

func (s *BlogService) SearchPosts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.Index.Search(ctx, q, size)
}

func (s *BlogService) UpdatePost(ctx context.Context, auth AuthContext, id string, in PostInput) (*entity.Post, error) {
	if !auth.Role.CanEditContent() {
		return nil, ErrForbidden
	}
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	// Editors may only touch their own posts; admins may touch any.
	if p.AuthorID != auth.UserID && !auth.Role.CanReview() {
		return nil, ErrForbidden
	}
	if in.Title != "" && in.Title != p.Title {
		slug, err := slugFor(ctx, in.Title, s.Posts.SlugExists)
		if err != nil {
			return nil, err
		}
		p.Title = in.Title
		p.Slug = slug
	}
	if in.Excerpt != "" {
		p.Excerpt = in.Excerpt
	}
	if in.Content != nil {
		p.Content = in.Content
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	if in.CoverImageURL != "" {
		p.CoverImageURL = in.CoverImageURL
	}
	if in.Status != "" {
		if in.Status == entity.PostPublished && p.Status != entity.PostPublished {
			now := time.Now().UTC()
			p.PublishedAt = &now
		}
		p.Status = in.Status
	}
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, err
	}
	if in.TagIDs != nil {
		if err := s.Posts.ReplaceTags(ctx, p.ID, in.TagIDs); err != nil {
			return nil, err
		}
	}
	p.Tags, _ = s.Posts.TagsForPost(ctx, p.ID)
	_ = s.Index.IndexPost(ctx, p)
	return p, nil
}

// DeletePost removes the tag associations and then the post. The two calls
// are independent; a failure between them leaves orphan-free tags and a post
// without associations, which the next delete attempt cleans up.
func (s *BlogService) DeletePost(ctx context.Context, auth AuthContext, id string) error {
	if !auth.Role.CanReview() {
		return ErrForbidden
	}
	if _, err := s.Posts.GetByID(ctx, id); err != nil {
		return ErrPostNotFound
	}
	if err := s.Posts.ReplaceTags(ctx, id, nil); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.Index.DeletePost(ctx, id)
	return nil
}

type CategoryInput struct {
	Name        string
	Description string
}

func (s *BlogService) CreateCategory(ctx context.Context, auth AuthContext, in CategoryInput) (*entity.Category, error) {
	if !auth.Role.CanReview() {
		return nil, ErrForbidden
	}
	slug := helpers.Slugify(in.Name)
	taken, err := s.Categories.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}
	c := &entity.Category{Name: in.Name, Slug: slug, Description: in.Description}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *BlogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *BlogService) UpdateCategory(ctx context.Context, auth AuthContext, id string, in CategoryInput) (*entity.Category, error) {
	if !auth.Role.CanReview() {
		return nil, ErrForbidden
	}
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	if in.Name != "" && in.Name != c.Name {
		slug := helpers.Slugify(in.Name)
		if slug != c.Slug {
			taken, err := s.Categories.SlugExists(ctx, slug)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrSlugTaken
			}
			c.Slug = slug
		}
		c.Name = in.Name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if err := s.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *BlogService) DeleteCategory(ctx context.Context, auth AuthContext, id string) error {
	if !auth.Role.CanReview() {
		return ErrForbidden
	}
	if err := s.Categories.Delete(ctx, id); err != nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *BlogService) CreateTag(ctx context.Context, auth AuthContext, name string) (*entity.Tag, error) {
	if !auth.Role.CanEditContent() {
		return nil, ErrForbidden
	}
	slug := helpers.Slugify(name)
	taken, err := s.Tags.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}
	t := &entity.Tag{Name: name, Slug: slug}
	if err := s.Tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *BlogService) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return s.Tags.List(ctx)
}

func (s *BlogService) DeleteTag(ctx context.Context, auth AuthContext, id string) error {
	if !auth.Role.CanReview() {
		return ErrForbidden
	}
	if err := s.Tags.Delete(ctx, id); err != nil {
		return ErrTagNotFound
	}
	return nil
}

type MediaUpload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// UploadMedia streams the file into the bucket and records a metadata row.
// If the row insert fails the uploaded object is removed so the bucket does
// not accumulate orphans.
func (s *BlogService) UploadMedia(ctx context.Context, auth AuthContext, up MediaUpload) (*entity.Media, error) {
	if !auth.Role.CanEditContent() {
		return nil, ErrForbidden
	}
	ext := strings.ToLower(filepath.Ext(up.FileName))
	objectPath := filepath.ToSlash(filepath.Join("blog", auth.UserID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, up.ContentType, up.Body)
	if err != nil {
		return nil, err
	}
	m := &entity.Media{
		UploaderID:  auth.UserID,
		FileName:    up.FileName,
		ObjectPath:  objectPath,
		URL:         url,
		ContentType: up.ContentType,
		SizeBytes:   up.SizeBytes,
	}
	if err := s.Media.Create(ctx, m); err != nil {
		if derr := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, objectPath); derr != nil && s.Logger != nil {
			s.Logger.WithError(derr).WithField("object", objectPath).Warn("failed to remove orphaned upload")
		}
		return nil, err
	}
	return m, nil
}

func (s *BlogService) ListMedia(ctx context.Context, limit, offset int) ([]entity.Media, int, error) {
	return s.Media.List(ctx, limit, offset)
}

// DeleteMedia removes the bucket object best-effort, then the row. A stuck
// object without a row is preferable to a row pointing at nothing.
func (s *BlogService) DeleteMedia(ctx context.Context, auth AuthContext, id string) error {
	m, err := s.Media.GetByID(ctx, id)
	if err != nil {
		return ErrMediaNotFound
	}
	if m.UploaderID != auth.UserID && !auth.Role.CanReview() {
		return ErrForbidden
	}
	if s.GCS != nil && s.GCSBucket != "" {
		if derr := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, m.ObjectPath); derr != nil && s.Logger != nil {
			s.Logger.WithError(derr).WithField("object", m.ObjectPath).Warn("failed to delete storage object")
		}
	}
	return s.Media.Delete(ctx, id)
}
