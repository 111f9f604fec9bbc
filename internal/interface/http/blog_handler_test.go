package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
)

type stubPosts struct {
	posts      []entity.Post
	lastFilter repo.PostFilter
}

func (s *stubPosts) Create(context.Context, *entity.Post) error { return nil }

func (s *stubPosts) GetByID(_ context.Context, id string) (*entity.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return &s.posts[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *stubPosts) GetBySlug(_ context.Context, slug string) (*entity.Post, error) {
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			return &s.posts[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *stubPosts) List(_ context.Context, f repo.PostFilter) ([]entity.Post, int, error) {
	s.lastFilter = f
	var out []entity.Post
	for _, p := range s.posts {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *stubPosts) Update(context.Context, *entity.Post) error { return nil }
func (s *stubPosts) Delete(context.Context, string) error       { return nil }

func (s *stubPosts) SlugExists(context.Context, string) (bool, error) { return false, nil }

func (s *stubPosts) ReplaceTags(context.Context, string, []string) error { return nil }

func (s *stubPosts) TagsForPost(context.Context, string) ([]entity.Tag, error) { return nil, nil }

var _ repo.PostRepository = (*stubPosts)(nil)

// withAuth plants an AuthContext the way the session middleware would.
func withAuth(a application.AuthContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("authContext", a)
		c.Next()
	}
}

func newBlogTestRig(posts *stubPosts, auth *application.AuthContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBlogHandler(&application.BlogService{Posts: posts}, nil)
	r := gin.New()
	g := r.Group("/blog")
	if auth != nil {
		g.Use(withAuth(*auth))
	}
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:slug", h.GetPost)
	return r
}

func seedPosts() *stubPosts {
	return &stubPosts{posts: []entity.Post{
		{ID: "p1", AuthorID: "editor-1", Title: "Draft", Slug: "draft-post", Status: entity.PostDraft},
		{ID: "p2", AuthorID: "editor-1", Title: "Live", Slug: "live-post", Status: entity.PostPublished},
	}}
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetPostDraftHiddenFromReaders(t *testing.T) {
	posts := seedPosts()

	// anonymous
	w := get(newBlogTestRig(posts, nil), "/blog/posts/draft-post")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// an approved plain user session widens nothing
	reader := application.AuthContext{UserID: "u9", Role: entity.RoleUser}
	w = get(newBlogTestRig(posts, &reader), "/blog/posts/draft-post")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// another editor cannot see it either
	other := application.AuthContext{UserID: "editor-2", Role: entity.RoleEditor}
	w = get(newBlogTestRig(posts, &other), "/blog/posts/draft-post")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the author and reviewers can
	author := application.AuthContext{UserID: "editor-1", Role: entity.RoleEditor}
	w = get(newBlogTestRig(posts, &author), "/blog/posts/draft-post")
	assert.Equal(t, http.StatusOK, w.Code)

	admin := application.AuthContext{UserID: "admin-1", Role: entity.RoleAdmin}
	w = get(newBlogTestRig(posts, &admin), "/blog/posts/draft-post")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPostPublishedIsPublic(t *testing.T) {
	w := get(newBlogTestRig(seedPosts(), nil), "/blog/posts/live-post")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListPostsReaderSeesOnlyPublished(t *testing.T) {
	posts := seedPosts()
	reader := application.AuthContext{UserID: "u9", Role: entity.RoleUser}

	// asking for drafts explicitly is overridden for plain users
	w := get(newBlogTestRig(posts, &reader), "/blog/posts?status=draft")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.PostPublished, posts.lastFilter.Status)
}

func TestListPostsEditorDraftsScopedToSelf(t *testing.T) {
	posts := seedPosts()
	editor := application.AuthContext{UserID: "editor-2", Role: entity.RoleEditor}

	w := get(newBlogTestRig(posts, &editor), "/blog/posts?status=draft")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.PostStatus("draft"), posts.lastFilter.Status)
	assert.Equal(t, "editor-2", posts.lastFilter.AuthorID)

	// without an explicit status they get the published feed, unscoped
	w = get(newBlogTestRig(posts, &editor), "/blog/posts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.PostPublished, posts.lastFilter.Status)
	assert.Empty(t, posts.lastFilter.AuthorID)
}

func TestListPostsAdminBrowsesAnyStatus(t *testing.T) {
	posts := seedPosts()
	admin := application.AuthContext{UserID: "admin-1", Role: entity.RoleAdmin}

	w := get(newBlogTestRig(posts, &admin), "/blog/posts?status=draft")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.PostStatus("draft"), posts.lastFilter.Status)
	assert.Empty(t, posts.lastFilter.AuthorID)
}
