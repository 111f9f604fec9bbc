package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
	"github.com/bintangpradana/pressadmin/internal/interface/middleware"
	"github.com/bintangpradana/pressadmin/pkg/response"
	"github.com/bintangpradana/pressadmin/pkg/validation"
)

// BlogHandler exposes posts, categories, tags and search.
type BlogHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

func postView(p *entity.Post) gin.H {
	tags := make([]gin.H, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, gin.H{"id": t.ID, "name": t.Name, "slug": t.Slug})
	}
	var content json.RawMessage
	if len(p.Content) > 0 {
		content = json.RawMessage(p.Content)
	}
	return gin.H{
		"id":              p.ID,
		"author_id":       p.AuthorID,
		"category_id":     p.CategoryID,
		"title":           p.Title,
		"slug":            p.Slug,
		"excerpt":         p.Excerpt,
		"content":         content,
		"cover_image_url": p.CoverImageURL,
		"status":          p.Status,
		"published_at":    p.PublishedAt,
		"created_at":      p.CreatedAt,
		"updated_at":      p.UpdatedAt,
		"tags":            tags,
	}
}

type postRequest struct {
	Title         string          `json:"title" binding:"required"`
	Excerpt       string          `json:"excerpt"`
	Content       json.RawMessage `json:"content"`
	CategoryID    *string         `json:"category_id"`
	CoverImageURL string          `json:"cover_image_url"`
	Status        string          `json:"status" binding:"omitempty,oneof=draft published"`
	TagIDs        []string        `json:"tag_ids"`
}

func (r postRequest) toInput() application.PostInput {
	return application.PostInput{
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Content:       []byte(r.Content),
		CategoryID:    r.CategoryID,
		CoverImageURL: r.CoverImageURL,
		Status:        entity.PostStatus(r.Status),
		TagIDs:        r.TagIDs,
	}
}

func (h *BlogHandler) CreatePost(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreatePost(c.Request.Context(), auth, req.toInput())
	if err != nil {
		failWith(c, err)
		return
	}
	response.OK(c, http.StatusCreated, postView(p), "post created", nil)
}

// ListPosts is public. Readers only see published posts; editors may also
// browse their own unpublished work, admins anyone's.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	f := repo.PostFilter{
		Status:     entity.PostStatus(c.Query("status")),
		CategoryID: c.Query("category_id"),
		TagSlug:    c.Query("tag"),
		AuthorID:   c.Query("author_id"),
		Limit:      limit,
		Offset:     offset,
	}
	auth, ok := middleware.AuthFromContext(c)
	switch {
	case !ok || !auth.Role.CanEditContent():
		f.Status = entity.PostPublished
	case !auth.Role.CanReview():
		// Editors get the published feed by default and may pull their own
		// unpublished work; only reviewers browse everyone's drafts.
		if f.Status == "" {
			f.Status = entity.PostPublished
		} else if f.Status != entity.PostPublished {
			f.AuthorID = auth.UserID
		}
	}
	items, total, err := h.Svc.ListPosts(c.Request.Context(), f)
	if err != nil {
		failWith(c, err)
		return
	}
	views := make([]gin.H, 0, len(items))
	for i := range items {
		views = append(views, postView(&items[i]))
	}
	response.OK(c, http.StatusOK, views, "posts", map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *BlogHandler) GetPost(c *gin.Context) {
	p, err := h.Svc.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failWith(c, err)
		return
	}
	if p.Status != entity.PostPublished {
		// Unpublished posts stay invisible outside the author and reviewers.
		auth, ok := middleware.AuthFromContext(c)
		if !ok || !auth.Role.CanEditContent() ||
			(p.AuthorID != auth.UserID && !auth.Role.CanReview()) {
			failWith(c, application.ErrPostNotFound)
			return
		}
	}
	response.OK(c, http.StatusOK, postView(p), "post", nil)
}

func (h *BlogHandler) UpdatePost(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdatePost(c.Request.Context(), auth, c.Param("id"), req.toInput())
	if err != nil {
		failWith(c, err)
		return
	}
	response.OK(c, http.StatusOK, postView(p), "post updated", nil)
}

func (h *BlogHandler) DeletePost(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	if err := h.Svc.DeletePost(c.Request.Context(), auth, c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, map[string]any{"deleted": true}, "post deleted", nil)
}

// SearchPosts queries the Elasticsearch mirror.
func (h *BlogHandler) SearchPosts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchPosts(c.Request.Context(), q, size)
	if err != nil {
		response.Fail(c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.OK(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func categoryView(cat *entity.Category) gin.H {
	return gin.H{
		"id":          cat.ID,
		"name":        cat.Name,
		"slug":        cat.Slug,
		"description": cat.Description,
		"created_at":  cat.CreatedAt,
		"updated_at":  cat.UpdatedAt,
	}
}

func tagView(t *entity.Tag) gin.H {
	return gin.H{
		"id":         t.ID,
		"name":       t.Name,
		"slug":       t.Slug,
		"created_at": t.CreatedAt,
	}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *BlogHandler) CreateCategory(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), auth, application.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		failWith(c, err)
		return
	}
	response.OK(c, http.StatusCreated, categoryView(cat), "category created", nil)
}

func (h *BlogHandler) ListCategories(c *gin.Context) {
	items, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	views := make([]gin.H, 0, len(items))
	for i := range items {
		views = append(views, categoryView(&items[i]))
	}
	response.OK(c, http.StatusOK, views, "categories", nil)
}

func (h *BlogHandler) UpdateCategory(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.UpdateCategory(c.Request.Context(), auth, c.Param("id"), application.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		failWith(c, err)
		return
	}
	response.OK(c, http.StatusOK, categoryView(cat), "category updated", nil)
}

func (h *BlogHandler) DeleteCategory(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	if err := h.Svc.DeleteCategory(c.Request.Context(), auth, c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, map[string]any{"deleted": true}, "category deleted", nil)
}

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *BlogHandler) CreateTag(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.CreateTag(c.Request.Context(), auth, req.Name)
	if err != nil {
		failWith(c, err)
		return
	}
	response.OK(c, http.StatusCreated, tagView(t), "tag created", nil)
}

func (h *BlogHandler) ListTags(c *gin.Context) {
	items, err := h.Svc.ListTags(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	views := make([]gin.H, 0, len(items))
	for i := range items {
		views = append(views, tagView(&items[i]))
	}
	response.OK(c, http.StatusOK, views, "tags", nil)
}

func (h *BlogHandler) DeleteTag(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	if err := h.Svc.DeleteTag(c.Request.Context(), auth, c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, map[string]any{"deleted": true}, "tag deleted", nil)
}
