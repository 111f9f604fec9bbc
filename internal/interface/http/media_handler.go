package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	"github.com/bintangpradana/pressadmin/internal/interface/middleware"
	"github.com/bintangpradana/pressadmin/pkg/response"
)

func mediaView(m *entity.Media) gin.H {
	return gin.H{
		"id":           m.ID,
		"uploader_id":  m.UploaderID,
		"file_name":    m.FileName,
		"url":          m.URL,
		"content_type": m.ContentType,
		"size_bytes":   m.SizeBytes,
		"created_at":   m.CreatedAt,
	}
}

// 10 MiB upload cap, matching typical cover-image sizes with headroom.
const maxUploadBytes = 10 << 20

// MediaHandler exposes the upload pipeline.
type MediaHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewMediaHandler(svc *application.BlogService, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{Svc: svc, Logger: logger}
}

// Upload accepts a multipart form with a single "file" field.
func (h *MediaHandler) Upload(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "missing file field", nil)
		return
	}
	if fh.Size > maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, "file exceeds the upload limit", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	m, err := h.Svc.UploadMedia(c.Request.Context(), auth, application.MediaUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		SizeBytes:   fh.Size,
		Body:        f,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	response.OK(c, http.StatusCreated, mediaView(m), "file uploaded", nil)
}

func (h *MediaHandler) List(c *gin.Context) {
	if _, ok := middleware.AuthFromContext(c); !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, total, err := h.Svc.ListMedia(c.Request.Context(), limit, offset)
	if err != nil {
		failWith(c, err)
		return
	}
	views := make([]gin.H, 0, len(items))
	for i := range items {
		views = append(views, mediaView(&items[i]))
	}
	response.OK(c, http.StatusOK, views, "media", map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *MediaHandler) Delete(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	if err := h.Svc.DeleteMedia(c.Request.Context(), auth, c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, map[string]any{"deleted": true}, "media deleted", nil)
}
