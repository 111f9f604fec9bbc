package handlers

import (
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

// RegistrationHandler exposes the admin review queue.
type RegistrationHandler struct {
	Svc    *application.ApprovalService
	Audit  repo.AuditRepository
	Logger *logrus.Logger
}

func NewRegistrationHandler(svc *application.ApprovalService, audit repo.AuditRepository, logger *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc, Audit: audit, Logger: logger}
}

func registrationView(r entity.RegistrationRequest) gin.H {
	return gin.H{
		"id":             r.ID,
		"user_id":        r.UserID,
		"status":         r.Status,
		"requested_role": r.RequestedRole,
		"admin_notes":    r.AdminNotes,
		"reviewed_by":    r.ReviewedBy,
		"email_verified": r.EmailVerified,
		"created_at":     r.CreatedAt,
		"updated_at":     r.UpdatedAt,
	}
}

// List returns registration requests, defaulting to the pending queue.
func (h *RegistrationHandler) List(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	status := entity.Status(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Svc.ListRequests(c.Request.Context(), auth, status, limit, offset)
	if err != nil {
		failWith(c, err)
		return
	}
	views := make([]gin.H, 0, len(items))
	for _, r := range items {
		views = append(views, registrationView(r))
	}
	response.OK(c, http.StatusOK, views, "registration requests", map[string]any{
		"limit":  limit,
		"offset": offset,
		"count":  len(views),
	})
}

type decisionRequest struct {
	Status string `json:"status" binding:"required,oneof=active rejected"`
	Notes  string `json:"notes"`
}

// Decide approves or rejects the registration for the user in the path.
func (h *RegistrationHandler) Decide(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	userID := c.Param("userID")
	err := h.Svc.Decide(c.Request.Context(), auth, application.DecisionInput{
		UserID: userID,
		Status: entity.Status(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	if h.Audit != nil {
		entry := repo.AuditEntry{
			UserID:    auth.UserID,
			Email:     auth.Email,
			Action:    "registration_decision",
			IP:        c.GetString("real_ip"),
			UserAgent: c.Request.UserAgent(),
			Metadata:  map[string]any{"target_user_id": userID, "decision": req.Status},
		}
		if aerr := h.Audit.Insert(c.Request.Context(), entry); aerr != nil && h.Logger != nil {
			h.Logger.WithError(aerr).Warn("audit insert failed")
		}
	}
	response.OK[any](c, http.StatusOK, map[string]any{"user_id": userID, "status": req.Status}, "decision recorded", nil)
}
