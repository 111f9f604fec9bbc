package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
	"github.com/bintangpradana/pressadmin/pkg/response"
	"github.com/bintangpradana/pressadmin/pkg/validation"
)

// AuthHandler exposes registration, verification and session endpoints.
type AuthHandler struct {
	Svc     *application.AuthService
	Audit   repo.AuditRepository
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager

	// ActivationKey gates the one-time super_admin bootstrap endpoint.
	ActivationKey string
}

func NewAuthHandler(svc *application.AuthService, audit repo.AuditRepository, logger *logrus.Logger, cookies *helpers.CookieManager, activationKey string) *AuthHandler {
	return &AuthHandler{Svc: svc, Audit: audit, Logger: logger, Cookies: cookies, ActivationKey: activationKey}
}

// audit records a security event. Failures are logged, never surfaced.
func (h *AuthHandler) audit(c *gin.Context, action, userID, email string, meta map[string]any) {
	if h.Audit == nil {
		return
	}
	entry := repo.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        c.GetString("real_ip"),
		UserAgent: c.Request.UserAgent(),
		Metadata:  meta,
	}
	if err := h.Audit.Insert(c.Request.Context(), entry); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		failWith(c, err)
		return
	}
	h.audit(c, "register", res.UserID, req.Email, map[string]any{"requested_role": req.Role})
	response.OK(c, http.StatusCreated, res, "registration received, check your email for the verification code", nil)
}

type verifyOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	OTP     string `json:"otp" binding:"required"`
	Purpose string `json:"purpose" binding:"omitempty,oneof=email_verification password_reset"`
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	purpose := entity.OTPPurpose(req.Purpose)
	if purpose == "" {
		purpose = entity.PurposeEmailVerification
	}
	res, err := h.Svc.VerifyOTP(c.Request.Context(), application.VerifyInput{
		Email:   req.Email,
		OTP:     req.OTP,
		Purpose: purpose,
	})
	if err != nil {
		h.audit(c, "verify_otp_failed", "", req.Email, nil)
		failWith(c, err)
		return
	}
	msg := "code verified"
	if purpose == entity.PurposeEmailVerification {
		msg = "email verified, awaiting admin approval"
	}
	h.audit(c, "verify_otp", res.UserID, req.Email, map[string]any{"purpose": string(purpose)})
	response.OK(c, http.StatusOK, res, msg, nil)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resendRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"omitempty,oneof=email_verification password_reset"`
}

// ResendVerification always answers the same way so registered addresses
// cannot be probed.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	purpose := entity.OTPPurpose(req.Purpose)
	if purpose == "" {
		purpose = entity.PurposeEmailVerification
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), req.Email, purpose); err != nil {
		failWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "if the address is registered, a new code has been sent", nil)
}

// RequestPasswordReset mirrors ResendVerification's enumeration resistance.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		failWith(c, err)
		return
	}
	h.audit(c, "password_reset_requested", "", req.Email, nil)
	response.OK[any](c, http.StatusOK, nil, "if the address is registered, a reset code has been sent", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.audit(c, "password_reset_failed", "", req.Email, nil)
		failWith(c, err)
		return
	}
	h.audit(c, "password_reset", "", req.Email, nil)
	response.OK[any](c, http.StatusOK, nil, "password updated, you can log in now", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.audit(c, "login_failed", "", req.Email, nil)
		failWith(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	h.audit(c, "login", res.UserID, res.Email, nil)
	response.OK(c, http.StatusOK, res, "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, userID, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	h.audit(c, "token_refresh", userID, "", nil)
	response.OK[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	h.Svc.Logout(c.Request.Context(), uid)
	h.Cookies.Clear(c)
	h.audit(c, "logout", uid, "", nil)
	response.OK[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

type activateAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
	Key   string `json:"key" binding:"required"`
}

// ActivateAdmin promotes an account to super_admin when the caller presents
// the activation key from the environment.
func (h *AuthHandler) ActivateAdmin(c *gin.Context) {
	var req activateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ActivateAdmin(c.Request.Context(), req.Email, req.Key, h.ActivationKey)
	if err != nil {
		h.audit(c, "admin_activation_failed", "", req.Email, nil)
		failWith(c, err)
		return
	}
	h.audit(c, "admin_activation", u.ID, u.Email, nil)
	response.OK(c, http.StatusOK, gin.H{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"status":  u.Status,
	}, "account activated", nil)
}
