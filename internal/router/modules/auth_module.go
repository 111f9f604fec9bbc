package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bintangpradana/pressadmin/internal/container"
	handlers "github.com/bintangpradana/pressadmin/internal/interface/http"
	"github.com/bintangpradana/pressadmin/internal/interface/middleware"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
)

// AuthModule wires registration, verification and session routes.
// Public: register, verify-otp, resend-verification, reset-password,
// reset-password/confirm, login, refresh, admin/activate.
// Protected: logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Tight per-IP limits on everything that triggers email or exercises
	// credentials.
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	otpLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 3, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	pub := rg.Group("/auth")
	{
		pub.POST("/register", registerLimiter, m.Handler.Register)
		pub.POST("/verify-otp", otpLimiter, m.Handler.VerifyOTP)
		pub.POST("/resend-verification", resendLimiter, m.Handler.ResendVerification)
		pub.POST("/reset-password", resendLimiter, m.Handler.RequestPasswordReset)
		pub.POST("/reset-password/confirm", otpLimiter, m.Handler.ResetPassword)
		pub.POST("/login", loginLimiter, m.Handler.Login)
		pub.POST("/refresh", refreshLimiter, m.Handler.Refresh)
		pub.POST("/admin/activate", registerLimiter, m.Handler.ActivateAdmin)
	}

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(rdb, m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
