package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bintangpradana/pressadmin/internal/container"
	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	handlers "github.com/bintangpradana/pressadmin/internal/interface/http"
	"github.com/bintangpradana/pressadmin/internal/interface/middleware"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
)

// RegistrationModule wires the admin review queue.
// Protected (admin or super_admin): GET /registrations, PUT /registrations/:userID.
type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
	JWT     *helpers.JWTManager
}

func NewRegistrationModule(h *handlers.RegistrationHandler, jwt *helpers.JWTManager) *RegistrationModule {
	return &RegistrationModule{Handler: h, JWT: jwt}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	admin := rg.Group("/registrations")
	admin.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.RequireRole(entity.Role.CanReview),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.GET("", m.Handler.List)
		admin.PUT("/:userID", m.Handler.Decide)
	}
}
