package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bintangpradana/pressadmin/internal/container"
	handlers "github.com/bintangpradana/pressadmin/internal/interface/http"
	"github.com/bintangpradana/pressadmin/internal/interface/middleware"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
)

// BlogModule wires the content API.
// Public reads go through AuthOptional so staff sessions widen results;
// writes require a session, with role checks living in the services.
type BlogModule struct {
	Blog  *handlers.BlogHandler
	Media *handlers.MediaHandler
	JWT   *helpers.JWTManager
}

func NewBlogModule(blog *handlers.BlogHandler, media *handlers.MediaHandler, jwt *helpers.JWTManager) *BlogModule {
	return &BlogModule{Blog: blog, Media: media, JWT: jwt}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	pub := rg.Group("/blog")
	pub.Use(middleware.AuthOptional(rdb, m.JWT), readLimiter)
	{
		pub.GET("/posts", m.Blog.ListPosts)
		pub.GET("/posts/:slug", m.Blog.GetPost)
		pub.GET("/search", searchLimiter, m.Blog.SearchPosts)
		pub.GET("/categories", m.Blog.ListCategories)
		pub.GET("/tags", m.Blog.ListTags)
	}

	auth := rg.Group("/blog")
	auth.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/posts", m.Blog.CreatePost)
		auth.PUT("/posts/:id", m.Blog.UpdatePost)
		auth.DELETE("/posts/:id", m.Blog.DeletePost)

		auth.POST("/categories", m.Blog.CreateCategory)
		auth.PUT("/categories/:id", m.Blog.UpdateCategory)
		auth.DELETE("/categories/:id", m.Blog.DeleteCategory)

		auth.POST("/tags", m.Blog.CreateTag)
		auth.DELETE("/tags/:id", m.Blog.DeleteTag)

		auth.POST("/media", m.Media.Upload)
		auth.GET("/media", m.Media.List)
		auth.DELETE("/media/:id", m.Media.Delete)
	}
}
