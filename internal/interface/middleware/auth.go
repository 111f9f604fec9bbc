package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
	"github.com/bintangpradana/pressadmin/pkg/response"
)

const authContextKey = "authContext"

// Auth validates the access token cookie and ensures a live session exists in
// Redis whose session id matches the token. On success it stores an
// application.AuthContext in the Gin context for handlers to pass down.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		// A rotated or logged-out session invalidates older tokens even if
		// they have not expired yet.
		if data["sid"] != claims.SessionID {
			response.Abort(c, http.StatusUnauthorized, "session superseded", nil)
			return
		}

		auth := application.AuthContext{
			UserID: data["user_id"],
			Email:  data["email"],
			Role:   entity.Role(data["role"]),
		}
		c.Set(authContextKey, auth)
		c.Set("userID", auth.UserID)
		c.Next()
	}
}

// AuthOptional populates the AuthContext when a valid session is presented
// but lets anonymous requests through. Public routes use it so handlers can
// widen results for logged-in staff.
func AuthOptional(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			c.Next()
			return
		}
		auth := application.AuthContext{
			UserID: data["user_id"],
			Email:  data["email"],
			Role:   entity.Role(data["role"]),
		}
		c.Set(authContextKey, auth)
		c.Set("userID", auth.UserID)
		c.Next()
	}
}

// AuthFromContext returns the AuthContext stored by Auth. The boolean is
// false on routes that skipped the middleware.
func AuthFromContext(c *gin.Context) (application.AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return application.AuthContext{}, false
	}
	auth, ok := v.(application.AuthContext)
	return auth, ok
}

// RequireRole gates a route to callers whose role passes the check. Runs
// after Auth.
func RequireRole(check func(entity.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := AuthFromContext(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		if !check(auth.Role) {
			response.Abort(c, http.StatusForbidden, "insufficient permissions", nil)
			return
		}
		c.Next()
	}
}
