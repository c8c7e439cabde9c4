package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/soundvault/vinylstore/pkg/helpers"
	"github.com/soundvault/vinylstore/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

// Auth validates the access token and ensures an active session exists in
// Redis. It sets userID (int64) and userRole in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		// Retrieve session from Redis as a hash
		key := "user:session:" + strconv.FormatInt(claims.UserID, 10)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			resp := response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserRoleKey, data["role"])
		c.Next()
	}
}

// AdminOnly allows only sessions in the admin role. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRoleKey) != "admin" {
			resp := response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id from the Gin context.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}
