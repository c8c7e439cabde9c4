package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundvault/vinylstore/internal/container"
	handlers "github.com/soundvault/vinylstore/internal/interface/http"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/helpers"
)

// ProfileModule wires the authenticated account surface.
// Protected: GET /api/profile, PUT /api/profile, PUT /api/profile/password,
// POST /api/profile/photo
type ProfileModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/profile/password", m.Handler.ChangePassword)
		auth.POST("/profile/photo", m.Handler.UploadPhoto)
	}
}
