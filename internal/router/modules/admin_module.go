package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundvault/vinylstore/internal/container"
	handlers "github.com/soundvault/vinylstore/internal/interface/http"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/helpers"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.AdminOnly())
	admin.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/vinyls", m.Handler.ListVinyls)
		admin.POST("/vinyls", m.Handler.CreateVinyl)
		admin.PUT("/vinyls/:id", m.Handler.UpdateVinyl)
		admin.DELETE("/vinyls/:id", m.Handler.DeleteVinyl)
		admin.PATCH("/vinyls/:id/stock", m.Handler.UpdateStock)
		admin.PATCH("/vinyls/:id/availability", m.Handler.SetAvailability)

		admin.GET("/users", m.Handler.ListUsers)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)

		admin.PATCH("/orders/:id/status", m.Handler.UpdateOrderStatus)
	}
}
