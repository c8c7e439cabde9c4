package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundvault/vinylstore/internal/container"
	handlers "github.com/soundvault/vinylstore/internal/interface/http"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/helpers"
)

type CartModule struct {
	Handler *handlers.CartHandler
	JWT     *helpers.JWTManager
}

func NewCartModule(h *handlers.CartHandler, jwt *helpers.JWTManager) *CartModule {
	return &CartModule{Handler: h, JWT: jwt}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/cart", m.Handler.Get)
		auth.POST("/cart/items", m.Handler.AddItem)
		auth.PUT("/cart/items/:id", m.Handler.UpdateItem)
		auth.DELETE("/cart/items/:id", m.Handler.RemoveItem)
		auth.DELETE("/cart", m.Handler.Clear)
	}
}
