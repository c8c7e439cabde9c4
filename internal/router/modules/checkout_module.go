package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundvault/vinylstore/internal/container"
	handlers "github.com/soundvault/vinylstore/internal/interface/http"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/helpers"
)

type CheckoutModule struct {
	Handler *handlers.CheckoutHandler
	JWT     *helpers.JWTManager
}

func NewCheckoutModule(h *handlers.CheckoutHandler, jwt *helpers.JWTManager) *CheckoutModule {
	return &CheckoutModule{Handler: h, JWT: jwt}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	// Checkout is deliberately tight: one order every few seconds is plenty.
	submitLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.POST("/checkout", submitLimiter, m.Handler.Submit)
		auth.GET("/orders", m.Handler.Orders)
	}
}
