package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundvault/vinylstore/internal/container"
	handlers "github.com/soundvault/vinylstore/internal/interface/http"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
)

// CatalogModule exposes the public storefront catalog. No auth: browsing
// works without a session.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
}

func NewCatalogModule(h *handlers.CatalogHandler) *CatalogModule {
	return &CatalogModule{Handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/vinyls", rl, m.Handler.List)
	rg.GET("/vinyls/:id", rl, m.Handler.Get)
	// Search lives outside /vinyls so the :id param route stays unambiguous.
	rg.GET("/search/vinyls", rl, m.Handler.Search)
}
