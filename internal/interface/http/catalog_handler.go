package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/pkg/response"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

// List GET /api/vinyls — published records only.
func (h *CatalogHandler) List(c *gin.Context) {
	vinyls, err := h.Svc.ListAvailable(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("catalog list failed")
		response.Fail(c, http.StatusInternalServerError, "catalog unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, vinylListJSON(vinyls), "catalog", nil)
}

// Get GET /api/vinyls/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, "vinyl not found", nil)
		return
	}
	response.Success(c, http.StatusOK, vinylJSON(v), "vinyl", nil)
}

// Search GET /api/vinyls/search?q=...&size=...
func (h *CatalogHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("catalog search failed")
		response.Fail(c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"query": q})
}

func vinylJSON(v *entity.Vinyl) gin.H {
	return gin.H{
		"id":           v.ID,
		"title":        v.Title,
		"artist":       v.Artist,
		"image":        v.Image,
		"description":  v.Description,
		"tracklist":    v.Tracklist,
		"stock":        v.Stock,
		"price":        v.Price,
		"is_available": v.IsAvailable,
	}
}

func vinylListJSON(vinyls []entity.Vinyl) []gin.H {
	out := make([]gin.H, 0, len(vinyls))
	for i := range vinyls {
		out = append(out, vinylJSON(&vinyls[i]))
	}
	return out
}
