package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
	"github.com/soundvault/vinylstore/pkg/response"
	"github.com/soundvault/vinylstore/pkg/validation"
)

// AdminHandler bundles the back-office surface: catalog management, user
// administration and order status updates. Every route behind it passes
// through the AdminOnly middleware.
type AdminHandler struct {
	Catalog  *application.CatalogService
	Users    *application.UserService
	Checkout *application.CheckoutService
	Logger   *logrus.Logger
}

func NewAdminHandler(catalog *application.CatalogService, users *application.UserService, checkout *application.CheckoutService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Catalog: catalog, Users: users, Checkout: checkout, Logger: logger}
}

type vinylRequest struct {
	Title       string   `json:"title" binding:"required"`
	Artist      string   `json:"artist" binding:"required"`
	Image       string   `json:"image"`
	Description []string `json:"description"`
	Tracklist   []string `json:"tracklist"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Price       int64    `json:"price" binding:"gte=0"`
	IsAvailable bool     `json:"is_available"`
}

// ListVinyls GET /api/admin/vinyls — includes unpublished records.
func (h *AdminHandler) ListVinyls(c *gin.Context) {
	vinyls, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("admin catalog list failed")
		response.Fail(c, http.StatusInternalServerError, "catalog unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, vinylListJSON(vinyls), "catalog", nil)
}

// CreateVinyl POST /api/admin/vinyls
func (h *AdminHandler) CreateVinyl(c *gin.Context) {
	var req vinylRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v := &entity.Vinyl{
		Title:       req.Title,
		Artist:      req.Artist,
		Image:       req.Image,
		Description: req.Description,
		Tracklist:   req.Tracklist,
		Stock:       req.Stock,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	}
	if err := h.Catalog.Create(c.Request.Context(), v); err != nil {
		h.Logger.WithError(err).Error("vinyl create failed")
		response.Fail(c, http.StatusInternalServerError, "could not create vinyl", nil)
		return
	}
	response.Success(c, http.StatusCreated, vinylJSON(v), "vinyl created", nil)
}

// UpdateVinyl PUT /api/admin/vinyls/:id
func (h *AdminHandler) UpdateVinyl(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req vinylRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v := &entity.Vinyl{
		ID:          id,
		Title:       req.Title,
		Artist:      req.Artist,
		Image:       req.Image,
		Description: req.Description,
		Tracklist:   req.Tracklist,
		Stock:       req.Stock,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	}
	if err := h.Catalog.Update(c.Request.Context(), v); err != nil {
		h.failRepo(c, err, "could not update vinyl")
		return
	}
	response.Success(c, http.StatusOK, vinylJSON(v), "vinyl updated", nil)
}

// DeleteVinyl DELETE /api/admin/vinyls/:id
func (h *AdminHandler) DeleteVinyl(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Catalog.Delete(c.Request.Context(), id); err != nil {
		h.failRepo(c, err, "could not delete vinyl")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "vinyl deleted", nil)
}

type stockRequest struct {
	Stock int `json:"stock" binding:"gte=0"`
}

// UpdateStock PATCH /api/admin/vinyls/:id/stock
func (h *AdminHandler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Catalog.UpdateStock(c.Request.Context(), id, req.Stock); err != nil {
		h.failRepo(c, err, "could not update stock")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "stock": req.Stock}, "stock updated", nil)
}

type availabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

// SetAvailability PATCH /api/admin/vinyls/:id/availability
func (h *AdminHandler) SetAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if err := h.Catalog.SetAvailability(c.Request.Context(), id, req.IsAvailable); err != nil {
		h.failRepo(c, err, "could not update availability")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_available": req.IsAvailable}, "availability updated", nil)
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("user list failed")
		response.Fail(c, http.StatusInternalServerError, "could not load users", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userJSON(&users[i]))
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

// DeleteUser DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Users.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrAdminNotDeletable) {
			response.Fail(c, http.StatusForbidden, "admin accounts cannot be deleted", nil)
			return
		}
		h.failRepo(c, err, "could not delete user")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted", nil)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus PATCH /api/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Checkout.UpdateOrderStatus(c.Request.Context(), id, req.Status); err != nil {
		h.failRepo(c, err, "could not update order status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status}, "order status updated", nil)
}

func (h *AdminHandler) failRepo(c *gin.Context, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "not found", nil)
		return
	}
	h.Logger.WithError(err).Error(msg)
	response.Fail(c, http.StatusInternalServerError, msg, nil)
}
