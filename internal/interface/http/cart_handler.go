package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/response"
	"github.com/soundvault/vinylstore/pkg/validation"
)

type CartHandler struct {
	Cart    *application.CartService
	Catalog *application.CatalogService
	Logger  *logrus.Logger
}

func NewCartHandler(cart *application.CartService, catalog *application.CatalogService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Cart: cart, Catalog: catalog, Logger: logger}
}

// bound refuses requests from a user other than the one the cart is bound
// to. The cart binding follows the active session, one per process.
func (h *CartHandler) bound(c *gin.Context) bool {
	uid := middleware.UserID(c)
	if h.Cart.BoundUser() != uid {
		response.Fail(c, http.StatusConflict, "cart is not bound to this user", nil)
		return false
	}
	return true
}

func cartJSON(items []entity.CartItem, total int64, count int) gin.H {
	entries := make([]gin.H, 0, len(items))
	for i := range items {
		entries = append(entries, gin.H{
			"vinyl":    vinylJSON(&items[i].Vinyl),
			"quantity": items[i].Quantity,
			"subtotal": items[i].Subtotal(),
		})
	}
	return gin.H{"items": entries, "total": total, "item_count": count}
}

func (h *CartHandler) respondCart(c *gin.Context, message string) {
	items := h.Cart.Items()
	response.Success(c, http.StatusOK, cartJSON(items, entity.CartTotal(items), entity.CartItemCount(items)), message, nil)
}

// Get GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	if !h.bound(c) {
		return
	}
	h.respondCart(c, "cart")
}

type addItemRequest struct {
	VinylID int64 `json:"vinyl_id" binding:"required,gt=0"`
}

// AddItem POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	if !h.bound(c) {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Catalog.Get(c.Request.Context(), req.VinylID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, "vinyl not found", nil)
		return
	}
	if err := h.Cart.AddToCart(c.Request.Context(), v); err != nil {
		h.failCart(c, err)
		return
	}
	h.respondCart(c, "item added")
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem PUT /api/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	if !h.bound(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Cart.UpdateQuantity(c.Request.Context(), id, req.Quantity); err != nil {
		h.failCart(c, err)
		return
	}
	h.respondCart(c, "quantity updated")
}

// RemoveItem DELETE /api/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if !h.bound(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.Cart.RemoveFromCart(c.Request.Context(), id)
	h.respondCart(c, "item removed")
}

// Clear DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if !h.bound(c) {
		return
	}
	h.Cart.Clear(c.Request.Context())
	h.respondCart(c, "cart cleared")
}

// failCart maps cart errors to exactly one user-facing message each.
func (h *CartHandler) failCart(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrCartNotBound):
		response.Fail(c, http.StatusConflict, "no active cart; log in first", nil)
	case errors.Is(err, application.ErrOutOfStock):
		response.Fail(c, http.StatusConflict, "item is out of stock", nil)
	case errors.Is(err, application.ErrInsufficientStock):
		response.Fail(c, http.StatusConflict, "not enough stock for the requested quantity", nil)
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "item is not in the cart", nil)
	default:
		h.Logger.WithError(err).Error("cart operation failed")
		response.Fail(c, http.StatusInternalServerError, "cart operation failed", nil)
	}
}
