package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/response"
)

type CheckoutHandler struct {
	Checkout *application.CheckoutService
	Cart     *application.CartService
	Logger   *logrus.Logger
}

func NewCheckoutHandler(checkout *application.CheckoutService, cart *application.CartService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout, Cart: cart, Logger: logger}
}

type checkoutRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

func orderJSON(o *entity.Order) gin.H {
	return gin.H{
		"id":             o.ID,
		"user_id":        o.UserID,
		"payment_method": o.PaymentMethod,
		"total":          o.TotalAmount,
		"status":         o.Status,
		"lines":          o.Lines,
		"created_at":     o.CreatedAt,
	}
}

// Submit POST /api/checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	uid := middleware.UserID(c)
	if h.Cart.BoundUser() != uid {
		response.Fail(c, http.StatusConflict, "cart is not bound to this user", nil)
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	order, err := h.Checkout.SubmitOrder(c.Request.Context(), application.CustomerInfo{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.failCheckout(c, err)
		return
	}
	response.Success(c, http.StatusCreated, orderJSON(order), "order placed", nil)
}

// Orders GET /api/orders
func (h *CheckoutHandler) Orders(c *gin.Context) {
	uid := middleware.UserID(c)
	orders, err := h.Checkout.OrdersByUser(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list orders failed")
		response.Fail(c, http.StatusInternalServerError, "could not load orders", nil)
		return
	}
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	response.Success(c, http.StatusOK, out, "orders", nil)
}

func (h *CheckoutHandler) failCheckout(c *gin.Context, err error) {
	var vErr *application.ValidationError
	var stockErr *application.InsufficientStockError
	switch {
	case errors.As(err, &vErr):
		response.Fail(c, http.StatusBadRequest, "invalid customer information", gin.H{"field": vErr.Field})
	case errors.As(err, &stockErr):
		response.Fail(c, http.StatusConflict, "insufficient stock", gin.H{"title": stockErr.Title})
	case errors.Is(err, application.ErrEmptyCart):
		response.Fail(c, http.StatusBadRequest, "cart is empty", nil)
	case errors.Is(err, application.ErrCartNotBound):
		response.Fail(c, http.StatusConflict, "no active cart; log in first", nil)
	case errors.Is(err, application.ErrNotificationFailed):
		response.Fail(c, http.StatusBadGateway, "could not send the order confirmation; the order was not placed", nil)
	case errors.Is(err, application.ErrPersistenceFailed):
		response.Fail(c, http.StatusInternalServerError, "could not record the order", nil)
	default:
		h.Logger.WithError(err).Error("checkout failed")
		response.Fail(c, http.StatusInternalServerError, "checkout failed", nil)
	}
}
