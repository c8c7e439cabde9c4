package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotificationFailed = errors.New("order notification failed")
	ErrPersistenceFailed  = errors.New("order persistence failed")
)

// ValidationError names the first customer-info field that failed.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid field: " + e.Field
}

// InsufficientStockError names the cart line whose quantity exceeds the
// vinyl's live stock at submission time.
type InsufficientStockError struct {
	Title string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for " + e.Title
}

// CustomerInfo is the checkout form payload. Phone follows the shop's
// nine-digit local format.
type CustomerInfo struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	Phone         string `validate:"required,len=9,number"`
	Address       string `validate:"required"`
	PaymentMethod string `validate:"required,oneof=debit credit cash"`
}

// PaymentMethodLabel maps a payment method tag to its display label.
func PaymentMethodLabel(method string) string {
	switch method {
	case "debit":
		return "Debit card"
	case "credit":
		return "Credit card"
	case "cash":
		return "Cash"
	default:
		return method
	}
}

// CheckoutService converts a validated cart into a durable order with
// authoritative stock enforcement.
//
// The step order is deliberate: the confirmation is dispatched BEFORE any
// stock or order mutation, so a failed send never leaves a committed order
// behind. The trade-off is the inverse window — a successful send followed
// by a persistence failure is possible and is not rolled back.
type CheckoutService struct {
	Cart     *CartService
	Vinyls   repository.VinylRepository
	Orders   repository.OrderRepository
	Notifier Notifier
	Logger   *logrus.Logger

	validate *validator.Validate
}

func NewCheckoutService(cart *CartService, vinyls repository.VinylRepository, orders repository.OrderRepository, notifier Notifier, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		Cart:     cart,
		Vinyls:   vinyls,
		Orders:   orders,
		Notifier: notifier,
		Logger:   logger,
		validate: validator.New(),
	}
}

// SubmitOrder runs the purchase flow for the currently bound cart:
// validate, re-check every line's stock against the catalog, notify,
// decrement stock, persist the order snapshot, clear the cart.
func (s *CheckoutService) SubmitOrder(ctx context.Context, info CustomerInfo) (*entity.Order, error) {
	if err := s.validateInfo(info); err != nil {
		return nil, err
	}

	userID := s.Cart.BoundUser()
	if userID == 0 {
		return nil, ErrCartNotBound
	}
	items := s.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// All-or-nothing stock gate: every line is re-read from the catalog
	// before any mutation.
	liveStock := make(map[int64]int, len(items))
	for _, it := range items {
		v, err := s.Vinyls.GetByID(ctx, it.Vinyl.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &InsufficientStockError{Title: it.Vinyl.Title}
			}
			s.logError(err, userID, "stock re-read failed")
			return nil, ErrPersistenceFailed
		}
		if it.Quantity > v.Stock {
			return nil, &InsufficientStockError{Title: v.Title}
		}
		liveStock[v.ID] = v.Stock
	}

	lines := make([]entity.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, entity.OrderLine{
			VinylID:   it.Vinyl.ID,
			Title:     it.Vinyl.Title,
			Artist:    it.Vinyl.Artist,
			Quantity:  it.Quantity,
			UnitPrice: it.Vinyl.Price,
		})
	}
	total := entity.CartTotal(items)

	err := s.Notifier.SendOrderConfirmation(ctx, OrderConfirmation{
		To:            info.Email,
		Name:          info.Name,
		Phone:         info.Phone,
		Address:       info.Address,
		PaymentMethod: PaymentMethodLabel(info.PaymentMethod),
		Lines:         lines,
		Total:         total,
		Date:          time.Now(),
	})
	if err != nil {
		s.logError(err, userID, "order confirmation dispatch failed")
		return nil, ErrNotificationFailed
	}

	// The customer has already been notified past this point; stock and
	// order failures are logged but the flow is not rolled back.
	for _, it := range items {
		newStock := liveStock[it.Vinyl.ID] - it.Quantity
		if err := s.Vinyls.UpdateStock(ctx, it.Vinyl.ID, newStock); err != nil {
			s.logError(err, userID, fmt.Sprintf("stock decrement failed for vinyl %d", it.Vinyl.ID))
		}
	}

	order := &entity.Order{
		UserID:        userID,
		Status:        entity.OrderStatusPending,
		TotalAmount:   total,
		Lines:         lines,
		PaymentMethod: info.PaymentMethod,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		s.logError(err, userID, "order persist failed")
		return nil, ErrPersistenceFailed
	}

	s.Cart.Clear(ctx)
	return order, nil
}

// OrdersByUser returns the user's order history, newest first.
func (s *CheckoutService) OrdersByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// UpdateOrderStatus sets an order's status (admin surface).
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	return s.Orders.UpdateStatus(ctx, orderID, status)
}

func (s *CheckoutService) validateInfo(info CustomerInfo) error {
	err := s.validate.Struct(info)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].StructField()}
	}
	return &ValidationError{Field: "payload"}
}

func (s *CheckoutService) logError(err error, userID int64, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error(msg)
	}
}
