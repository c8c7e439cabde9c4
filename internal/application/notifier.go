package application

import (
	"context"
	"time"

	"github.com/soundvault/vinylstore/internal/domain/entity"
)

// OrderConfirmation carries everything the outbound message needs: a
// snapshot of the purchased lines, the total, and the customer details.
type OrderConfirmation struct {
	To            string
	Name          string
	Phone         string
	Address       string
	PaymentMethod string
	Lines         []entity.OrderLine
	Total         int64
	Date          time.Time
}

// Notifier is the external collaborator that sends the order-confirmation
// message. The coordinator only consumes its success/failure status.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, oc OrderConfirmation) error
}
