package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/pkg/helpers"
	"github.com/soundvault/vinylstore/pkg/mailer"
	"github.com/soundvault/vinylstore/pkg/mailer/templates"
)

// EmailNotifier dispatches order confirmations by publishing an EmailJob to
// the durable RabbitMQ queue; the email worker renders and sends it through
// Mailgun. The publish result is the notifier status the checkout
// coordinator gates on.
type EmailNotifier struct {
	Pub *helpers.RabbitPublisher
}

func NewEmailNotifier(pub *helpers.RabbitPublisher) *EmailNotifier {
	return &EmailNotifier{Pub: pub}
}

func (n *EmailNotifier) SendOrderConfirmation(ctx context.Context, oc application.OrderConfirmation) error {
	job := mailer.EmailJob{
		To:       oc.To,
		Template: templates.OrderConfirmation,
		Data: map[string]any{
			"Name":          oc.Name,
			"Phone":         oc.Phone,
			"Address":       oc.Address,
			"PaymentMethod": oc.PaymentMethod,
			"CartItems":     itemizedBlock(oc),
			"Total":         FormatAmount(oc.Total),
			"OrderDate":     oc.Date.Format("02-01-2006"),
		},
	}
	return n.Pub.PublishJSON(ctx, job)
}

func itemizedBlock(oc application.OrderConfirmation) string {
	var b strings.Builder
	for i, l := range oc.Lines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Title: %s\n", l.Title)
		fmt.Fprintf(&b, "Artist: %s\n", l.Artist)
		fmt.Fprintf(&b, "Quantity: %d\n", l.Quantity)
		fmt.Fprintf(&b, "Unit price: %s\n", FormatAmount(l.UnitPrice))
		fmt.Fprintf(&b, "Subtotal: %s\n", FormatAmount(l.UnitPrice*int64(l.Quantity)))
	}
	return b.String()
}

// FormatAmount renders an integer peso amount with dot thousand separators,
// e.g. 3500 -> "$3.500".
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
		if len(digits) > pre {
			b.WriteByte('.')
		}
	}
	for i := pre; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}
