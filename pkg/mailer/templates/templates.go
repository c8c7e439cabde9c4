package templates

import (
	"fmt"
	"html/template"
	"strings"
	texttpl "text/template"
)

const (
	OrderConfirmation = "order_confirmation"
	ResetPassword     = "reset_password"
)

// SubjectFor maps a template name to its mail subject.
func SubjectFor(name string) string {
	switch strings.ToLower(name) {
	case OrderConfirmation:
		return "Your order confirmation"
	case ResetPassword:
		return "Reset your password"
	default:
		return "Notification"
	}
}

var textTemplates = texttpl.Must(texttpl.New("text").Parse(`
{{define "order_confirmation"}}Hi {{.Name}},

Thank you for your order!

{{.CartItems}}
Total: {{.Total}}
Payment method: {{.PaymentMethod}}
Shipping address: {{.Address}}
Phone: {{.Phone}}
Order date: {{.OrderDate}}

We will let you know when your records ship.
{{end}}
{{define "reset_password"}}Hi {{.Name}},

We received a request to reset your password. Open the link below to choose
a new one. The link expires in {{.ExpiresIn}}.

{{.ResetURL}}

If you did not request this, you can ignore this message.
{{end}}`))

var htmlTemplates = template.Must(template.New("html").Parse(`
{{define "order_confirmation"}}<h2>Thank you for your order, {{.Name}}!</h2>
<pre>{{.CartItems}}</pre>
<p><strong>Total:</strong> {{.Total}}<br>
<strong>Payment method:</strong> {{.PaymentMethod}}<br>
<strong>Shipping address:</strong> {{.Address}}<br>
<strong>Phone:</strong> {{.Phone}}<br>
<strong>Order date:</strong> {{.OrderDate}}</p>
<p>We will let you know when your records ship.</p>{{end}}
{{define "reset_password"}}<h2>Password reset</h2>
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. The link expires in {{.ExpiresIn}}.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>If you did not request this, you can ignore this message.</p>{{end}}`))

// Render produces the subject, text body, and HTML body for a template.
func Render(name string, data map[string]any) (subject, text, htmlBody string, err error) {
	name = strings.ToLower(name)

	var tb strings.Builder
	if err = textTemplates.ExecuteTemplate(&tb, name, data); err != nil {
		return "", "", "", fmt.Errorf("render text %q: %w", name, err)
	}
	var hb strings.Builder
	if err = htmlTemplates.ExecuteTemplate(&hb, name, data); err != nil {
		return "", "", "", fmt.Errorf("render html %q: %w", name, err)
	}
	return SubjectFor(name), strings.TrimSpace(tb.String()), hb.String(), nil
}
