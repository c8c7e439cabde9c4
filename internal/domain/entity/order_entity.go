package entity

import "time"

// OrderStatusPending is the initial status of every order. The only further
// transition surface is the admin status update; there is no state machine.
const OrderStatusPending = "Pending"

// OrderLine is a snapshot of one purchased cart entry. It captures title and
// unit price at purchase time so later catalog changes never retroactively
// alter historical orders.
type OrderLine struct {
	VinylID   int64  `json:"vinyl_id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type Order struct {
	ID            int64
	UserID        int64
	CreatedAt     time.Time
	Status        string
	TotalAmount   int64
	Lines         []OrderLine
	PaymentMethod string
}
