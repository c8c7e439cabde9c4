package entity

// CartItem pairs a vinyl snapshot with a positive quantity. The snapshot is
// live-referenced for stock checks but its price is what the user saw when
// the item was added, so cart totals stay internally consistent even if the
// catalog price drifts before checkout re-validates.
type CartItem struct {
	Vinyl    Vinyl `json:"vinyl"`
	Quantity int   `json:"quantity"`
}

func (ci CartItem) Subtotal() int64 {
	return ci.Vinyl.Price * int64(ci.Quantity)
}

// CartTotal sums quantity * unit price over the given entries.
func CartTotal(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// CartItemCount sums quantities over the given entries.
func CartItemCount(items []CartItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
