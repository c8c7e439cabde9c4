package entity

// Vinyl is a catalog record. Price is an integer-granularity amount in the
// shop currency. IsAvailable is a soft "published" switch controlled by the
// admin surface only; it is deliberately independent of Stock.
type Vinyl struct {
	ID          int64
	Title       string
	Artist      string
	Image       string
	Description []string
	Tracklist   []string
	Stock       int
	Price       int64
	IsAvailable bool
}
