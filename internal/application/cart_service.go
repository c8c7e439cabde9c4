package application

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
	"github.com/soundvault/vinylstore/pkg/stream"
)

var (
	ErrCartNotBound      = errors.New("no user bound to cart")
	ErrOutOfStock        = errors.New("item is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartCache is the durable per-user snapshot kept next to the Postgres rows,
// merged with them on (re-)login.
type CartCache interface {
	Load(ctx context.Context, userID int64) ([]entity.CartItem, error)
	Save(ctx context.Context, userID int64, items []entity.CartItem) error
	Delete(ctx context.Context, userID int64) error
}

// CartService owns the authoritative in-memory cart for the bound user.
//
// All stock checks here are advisory point-in-time reads; the checkout
// coordinator re-validates authoritatively at purchase time. Every mutation
// attempts persistence first and publishes the new state regardless of the
// persistence outcome — a failed save is reconciled by the next successful
// one, so consistency with the store is eventual, not atomic.
type CartService struct {
	Carts  repository.CartRepository
	Vinyls repository.VinylRepository
	Cache  CartCache
	Logger *logrus.Logger

	mu     sync.Mutex
	userID int64 // 0 while unbound
	items  []entity.CartItem
	out    *stream.Value[[]entity.CartItem]
}

func NewCartService(carts repository.CartRepository, vinyls repository.VinylRepository, cache CartCache, logger *logrus.Logger) *CartService {
	return &CartService{
		Carts:  carts,
		Vinyls: vinyls,
		Cache:  cache,
		Logger: logger,
		items:  []entity.CartItem{},
		out:    stream.New([]entity.CartItem{}),
	}
}

// Watch follows the session stream and rebinds the cart whenever the active
// user changes. Run it in its own goroutine for the process lifetime.
func (s *CartService) Watch(ctx context.Context, sessions *SessionService) {
	ch, cancel := sessions.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			if u == nil {
				s.Unbind(ctx)
			} else {
				s.Bind(ctx, u.ID)
			}
		}
	}
}

// Bind loads and reconciles the user's cart: union of the cached snapshot
// and the persisted rows by vinyl id, keeping the greater quantity on
// conflict. Greater-wins avoids double counting across duplicate sync
// attempts at the cost of occasionally resurrecting a remotely removed
// decrement; a known simplification.
func (s *CartService) Bind(ctx context.Context, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == userID {
		return
	}
	if s.userID != 0 {
		s.flushLocked(ctx)
	}
	s.userID = userID

	cached, err := s.Cache.Load(ctx, userID)
	if err != nil {
		s.logWarn(err, userID, "cart cache load failed")
		cached = nil
	}
	persisted, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		s.logWarn(err, userID, "cart load failed")
		persisted = nil
	}

	s.items = mergeCarts(cached, persisted)
	s.persistLocked(ctx)
	s.out.Set(s.snapshotLocked())
}

// Unbind flushes the outgoing user's cart to durable storage, then clears
// the binding so a later re-login recovers the contents. Idempotent.
func (s *CartService) Unbind(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == 0 {
		return
	}
	s.flushLocked(ctx)
	s.userID = 0
	s.items = []entity.CartItem{}
	s.out.Set([]entity.CartItem{})
}

// AddToCart adds one unit of the given vinyl. It refuses while unbound, for
// a vinyl with no stock, and when the existing entry already equals the
// vinyl's current stock.
func (s *CartService) AddToCart(ctx context.Context, vinyl *entity.Vinyl) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == 0 {
		return ErrCartNotBound
	}
	if vinyl.Stock <= 0 {
		return ErrOutOfStock
	}
	idx := indexOf(s.items, vinyl.ID)
	if idx >= 0 {
		if s.items[idx].Quantity >= vinyl.Stock {
			return ErrInsufficientStock
		}
		s.items[idx].Quantity++
		s.items[idx].Vinyl = *vinyl
	} else {
		s.items = append(s.items, entity.CartItem{Vinyl: *vinyl, Quantity: 1})
	}
	s.persistLocked(ctx)
	s.out.Set(s.snapshotLocked())
	return nil
}

// RemoveFromCart drops the entry for the vinyl. No-op while unbound.
func (s *CartService) RemoveFromCart(ctx context.Context, vinylID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == 0 {
		return
	}
	idx := indexOf(s.items, vinylID)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persistLocked(ctx)
	s.out.Set(s.snapshotLocked())
}

// UpdateQuantity sets an entry's quantity. Zero or less behaves as removal;
// a quantity above the vinyl's current stock is refused.
func (s *CartService) UpdateQuantity(ctx context.Context, vinylID int64, quantity int) error {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, vinylID)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == 0 {
		return ErrCartNotBound
	}
	idx := indexOf(s.items, vinylID)
	if idx < 0 {
		return repository.ErrNotFound
	}

	stock := s.items[idx].Vinyl.Stock
	if v, err := s.Vinyls.GetByID(ctx, vinylID); err == nil {
		stock = v.Stock
		s.items[idx].Vinyl = *v
	} else {
		s.logWarn(err, s.userID, "stock re-read failed, using cart snapshot")
	}
	if quantity > stock {
		return ErrInsufficientStock
	}

	s.items[idx].Quantity = quantity
	s.persistLocked(ctx)
	s.out.Set(s.snapshotLocked())
	return nil
}

// Clear empties the cart and persists the empty state.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == 0 {
		return
	}
	s.items = []entity.CartItem{}
	s.persistLocked(ctx)
	s.out.Set([]entity.CartItem{})
}

// Items returns a snapshot of the current entries.
func (s *CartService) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total is computed from the snapshots held in the cart, not re-fetched, so
// it matches what the user saw even if catalog prices drift.
func (s *CartService) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CartTotal(s.items)
}

func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CartItemCount(s.items)
}

// Subscribe returns a replay-latest subscription to cart contents.
func (s *CartService) Subscribe() (<-chan []entity.CartItem, func()) {
	return s.out.Subscribe()
}

// BoundUser returns the bound user id, or 0 while unbound.
func (s *CartService) BoundUser() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// persistLocked attempts to save the current cart to both durable sides.
// Failures are logged, never propagated: the in-memory state has already
// been mutated and is published regardless.
func (s *CartService) persistLocked(ctx context.Context) {
	if err := s.Carts.ReplaceForUser(ctx, s.userID, s.items); err != nil {
		s.logWarn(err, s.userID, "cart persist failed")
	}
	if err := s.Cache.Save(ctx, s.userID, s.items); err != nil {
		s.logWarn(err, s.userID, "cart cache save failed")
	}
}

func (s *CartService) flushLocked(ctx context.Context) {
	s.persistLocked(ctx)
}

func (s *CartService) snapshotLocked() []entity.CartItem {
	out := make([]entity.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartService) logWarn(err error, userID int64, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}

func indexOf(items []entity.CartItem, vinylID int64) int {
	for i := range items {
		if items[i].Vinyl.ID == vinylID {
			return i
		}
	}
	return -1
}

// mergeCarts unions two carts by vinyl id, keeping the greater quantity when
// both sides carry the same vinyl. Entries keep the order of the cached side
// with persisted-only entries appended.
func mergeCarts(cached, persisted []entity.CartItem) []entity.CartItem {
	merged := make([]entity.CartItem, 0, len(cached)+len(persisted))
	merged = append(merged, cached...)
	for _, p := range persisted {
		idx := indexOf(merged, p.Vinyl.ID)
		if idx < 0 {
			merged = append(merged, p)
			continue
		}
		if p.Quantity > merged[idx].Quantity {
			merged[idx].Quantity = p.Quantity
		}
		// persisted side carries the fresher vinyl snapshot
		merged[idx].Vinyl = p.Vinyl
	}
	return merged
}
