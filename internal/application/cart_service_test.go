package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

func vinyl(id int64, title string, stock int, price int64) *entity.Vinyl {
	return &entity.Vinyl{ID: id, Title: title, Artist: "Various", Stock: stock, Price: price, IsAvailable: true}
}

func newCartFixture(vinyls ...*entity.Vinyl) (*CartService, *memCartRepo, *memVinylRepo, *memCartCache) {
	carts := newMemCartRepo()
	catalog := newMemVinylRepo(vinyls...)
	cache := newMemCartCache()
	svc := NewCartService(carts, catalog, cache, testLogger())
	return svc, carts, catalog, cache
}

func TestCartAddRefusedWhileUnbound(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	err := svc.AddToCart(context.Background(), vinyl(1, "Blue Train", 5, 4000))
	assert.ErrorIs(t, err, ErrCartNotBound)
	assert.Empty(t, svc.Items())
}

func TestCartAddAggregatesQuantity(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, _, _, _ := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)

	require.NoError(t, svc.AddToCart(ctx, v))
	require.NoError(t, svc.AddToCart(ctx, v))

	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(8000), svc.Total())
	assert.Equal(t, 2, svc.ItemCount())
}

func TestCartAddRefusesZeroStock(t *testing.T) {
	v := vinyl(1, "Blue Train", 0, 4000)
	svc, _, _, _ := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)

	err := svc.AddToCart(ctx, v)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, svc.Items())
}

func TestCartAddRefusesBeyondStock(t *testing.T) {
	v := vinyl(1, "Blue Train", 2, 4000)
	svc, _, _, _ := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)

	require.NoError(t, svc.AddToCart(ctx, v))
	require.NoError(t, svc.AddToCart(ctx, v))
	err := svc.AddToCart(ctx, v)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, svc.Items()[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, _, _, _ := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)
	require.NoError(t, svc.AddToCart(ctx, v))

	require.NoError(t, svc.UpdateQuantity(ctx, 1, 4))
	assert.Equal(t, 4, svc.Items()[0].Quantity)

	// above live stock
	err := svc.UpdateQuantity(ctx, 1, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// zero behaves as removal
	require.NoError(t, svc.UpdateQuantity(ctx, 1, 0))
	assert.Empty(t, svc.Items())
}

func TestCartUpdateQuantityUnknownItem(t *testing.T) {
	svc, _, _, _ := newCartFixture(vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	svc.Bind(ctx, 7)

	err := svc.UpdateQuantity(ctx, 99, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartRemoveAndClear(t *testing.T) {
	a := vinyl(1, "Blue Train", 5, 4000)
	b := vinyl(2, "Kind of Blue", 5, 6000)
	svc, carts, _, _ := newCartFixture(a, b)
	ctx := context.Background()
	svc.Bind(ctx, 7)
	require.NoError(t, svc.AddToCart(ctx, a))
	require.NoError(t, svc.AddToCart(ctx, b))

	svc.RemoveFromCart(ctx, 1)
	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Vinyl.ID)

	svc.Clear(ctx)
	assert.Empty(t, svc.Items())

	persisted, err := carts.GetByUser(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestCartPersistFailureKeepsMemoryState(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, carts, _, cache := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)

	carts.err = assert.AnError
	cache.err = assert.AnError
	require.NoError(t, svc.AddToCart(ctx, v))

	// the in-memory cart moved on even though both saves failed
	require.Len(t, svc.Items(), 1)

	// next successful mutation reconciles durable state
	carts.err = nil
	cache.err = nil
	require.NoError(t, svc.AddToCart(ctx, v))
	persisted, err := carts.GetByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, persisted[0].Quantity)
}

func TestCartBindMergesGreaterQuantityWins(t *testing.T) {
	v := vinyl(1, "Blue Train", 10, 4000)
	svc, carts, _, cache := newCartFixture(v)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, 7, []entity.CartItem{{Vinyl: *v, Quantity: 3}}))
	require.NoError(t, carts.ReplaceForUser(ctx, 7, []entity.CartItem{{Vinyl: *v, Quantity: 5}}))

	svc.Bind(ctx, 7)
	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartBindUnionsDistinctItems(t *testing.T) {
	a := vinyl(1, "Blue Train", 10, 4000)
	b := vinyl(2, "Kind of Blue", 10, 6000)
	svc, carts, _, cache := newCartFixture(a, b)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, 7, []entity.CartItem{{Vinyl: *a, Quantity: 1}}))
	require.NoError(t, carts.ReplaceForUser(ctx, 7, []entity.CartItem{{Vinyl: *b, Quantity: 2}}))

	svc.Bind(ctx, 7)
	assert.Len(t, svc.Items(), 2)
	assert.Equal(t, 3, svc.ItemCount())
}

func TestCartUnbindFlushesAndClears(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, carts, _, _ := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)
	require.NoError(t, svc.AddToCart(ctx, v))

	svc.Unbind(ctx)
	assert.Empty(t, svc.Items())
	assert.EqualValues(t, 0, svc.BoundUser())

	persisted, err := carts.GetByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, 1, persisted[0].Quantity)

	// re-login recovers the flushed cart
	svc.Bind(ctx, 7)
	require.Len(t, svc.Items(), 1)
}

func TestCartRebindFlushesPreviousUser(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, carts, _, _ := newCartFixture(v)
	ctx := context.Background()

	svc.Bind(ctx, 7)
	require.NoError(t, svc.AddToCart(ctx, v))

	svc.Bind(ctx, 8)
	assert.Empty(t, svc.Items())

	persisted, err := carts.GetByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestCartFollowsSessionStream(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, _, _, _ := newCartFixture(v)

	users := newMemUserRepo()
	u := seedUser(t, users, "rita@example.com", "secret123")
	sessions := NewSessionService(users, CredentialCodec{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Watch(ctx, sessions)

	_, err := sessions.Login(ctx, "rita@example.com", "secret123")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return svc.BoundUser() == u.ID }, time.Second, 5*time.Millisecond)

	sessions.Logout()
	require.Eventually(t, func() bool { return svc.BoundUser() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCartSubscribeReplaysLatest(t *testing.T) {
	v := vinyl(1, "Blue Train", 5, 4000)
	svc, _, _, _ := newCartFixture(v)
	ctx := context.Background()
	svc.Bind(ctx, 7)
	require.NoError(t, svc.AddToCart(ctx, v))

	ch, cancel := svc.Subscribe()
	defer cancel()
	select {
	case items := <-ch:
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cart snapshot")
	}
}
