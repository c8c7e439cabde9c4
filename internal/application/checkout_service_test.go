package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundvault/vinylstore/internal/domain/entity"
)

type checkoutFixture struct {
	cart     *CartService
	catalog  *memVinylRepo
	orders   *memOrderRepo
	notifier *recordingNotifier
	svc      *CheckoutService
}

func newCheckoutFixture(t *testing.T, vinyls ...*entity.Vinyl) *checkoutFixture {
	t.Helper()
	catalog := newMemVinylRepo(vinyls...)
	cart := NewCartService(newMemCartRepo(), catalog, newMemCartCache(), testLogger())
	orders := newMemOrderRepo()
	notifier := &recordingNotifier{}
	svc := NewCheckoutService(cart, catalog, orders, notifier, testLogger())
	return &checkoutFixture{cart: cart, catalog: catalog, orders: orders, notifier: notifier, svc: svc}
}

func validInfo() CustomerInfo {
	return CustomerInfo{
		Name:          "Rita Morales",
		Email:         "rita@example.com",
		Phone:         "966189340",
		Address:       "Av. Providencia 1234",
		PaymentMethod: "debit",
	}
}

func (f *checkoutFixture) fill(t *testing.T, id int64, times int) {
	t.Helper()
	v, err := f.catalog.GetByID(context.Background(), id)
	require.NoError(t, err)
	for i := 0; i < times; i++ {
		require.NoError(t, f.cart.AddToCart(context.Background(), v))
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 2)

	order, err := f.svc.SubmitOrder(ctx, validInfo())
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, int64(8000), order.TotalAmount)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, int64(4000), order.Lines[0].UnitPrice)

	// stock decremented, exactly one confirmation, cart cleared
	v, err := f.catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Stock)
	assert.Equal(t, 1, f.notifier.count())
	assert.Empty(t, f.cart.Items())

	history, err := f.svc.OrdersByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
}

func TestCheckoutValidationNamesFirstBadField(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 1)

	cases := []struct {
		mutate func(*CustomerInfo)
		field  string
	}{
		{func(i *CustomerInfo) { i.Name = "" }, "Name"},
		{func(i *CustomerInfo) { i.Email = "not-an-email" }, "Email"},
		{func(i *CustomerInfo) { i.Phone = "12345" }, "Phone"},
		{func(i *CustomerInfo) { i.Phone = "96618934a" }, "Phone"},
		{func(i *CustomerInfo) { i.Phone = "-12345678" }, "Phone"},
		{func(i *CustomerInfo) { i.Phone = "+12345678" }, "Phone"},
		{func(i *CustomerInfo) { i.Address = "" }, "Address"},
		{func(i *CustomerInfo) { i.PaymentMethod = "bitcoin" }, "PaymentMethod"},
	}
	for _, tc := range cases {
		info := validInfo()
		tc.mutate(&info)
		_, err := f.svc.SubmitOrder(ctx, info)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, tc.field, vErr.Field)
	}

	// nothing was sent or committed along the way
	assert.Equal(t, 0, f.notifier.count())
	assert.NotEmpty(t, f.cart.Items())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)

	_, err := f.svc.SubmitOrder(ctx, validInfo())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutUnboundCart(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))

	_, err := f.svc.SubmitOrder(context.Background(), validInfo())
	assert.ErrorIs(t, err, ErrCartNotBound)
}

func TestCheckoutStockGateIsAllOrNothing(t *testing.T) {
	f := newCheckoutFixture(t,
		vinyl(1, "Blue Train", 5, 4000),
		vinyl(2, "Kind of Blue", 5, 6000),
	)
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 2)
	f.fill(t, 2, 3)

	// someone else bought the second record in the meantime
	require.NoError(t, f.catalog.UpdateStock(ctx, 2, 1))

	_, err := f.svc.SubmitOrder(ctx, validInfo())
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Kind of Blue", stockErr.Title)

	// no partial decrement: the first record's stock is untouched
	v, err := f.catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Stock)
	assert.Equal(t, 0, f.notifier.count())
	assert.NotEmpty(t, f.cart.Items())
}

func TestCheckoutVanishedVinylReportsInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 1)

	require.NoError(t, f.catalog.Delete(ctx, 1))

	_, err := f.svc.SubmitOrder(ctx, validInfo())
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Blue Train", stockErr.Title)
}

func TestCheckoutNotificationFailureAbortsBeforeCommit(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 2)

	f.notifier.err = assert.AnError
	_, err := f.svc.SubmitOrder(ctx, validInfo())
	assert.ErrorIs(t, err, ErrNotificationFailed)

	// no stock mutation, no order, cart intact
	v, gerr := f.catalog.GetByID(ctx, 1)
	require.NoError(t, gerr)
	assert.Equal(t, 5, v.Stock)
	history, herr := f.svc.OrdersByUser(ctx, 7)
	require.NoError(t, herr)
	assert.Empty(t, history)
	assert.NotEmpty(t, f.cart.Items())

	// the retry goes straight through
	f.notifier.err = nil
	_, err = f.svc.SubmitOrder(ctx, validInfo())
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.count())
}

func TestCheckoutPersistFailureAfterNotification(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 2)

	f.orders.err = assert.AnError
	_, err := f.svc.SubmitOrder(ctx, validInfo())
	assert.ErrorIs(t, err, ErrPersistenceFailed)

	// the confirmation already went out and stock was decremented;
	// neither is rolled back
	assert.Equal(t, 1, f.notifier.count())
	v, gerr := f.catalog.GetByID(ctx, 1)
	require.NoError(t, gerr)
	assert.Equal(t, 3, v.Stock)
}

func TestCheckoutOrderSnapshotSurvivesCatalogChanges(t *testing.T) {
	f := newCheckoutFixture(t, vinyl(1, "Blue Train", 5, 4000))
	ctx := context.Background()
	f.cart.Bind(ctx, 7)
	f.fill(t, 1, 1)

	order, err := f.svc.SubmitOrder(ctx, validInfo())
	require.NoError(t, err)

	// later price change must not alter the recorded line
	v, err := f.catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	v.Price = 9999
	require.NoError(t, f.catalog.Update(ctx, v))

	history, err := f.svc.OrdersByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
	assert.Equal(t, int64(4000), history[0].Lines[0].UnitPrice)
}

func TestPaymentMethodLabels(t *testing.T) {
	assert.Equal(t, "Debit card", PaymentMethodLabel("debit"))
	assert.Equal(t, "Credit card", PaymentMethodLabel("credit"))
	assert.Equal(t, "Cash", PaymentMethodLabel("cash"))
	assert.Equal(t, "voucher", PaymentMethodLabel("voucher"))
}
