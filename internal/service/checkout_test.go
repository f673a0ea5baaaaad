package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopedge/backend/internal/models"
)

// fakeGateway accepts a single known-good signature and hands out sequential
// order identifiers.
type fakeGateway struct {
	nextID    string
	goodSig   string
	intentErr error
	created   []decimal.Decimal
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount decimal.Decimal, _, _ string) (string, error) {
	if g.intentErr != nil {
		return "", g.intentErr
	}
	g.created = append(g.created, amount)
	return g.nextID, nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == g.goodSig
}

func newCheckoutEnv(t *testing.T) (*CheckoutService, *fakeGateway, *models.User, *models.Product) {
	t.Helper()

	r := newTestRepo(t)
	user := seedUser(t, r, "buyer", models.RoleCustomer)
	category := seedCategory(t, r, "Books")
	product := seedProduct(t, r, "Go in Practice", "25.00", category.ID)

	gw := &fakeGateway{nextID: "order_test_1", goodSig: "valid-signature"}
	svc := &CheckoutService{Repo: r, Gateway: gw, Currency: "INR"}
	return svc, gw, user, product
}

func TestCheckoutService_CreateOrder_PersistsPending(t *testing.T) {
	t.Parallel()

	svc, _, user, _ := newCheckoutEnv(t)
	ctx := context.Background()

	orderID, err := svc.CreateOrder(ctx, user.ID, mustDecimal(t, "50.00"))
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", orderID)

	order, err := svc.Repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)
	assert.True(t, mustDecimal(t, "50.00").Equal(order.TotalAmount))
}

func TestCheckoutService_CreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc, gw, user, _ := newCheckoutEnv(t)

	for _, amount := range []string{"0", "-1"} {
		_, err := svc.CreateOrder(context.Background(), user.ID, mustDecimal(t, amount))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, gw.created, "gateway must not be called for invalid amounts")
}

func TestCheckoutService_VerifyPayment_Success(t *testing.T) {
	t.Parallel()

	svc, gw, user, product := newCheckoutEnv(t)
	ctx := context.Background()

	cart := &CartService{Repo: svc.Repo}
	require.NoError(t, cart.AddToCart(ctx, user.ID, product.ID, 2))

	orderID, err := svc.CreateOrder(ctx, user.ID, mustDecimal(t, "50.00"))
	require.NoError(t, err)

	ok, err := svc.VerifyPayment(ctx, orderID, "pay_1", gw.goodSig, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	order, err := svc.Repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)

	items, err := svc.Repo.OrderItemsByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].Quantity)
	assert.True(t, mustDecimal(t, "25.00").Equal(items[0].PricePerUnit))
	assert.True(t, mustDecimal(t, "50.00").Equal(items[0].TotalPrice))

	count, err := cart.CountItems(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "cart must be cleared after a successful payment")
}

func TestCheckoutService_VerifyPayment_InvalidSignature(t *testing.T) {
	t.Parallel()

	svc, _, user, product := newCheckoutEnv(t)
	ctx := context.Background()

	cart := &CartService{Repo: svc.Repo}
	require.NoError(t, cart.AddToCart(ctx, user.ID, product.ID, 1))

	orderID, err := svc.CreateOrder(ctx, user.ID, mustDecimal(t, "25.00"))
	require.NoError(t, err)

	ok, err := svc.VerifyPayment(ctx, orderID, "pay_1", "forged", user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	order, err := svc.Repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, order.Status)

	count, err := cart.CountItems(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "cart must survive a failed payment")
}

func TestCheckoutService_VerifyPayment_Idempotent(t *testing.T) {
	t.Parallel()

	svc, gw, user, product := newCheckoutEnv(t)
	ctx := context.Background()

	cart := &CartService{Repo: svc.Repo}
	require.NoError(t, cart.AddToCart(ctx, user.ID, product.ID, 2))

	orderID, err := svc.CreateOrder(ctx, user.ID, mustDecimal(t, "50.00"))
	require.NoError(t, err)

	ok, err := svc.VerifyPayment(ctx, orderID, "pay_1", gw.goodSig, user.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Cart refilled between the two verify calls; the repeat must not snapshot
	// it again.
	require.NoError(t, cart.AddToCart(ctx, user.ID, product.ID, 7))

	ok, err = svc.VerifyPayment(ctx, orderID, "pay_1", gw.goodSig, user.ID)
	require.NoError(t, err)
	assert.True(t, ok, "repeat verify of a SUCCESS order reports success")

	items, err := svc.Repo.OrderItemsByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "no duplicate order items on repeat verify")

	count, err := cart.CountItems(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count, "repeat verify must not clear the cart again")
}

func TestCheckoutService_VerifyPayment_FailedOrderStaysFailed(t *testing.T) {
	t.Parallel()

	svc, gw, user, _ := newCheckoutEnv(t)
	ctx := context.Background()

	orderID, err := svc.CreateOrder(ctx, user.ID, mustDecimal(t, "25.00"))
	require.NoError(t, err)

	ok, err := svc.VerifyPayment(ctx, orderID, "pay_1", "forged", user.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// A later valid signature cannot resurrect a FAILED order.
	ok, err = svc.VerifyPayment(ctx, orderID, "pay_1", gw.goodSig, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	order, err := svc.Repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, order.Status)
}

func TestCheckoutService_VerifyPayment_UnknownOrder(t *testing.T) {
	t.Parallel()

	svc, gw, user, _ := newCheckoutEnv(t)

	_, err := svc.VerifyPayment(context.Background(), "order_missing", "pay_1", gw.goodSig, user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutService_VerifyPayment_Validation(t *testing.T) {
	t.Parallel()

	svc, _, user, _ := newCheckoutEnv(t)

	_, err := svc.VerifyPayment(context.Background(), "", "", "", user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
