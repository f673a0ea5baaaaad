package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
)

func newOrderEnv(t *testing.T) (*OrderService, *models.User) {
	t.Helper()

	r := newTestRepo(t)
	user := seedUser(t, r, "buyer", models.RoleCustomer)
	books := seedCategory(t, r, "Books")
	novel := seedProduct(t, r, "Novel", "25.00", books.ID)

	orders := []models.Order{
		{OrderID: "order_ok", UserID: user.ID, TotalAmount: mustDecimal(t, "50.00"), Status: models.OrderStatusSuccess},
		{OrderID: "order_failed", UserID: user.ID, TotalAmount: mustDecimal(t, "25.00"), Status: models.OrderStatusFailed},
	}
	for i := range orders {
		require.NoError(t, r.DB.Create(&orders[i]).Error)
	}

	items := []models.OrderItem{
		{OrderID: "order_ok", ProductID: novel.ID, Quantity: 2, PricePerUnit: mustDecimal(t, "25.00"), TotalPrice: mustDecimal(t, "50.00")},
		{OrderID: "order_ok", ProductID: 9999, Quantity: 1, PricePerUnit: mustDecimal(t, "5.00"), TotalPrice: mustDecimal(t, "5.00")},
		{OrderID: "order_failed", ProductID: novel.ID, Quantity: 1, PricePerUnit: mustDecimal(t, "25.00"), TotalPrice: mustDecimal(t, "25.00")},
	}
	for i := range items {
		require.NoError(t, r.DB.Create(&items[i]).Error)
	}

	return &OrderService{Repo: r}, user
}

func TestOrderService_OrdersForUser(t *testing.T) {
	t.Parallel()

	svc, user := newOrderEnv(t)

	lines, err := svc.OrdersForUser(context.Background(), user)
	require.NoError(t, err)

	// The failed order and the vanished product are both skipped.
	require.Len(t, lines, 1)
	assert.Equal(t, "order_ok", lines[0].OrderID)
	assert.Equal(t, "Novel", lines[0].Name)
	assert.Equal(t, uint(2), lines[0].Quantity)
	assert.True(t, mustDecimal(t, "50.00").Equal(lines[0].TotalPrice))
}

func TestOrderService_OrdersForUser_Empty(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	user := seedUser(t, r, "fresh", models.RoleCustomer)
	svc := &OrderService{Repo: r}

	lines, err := svc.OrdersForUser(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderService_Stats(t *testing.T) {
	t.Parallel()

	svc, user := newOrderEnv(t)

	stats, err := svc.Stats(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, user.Username, stats.Username)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.InDelta(t, 55.00, stats.TotalSpending, 0.001)
}

func seedImage(t *testing.T, r *repo.GormRepo, productID uint, url string) {
	t.Helper()
	require.NoError(t, r.DB.Create(&models.ProductImage{ProductID: productID, ImageURL: url}).Error)
}

func TestOrderService_OrdersForUser_UsesFirstImage(t *testing.T) {
	t.Parallel()

	svc, user := newOrderEnv(t)

	var item models.OrderItem
	require.NoError(t, svc.Repo.DB.Where("order_id = ? AND product_id != ?", "order_ok", 9999).First(&item).Error)
	seedImage(t, svc.Repo, item.ProductID, "https://img.example.com/novel.jpg")

	lines, err := svc.OrdersForUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "https://img.example.com/novel.jpg", lines[0].ImageURL)
}
