package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("get_orders_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	orders, err := h.Svc.OrdersForUser(ctx, user)
	if err != nil {
		return serviceError(c, l, "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.stats")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("order_stats_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	stats, err := h.Svc.Stats(ctx, user)
	if err != nil {
		return serviceError(c, l, "order_stats_error", err)
	}
	return c.JSON(http.StatusOK, stats)
}
