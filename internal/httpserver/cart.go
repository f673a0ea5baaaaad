package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.items")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	view, err := h.Svc.GetItems(ctx, user.ID)
	if err != nil {
		return serviceError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) CountItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("count_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	count, err := h.Svc.CountItems(ctx, user.ID)
	if err != nil {
		return serviceError(c, l, "count_cart_error", err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := h.Svc.AddToCart(ctx, user.ID, req.ProductID, req.Quantity); err != nil {
		return serviceError(c, l, "add_to_cart_error", err)
	}

	l.Info("item added to cart", "product_id", req.ProductID, "quantity", req.Quantity)
	return c.JSON(http.StatusCreated, map[string]string{"message": "item added to cart"})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("update_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.Quantity == nil {
		l.Warn("update_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "quantity is required"})
	}

	if err := h.Svc.UpdateQuantity(ctx, user.ID, req.ProductID, *req.Quantity); err != nil {
		return serviceError(c, l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *CartHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("delete_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req transport.DeleteCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := h.Svc.DeleteItem(ctx, user.ID, req.ProductID); err != nil {
		return serviceError(c, l, "delete_cart_error", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item removed from cart"})
}
