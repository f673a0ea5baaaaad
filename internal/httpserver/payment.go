package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.CheckoutService
}

func (h *PaymentHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req transport.CreatePaymentOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	orderID, err := h.Svc.CreateOrder(ctx, user.ID, req.Amount)
	if err != nil {
		return serviceError(c, l, "create_order_error", err)
	}

	l.Info("payment order created", "order_id", orderID)
	return c.JSON(http.StatusOK, map[string]any{
		"order_id": orderID,
		"amount":   req.Amount,
		"currency": h.Svc.Currency,
	})
}

func (h *PaymentHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("verify_payment_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_payment_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		l.Warn("verify_payment_error", "status", 400)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "order_id, payment_id and signature are required"})
	}

	ok, err := h.Svc.VerifyPayment(ctx, req.OrderID, req.PaymentID, req.Signature, user.ID)
	if err != nil {
		return serviceError(c, l, "verify_payment_error", err)
	}
	if !ok {
		l.Warn("payment verification failed", "order_id", req.OrderID)
		return c.JSON(http.StatusBadRequest, map[string]any{"verified": false})
	}

	l.Info("payment verified", "order_id", req.OrderID)
	return c.JSON(http.StatusOK, map[string]any{"verified": true, "order_id": req.OrderID})
}
