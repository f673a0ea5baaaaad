package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/events"
	"github.com/shopedge/backend/internal/metrics"
	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/pkg/logging"
)

// PaymentGateway is the slice of the external gateway the checkout flow
// needs.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutService runs the two-phase checkout: create a remote payment
// intent plus a local PENDING order, then, on verification, transition the
// order to its terminal state and materialize the cart snapshot.
type CheckoutService struct {
	Repo     *repo.GormRepo
	Gateway  PaymentGateway
	Currency string
	Events   *events.Producer
}

// CreateOrder is phase one. The local row is only written after the gateway
// call succeeds, so either both the remote intent and the PENDING row exist
// or neither does.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uint, total decimal.Decimal) (string, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.create", "user_id", userID)

	if !total.IsPositive() {
		return "", fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}

	receipt := "txn_" + uuid.NewString()
	orderID, err := s.Gateway.CreateIntent(ctx, total, s.Currency, receipt)
	if err != nil {
		l.Error("gateway intent failed", "error", err)
		return "", fmt.Errorf("create payment intent: %w", err)
	}

	order := models.Order{
		OrderID:     orderID,
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		l.Error("order persist failed", "order_id", orderID, "error", err)
		return "", err
	}

	metrics.OrdersCreatedTotal.Inc()
	l.Info("order created", "order_id", orderID, "total", total.String())
	return orderID, nil
}

// VerifyPayment is phase two. A valid signature finalizes the order in one
// transaction (status, order items, cart clear); an invalid one marks it
// FAILED. A failure inside the valid branch triggers a best-effort FAILED
// compensation, which is not atomic with the failure that caused it.
func (s *CheckoutService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string, userID uint) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.verify", "order_id", orderID, "user_id", userID)

	if orderID == "" || paymentID == "" || signature == "" {
		return false, fmt.Errorf("%w: order_id, payment_id and signature required", ErrValidation)
	}

	if !s.Gateway.VerifySignature(orderID, paymentID, signature) {
		l.Warn("signature mismatch")
		if err := s.Repo.MarkOrderFailed(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrOrderFinalized) {
				if _, gerr := s.orderMustExist(ctx, orderID); gerr != nil {
					return false, gerr
				}
				// already terminal, leave it alone
			} else {
				l.Error("failed-state write failed", "error", err)
			}
		}
		metrics.PaymentsVerifiedTotal.WithLabelValues("invalid_signature").Inc()
		s.publishOrderEvent(ctx, "order_payment_failed", orderID, userID)
		return false, nil
	}

	itemCount, err := s.Repo.FinalizeOrder(ctx, orderID, userID)
	if err == nil {
		metrics.PaymentsVerifiedTotal.WithLabelValues("success").Inc()
		s.publishOrderEvent(ctx, "order_paid", orderID, userID)
		l.Info("order finalized", "order_items", itemCount)
		return true, nil
	}

	if errors.Is(err, repo.ErrOrderFinalized) {
		order, gerr := s.orderMustExist(ctx, orderID)
		if gerr != nil {
			return false, gerr
		}
		// Terminal states are never revisited; report the outcome that was
		// already recorded.
		l.Info("order already terminal", "status", order.Status)
		return order.Status == models.OrderStatusSuccess, nil
	}

	// Compensation: without this the order would stay PENDING forever. It is
	// best-effort; a crash right here leaves the known gap documented in
	// DESIGN.md.
	l.Error("finalize failed, marking order FAILED", "error", err)
	if cerr := s.Repo.MarkOrderFailed(ctx, orderID); cerr != nil && !errors.Is(cerr, repo.ErrOrderFinalized) {
		l.Error("compensating FAILED write failed", "error", cerr)
	}
	metrics.PaymentsVerifiedTotal.WithLabelValues("error").Inc()
	s.publishOrderEvent(ctx, "order_payment_failed", orderID, userID)
	return false, nil
}

func (s *CheckoutService) orderMustExist(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) publishOrderEvent(ctx context.Context, eventType, orderID string, userID uint) {
	event := map[string]any{
		"type":     eventType,
		"order_id": orderID,
		"user_id":  userID,
	}
	if err := s.Events.PublishEvent(ctx, "order_events", orderID, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "type", eventType, "error", err)
	}
}
