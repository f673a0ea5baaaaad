package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

// OrderService is the read side of order history.
type OrderService struct {
	Repo *repo.GormRepo
}

// OrdersForUser returns the line items of the user's successful orders,
// denormalized with product name and first image. Items whose product has
// since disappeared are skipped.
func (s *OrderService) OrdersForUser(ctx context.Context, user *models.User) ([]transport.OrderLineView, error) {
	items, err := s.Repo.SuccessfulOrderItemsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	lines := make([]transport.OrderLineView, 0, len(items))
	for _, item := range items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		imageURL, err := s.Repo.FirstImageURL(ctx, item.ProductID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logging.FromContext(ctx).Error("image lookup failed",
					"product_id", item.ProductID, "error", err)
			}
			imageURL = ""
		}

		lines = append(lines, transport.OrderLineView{
			OrderID:      item.OrderID,
			ProductID:    product.ID,
			Name:         product.Name,
			Description:  product.Description,
			ImageURL:     imageURL,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			TotalPrice:   item.TotalPrice,
		})
	}

	return lines, nil
}

// Stats sums order count and total spending over the user's successful
// orders.
func (s *OrderService) Stats(ctx context.Context, user *models.User) (*transport.OrderStats, error) {
	items, err := s.Repo.SuccessfulOrderItemsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	spending := 0.0
	for _, item := range items {
		seen[item.OrderID] = struct{}{}
		spending += item.TotalPrice.InexactFloat64()
	}

	return &transport.OrderStats{
		Username:      user.Username,
		TotalOrders:   int64(len(seen)),
		TotalSpending: spending,
	}, nil
}
