package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/metrics"
	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

const placeholderImageURL = "https://via.placeholder.com/400?text=No+Image"

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) requireUserAndProduct(ctx context.Context, userID, productID uint) error {
	if _, err := s.Repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	return nil
}

// AddToCart merges by increment: repeated adds for the same product
// accumulate into one row.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) error {
	if productID == 0 {
		return fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be more than zero", ErrValidation)
	}
	if err := s.requireUserAndProduct(ctx, userID, productID); err != nil {
		return err
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.UpsertCartItem(ctx, &item); err != nil {
		return err
	}
	metrics.CartOperationsTotal.WithLabelValues("add").Inc()
	return nil
}

// UpdateQuantity overwrites the row's quantity; zero means delete.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID, quantity uint) error {
	if productID == 0 {
		return fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if err := s.requireUserAndProduct(ctx, userID, productID); err != nil {
		return err
	}

	if quantity == 0 {
		if err := s.Repo.DeleteCartItem(ctx, userID, productID); err != nil {
			return err
		}
		metrics.CartOperationsTotal.WithLabelValues("delete").Inc()
		return nil
	}

	if err := s.Repo.SetCartQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item for product %d", ErrNotFound, productID)
		}
		return err
	}
	metrics.CartOperationsTotal.WithLabelValues("update").Inc()
	return nil
}

// DeleteItem removes the row if present; deleting an absent row is a no-op.
func (s *CartService) DeleteItem(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if err := s.requireUserAndProduct(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.Repo.DeleteCartItem(ctx, userID, productID); err != nil {
		return err
	}
	metrics.CartOperationsTotal.WithLabelValues("delete").Inc()
	return nil
}

func (s *CartService) CountItems(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.CountCartItems(ctx, userID)
}

// GetItems joins live product price and first image into display lines and
// computes per-line and overall totals.
func (s *CartService) GetItems(ctx context.Context, userID uint) (*transport.CartView, error) {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := transport.CartView{
		Products:          make([]transport.CartLineView, 0, len(items)),
		OverallTotalPrice: decimal.Zero,
	}

	for _, item := range items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		imageURL, err := s.Repo.FirstImageURL(ctx, item.ProductID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logging.FromContext(ctx).Error("image lookup failed",
					"product_id", item.ProductID, "error", err)
			}
			imageURL = placeholderImageURL
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Products = append(view.Products, transport.CartLineView{
			ProductID:    product.ID,
			Name:         product.Name,
			Description:  product.Description,
			ImageURL:     imageURL,
			PricePerUnit: product.Price,
			Quantity:     item.Quantity,
			TotalPrice:   lineTotal,
		})
		view.OverallTotalPrice = view.OverallTotalPrice.Add(lineTotal)
	}

	return &view, nil
}
