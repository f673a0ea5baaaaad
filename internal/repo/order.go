package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CartLine is one cart row joined with the live product price, the shape the
// checkout snapshot is taken from.
type CartLine struct {
	ProductID uint
	Quantity  uint
	Price     decimal.Decimal
}

func (r *GormRepo) cartLines(tx *gorm.DB, userID uint) ([]CartLine, error) {
	var lines []CartLine
	err := tx.Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FinalizeOrder runs the whole success transition in one transaction: flip
// PENDING to SUCCESS, snapshot the cart into order items, clear the cart.
// The guarded UPDATE on the order row is the serialization point for
// concurrent verify calls; zero rows touched means the order already reached
// a terminal state and ErrOrderFinalized is returned with no writes.
func (r *GormRepo) FinalizeOrder(ctx context.Context, orderID string, userID uint) (int, error) {
	written := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("order_id = ? AND status = ?", orderID, models.OrderStatusPending).
			Updates(map[string]any{
				"status":     models.OrderStatusSuccess,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderFinalized
		}

		lines, err := r.cartLines(tx, userID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			qty := decimal.NewFromInt(int64(line.Quantity))
			item := models.OrderItem{
				OrderID:      orderID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				PricePerUnit: line.Price,
				TotalPrice:   line.Price.Mul(qty),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			written++
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// MarkOrderFailed flips PENDING to FAILED. A terminal order is left alone
// and ErrOrderFinalized is returned.
func (r *GormRepo) MarkOrderFailed(ctx context.Context, orderID string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]any{
			"status":     models.OrderStatusFailed,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderFinalized
	}
	return nil
}

func (r *GormRepo) OrderItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SuccessfulOrderItemsByUser returns every line item belonging to the user's
// SUCCESS orders, newest orders first.
func (r *GormRepo) SuccessfulOrderItemsByUser(ctx context.Context, userID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.DB.WithContext(ctx).
		Table("order_items").
		Select("order_items.*").
		Joins("JOIN orders ON orders.order_id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ?", userID, models.OrderStatusSuccess).
		Order("orders.created_at DESC, order_items.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SuccessfulOrdersBetween lists SUCCESS orders created in [from, to). Zero
// bounds mean all-time.
func (r *GormRepo) SuccessfulOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("status = ?", models.OrderStatusSuccess)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	var orders []models.Order
	if err := q.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
