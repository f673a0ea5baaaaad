package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
)

func (r *GormRepo) GetCartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountCartItems(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// UpsertCartItem merges by increment: the guarded UPDATE either bumps the
// existing (user, product) row or, when nothing matched, a fresh row is
// inserted inside the same transaction.
func (r *GormRepo) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
				First(item).Error
		}
		return tx.Create(item).Error
	})
}

// SetCartQuantity overwrites the row's quantity. Returns
// gorm.ErrRecordNotFound when the row does not exist.
func (r *GormRepo) SetCartQuantity(ctx context.Context, userID, productID, quantity uint) error {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

