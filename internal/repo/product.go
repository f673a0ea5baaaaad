package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int, categoryID uint) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// CreateProductWithImage persists the product and its first image together;
// a product is never left without the image the admin supplied.
func (r *GormRepo) CreateProductWithImage(ctx context.Context, product *models.Product, imageURL string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		img := models.ProductImage{ProductID: product.ID, ImageURL: imageURL}
		return tx.Create(&img).Error
	})
}

// DeleteProductWithImages removes images before the product row to respect
// the foreign key ordering.
func (r *GormRepo) DeleteProductWithImages(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

func (r *GormRepo) FirstImageURL(ctx context.Context, productID uint) (string, error) {
	var img models.ProductImage
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		First(&img).Error
	if err != nil {
		return "", err
	}
	return img.ImageURL, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}
