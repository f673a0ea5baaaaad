package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
)

// ErrOrderFinalized reports that an order already left PENDING; terminal
// states are never revisited.
var ErrOrderFinalized = errors.New("order already finalized")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SessionToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
