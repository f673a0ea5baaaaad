package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repo.AutoMigrate(db))
	return repo.New(db)
}

func seedUser(t *testing.T, r *repo.GormRepo, username string, role models.Role) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	t.Helper()

	category := models.Category{Name: name}
	require.NoError(t, r.DB.Create(&category).Error)
	return &category
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, categoryID uint) *models.Product {
	t.Helper()

	product := models.Product{
		Name:       name,
		Price:      mustDecimal(t, price),
		Stock:      100,
		CategoryID: categoryID,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	return &product
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
