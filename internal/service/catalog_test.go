package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/transport"
)

func newCatalogEnv(t *testing.T) (*CatalogService, *models.Category) {
	t.Helper()

	r := newTestRepo(t)
	category := seedCategory(t, r, "Books")
	return &CatalogService{Repo: r}, category
}

func TestCatalogService_AddProduct(t *testing.T) {
	t.Parallel()

	svc, category := newCatalogEnv(t)
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, transport.AddProductRequest{
		Name:       "  Go in Practice  ",
		Price:      mustDecimal(t, "49.99"),
		Stock:      10,
		CategoryID: category.ID,
		ImageURL:   "https://img.example.com/book.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go in Practice", product.Name, "name is trimmed")

	view, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/book.jpg", view.ImageURL)
}

func TestCatalogService_AddProduct_Validation(t *testing.T) {
	t.Parallel()

	svc, category := newCatalogEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.AddProductRequest
	}{
		{
			name: "empty name",
			req:  transport.AddProductRequest{Price: mustDecimal(t, "1"), CategoryID: category.ID, ImageURL: "x"},
		},
		{
			name: "zero price",
			req:  transport.AddProductRequest{Name: "a", Price: mustDecimal(t, "0"), CategoryID: category.ID, ImageURL: "x"},
		},
		{
			name: "missing image",
			req:  transport.AddProductRequest{Name: "a", Price: mustDecimal(t, "1"), CategoryID: category.ID},
		},
		{
			name: "unknown category",
			req:  transport.AddProductRequest{Name: "a", Price: mustDecimal(t, "1"), CategoryID: 9999, ImageURL: "x"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.AddProduct(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogService_ListProducts_FiltersByCategory(t *testing.T) {
	t.Parallel()

	svc, books := newCatalogEnv(t)
	ctx := context.Background()

	toys := seedCategory(t, svc.Repo, "Toys")
	seedProduct(t, svc.Repo, "Novel", "10.00", books.ID)
	seedProduct(t, svc.Repo, "Comic", "5.00", books.ID)
	seedProduct(t, svc.Repo, "Puzzle", "20.00", toys.ID)

	all, err := svc.ListProducts(ctx, 0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.Products, 3)

	onlyBooks, err := svc.ListProducts(ctx, 0, 10, books.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), onlyBooks.Total)
}

func TestCatalogService_ListProducts_Pagination(t *testing.T) {
	t.Parallel()

	svc, books := newCatalogEnv(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		seedProduct(t, svc.Repo, name, "1.00", books.ID)
	}

	page, err := svc.ListProducts(ctx, 2, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Products, 1)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	t.Parallel()

	svc, books := newCatalogEnv(t)
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, transport.AddProductRequest{
		Name:       "Novel",
		Price:      mustDecimal(t, "10.00"),
		CategoryID: books.ID,
		ImageURL:   "https://img.example.com/novel.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var images int64
	require.NoError(t, svc.Repo.DB.Model(&models.ProductImage{}).
		Where("product_id = ?", product.ID).Count(&images).Error)
	assert.Zero(t, images, "images are removed with the product")

	err = svc.DeleteProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalogEnv(t)

	_, err := svc.GetProduct(context.Background(), 9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_SearchProducts_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalogEnv(t)

	_, err := svc.SearchProducts(context.Background(), "  ", 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SearchProducts(context.Background(), "novel", 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation, "unconfigured search reports a client-visible error")
}
