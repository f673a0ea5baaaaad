package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/cache"
	"github.com/shopedge/backend/internal/es"
	"github.com/shopedge/backend/internal/events"
	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/search"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

// CatalogService covers product browsing plus the admin-side CRUD. The
// search index and the listing cache are kept in step best-effort; the
// database stays the source of truth.
type CatalogService struct {
	Repo    *repo.GormRepo
	Indexer *es.Indexer
	Cache   *cache.ProductCache
	Events  *events.Producer
}

type ProductPage struct {
	Total    int64                   `json:"total"`
	Products []transport.ProductView `json:"products"`
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*transport.ProductView, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	view := s.view(ctx, product)
	return &view, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int, categoryID uint) (*ProductPage, error) {
	if page, ok := s.Cache.GetPage(ctx, offset, limit, categoryID); ok {
		var cached ProductPage
		if err := cache.Decode(page, &cached); err == nil {
			return &cached, nil
		}
	}

	total, products, err := s.Repo.ListProducts(ctx, offset, limit, categoryID)
	if err != nil {
		return nil, err
	}

	result := ProductPage{Total: total, Products: make([]transport.ProductView, 0, len(products))}
	for i := range products {
		result.Products = append(result.Products, s.view(ctx, &products[i]))
	}

	s.Cache.SetPage(ctx, offset, limit, categoryID, result)
	return &result, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// SearchProducts runs a fuzzy full-text query over the product index. Image
// URLs come from the database since the index does not store them.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (*ProductPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	if s.Indexer == nil {
		return nil, fmt.Errorf("%w: product search is not configured", ErrValidation)
	}

	total, hits, err := search.Products(ctx, s.Indexer.ES, s.Indexer.Index, query, offset, limit)
	if err != nil {
		return nil, err
	}

	result := ProductPage{Total: total, Products: make([]transport.ProductView, 0, len(hits))}
	for _, h := range hits {
		price, perr := decimal.NewFromString(h.Price)
		if perr != nil {
			logging.FromContext(ctx).Warn("bad price in product index", "product_id", h.ID, "price", h.Price)
			continue
		}
		view := transport.ProductView{
			ID:          h.ID,
			Name:        h.Name,
			Description: h.Description,
			Price:       price,
			CategoryID:  h.CategoryID,
			ImageURL:    placeholderImageURL,
		}
		if url, ierr := s.Repo.FirstImageURL(ctx, h.ID); ierr == nil {
			view.ImageURL = url
		}
		result.Products = append(result.Products, view)
	}
	return &result, nil
}

func (s *CatalogService) AddProduct(ctx context.Context, req transport.AddProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.add")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: product price must be greater than 0", ErrValidation)
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, fmt.Errorf("%w: product image URL cannot be empty", ErrValidation)
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid category ID %d", ErrValidation, req.CategoryID)
		}
		return nil, err
	}

	product := models.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}
	if err := s.Repo.CreateProductWithImage(ctx, &product, strings.TrimSpace(req.ImageURL)); err != nil {
		return nil, err
	}

	s.Indexer.IndexProduct(ctx, &product)
	s.Cache.InvalidateListings(ctx)
	s.publishProductEvent(ctx, "product_created", product.ID, product.Name)

	l.Info("product added", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProductWithImages(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}

	s.Indexer.DeleteProduct(ctx, id)
	s.Cache.InvalidateListings(ctx)
	s.publishProductEvent(ctx, "product_deleted", id, "")

	return nil
}

func (s *CatalogService) view(ctx context.Context, p *models.Product) transport.ProductView {
	imageURL, err := s.Repo.FirstImageURL(ctx, p.ID)
	if err != nil {
		imageURL = placeholderImageURL
	}
	return transport.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURL:    imageURL,
	}
}

func (s *CatalogService) publishProductEvent(ctx context.Context, eventType string, productID uint, name string) {
	event := map[string]any{
		"type":       eventType,
		"product_id": productID,
	}
	if name != "" {
		event["name"] = name
	}
	if err := s.Events.PublishEvent(ctx, "product_events", fmt.Sprint(productID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "type", eventType, "error", err)
	}
}
