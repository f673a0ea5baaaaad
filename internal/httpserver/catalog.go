package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/internal/util"
	"github.com/shopedge/backend/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	categoryID, _ := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
	offset, limit := util.Calculate(page, size)

	result, err := h.Svc.ListProducts(ctx, offset, limit, uint(categoryID))
	if err != nil {
		return serviceError(c, l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		l.Warn("get_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	view, err := h.Svc.GetProduct(ctx, uint(id))
	if err != nil {
		return serviceError(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return serviceError(c, l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	result, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return serviceError(c, l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, result)
}
