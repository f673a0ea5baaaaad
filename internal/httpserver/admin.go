package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

type AdminHTTP struct {
	Catalog   *service.CatalogService
	Users     *service.UserService
	Analytics *service.AnalyticsService
}

func (h *AdminHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.add")

	var req transport.AddProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	product, err := h.Catalog.AddProduct(ctx, req)
	if err != nil {
		return serviceError(c, l, "add_product_error", err)
	}

	l.Info("product added", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		l.Warn("delete_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	if err := h.Catalog.DeleteProduct(ctx, uint(id)); err != nil {
		return serviceError(c, l, "delete_product_error", err)
	}

	l.Info("product deleted", "product_id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *AdminHTTP) ModifyUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.user.modify")

	var req transport.ModifyUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("modify_user_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.UserID == 0 {
		l.Warn("modify_user_error", "status", 400)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}

	user, err := h.Users.ModifyUser(ctx, service.ModifyUserRequest{
		UserID:   req.UserID,
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return serviceError(c, l, "modify_user_error", err)
	}

	l.Info("user modified", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

func (h *AdminHTTP) GetUserByID(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.user.get")

	var req transport.GetUserByIDRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("get_user_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.UserID == 0 {
		l.Warn("get_user_error", "status", 400)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}

	user, err := h.Users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return serviceError(c, l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// DailyBusiness reports on a single day; the date query parameter defaults to
// today.
func (h *AdminHTTP) DailyBusiness(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.business.daily")

	date := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			l.Warn("daily_business_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		}
		date = parsed
	}

	report, err := h.Analytics.Daily(ctx, date)
	if err != nil {
		return serviceError(c, l, "daily_business_error", err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHTTP) MonthlyBusiness(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.business.monthly")

	now := time.Now().UTC()
	month := intQueryParam(c, "month", int(now.Month()))
	year := intQueryParam(c, "year", now.Year())

	report, err := h.Analytics.Monthly(ctx, month, year)
	if err != nil {
		return serviceError(c, l, "monthly_business_error", err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHTTP) YearlyBusiness(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.business.yearly")

	year := intQueryParam(c, "year", time.Now().UTC().Year())

	report, err := h.Analytics.Yearly(ctx, year)
	if err != nil {
		return serviceError(c, l, "yearly_business_error", err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHTTP) OverallBusiness(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.business.overall")

	report, err := h.Analytics.Overall(ctx)
	if err != nil {
		return serviceError(c, l, "overall_business_error", err)
	}
	return c.JSON(http.StatusOK, report)
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
