package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	middleware "github.com/shopedge/backend/internal/middleware/auth"
)

type Deps struct {
	Gate    *middleware.Gate
	DB      *gorm.DB
	Auth    *AuthHTTP
	Cart    *CartHTTP
	Catalog *CatalogHTTP
	Orders  *OrderHTTP
	Payment *PaymentHTTP
	Admin   *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(d.Gate.Middleware)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := d.DB.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.POST("/auth/register", d.Auth.Register)
	api.POST("/users/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.GET("/auth/verify", d.Auth.Verify)
	api.POST("/auth/logout", d.Auth.Logout)

	api.GET("/products", d.Catalog.ListProducts)
	api.GET("/products/categories", d.Catalog.ListCategories)
	api.GET("/products/search", d.Catalog.Search)
	api.GET("/products/:id", d.Catalog.GetProduct)

	api.GET("/cart/items", d.Cart.GetItems)
	api.GET("/cart/items/count", d.Cart.CountItems)
	api.POST("/cart/add", d.Cart.AddToCart)
	api.PUT("/cart/update", d.Cart.UpdateQuantity)
	api.DELETE("/cart/delete", d.Cart.DeleteItem)

	api.GET("/orders", d.Orders.GetOrders)
	api.GET("/orders/stats", d.Orders.GetStats)

	api.POST("/payment/create-order", d.Payment.CreateOrder)
	api.POST("/payment/verify", d.Payment.VerifyPayment)

	admin := e.Group("/admin")

	admin.POST("/products/add", d.Admin.AddProduct)
	admin.DELETE("/products/delete/:id", d.Admin.DeleteProduct)

	admin.PUT("/user/modify", d.Admin.ModifyUser)
	admin.POST("/user/getbyid", d.Admin.GetUserByID)

	admin.GET("/business/daily", d.Admin.DailyBusiness)
	admin.GET("/business/monthly", d.Admin.MonthlyBusiness)
	admin.GET("/business/yearly", d.Admin.YearlyBusiness)
	admin.GET("/business/overall", d.Admin.OverallBusiness)
}
