package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

// AnalyticsService computes read-only revenue roll-ups over successful
// orders. It never mutates state; line items that cannot be resolved are
// skipped and counted as unprocessed rather than aborting the report.
type AnalyticsService struct {
	Repo *repo.GormRepo
}

func (s *AnalyticsService) Daily(ctx context.Context, date time.Time) (*transport.BusinessReport, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	orders, err := s.Repo.SuccessfulOrdersBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	report := s.buildReport(ctx, orders)
	report.Period = "Daily"
	report.Date = day.Format("2006-01-02")
	return report, nil
}

func (s *AnalyticsService) Monthly(ctx context.Context, month, year int) (*transport.BusinessReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1..12", ErrValidation)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	orders, err := s.Repo.SuccessfulOrdersBetween(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	report := s.buildReport(ctx, orders)
	report.Period = "Monthly"
	report.Month = month
	report.Year = year
	return report, nil
}

func (s *AnalyticsService) Yearly(ctx context.Context, year int) (*transport.BusinessReport, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	orders, err := s.Repo.SuccessfulOrdersBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	report := s.buildReport(ctx, orders)
	report.Period = "Yearly"
	report.Year = year
	return report, nil
}

func (s *AnalyticsService) Overall(ctx context.Context) (*transport.BusinessReport, error) {
	orders, err := s.Repo.SuccessfulOrdersBetween(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	report := s.buildReport(ctx, orders)
	report.Period = "Overall"
	report.TotalBusiness = report.TotalRevenue
	if len(orders) > 0 {
		avg := decimal.NewFromFloat(report.TotalRevenue).
			Div(decimal.NewFromInt(int64(len(orders)))).
			Round(2)
		report.AverageOrderValue = avg.InexactFloat64()
	}
	return report, nil
}

func (s *AnalyticsService) buildReport(ctx context.Context, orders []models.Order) *transport.BusinessReport {
	l := logging.FromContext(ctx).With("svc", "analytics")

	totalRevenue := decimal.Zero
	categorySales := make(map[string]uint)
	categoryRevenue := make(map[string]decimal.Decimal)
	var totalItemsSold uint
	unprocessed := 0

	for _, order := range orders {
		totalRevenue = totalRevenue.Add(order.TotalAmount)

		items, err := s.Repo.OrderItemsByOrder(ctx, order.OrderID)
		if err != nil {
			l.Error("order items fetch failed", "order_id", order.OrderID, "error", err)
			unprocessed++
			continue
		}

		for _, item := range items {
			categoryName, err := s.categoryForProduct(ctx, item.ProductID)
			if err != nil {
				l.Warn("skipping order item", "order_id", order.OrderID,
					"product_id", item.ProductID, "error", err)
				unprocessed++
				continue
			}

			categorySales[categoryName] += item.Quantity
			itemRevenue := item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
			categoryRevenue[categoryName] = categoryRevenue[categoryName].Add(itemRevenue)
			totalItemsSold += item.Quantity
		}
	}

	report := transport.BusinessReport{
		TotalOrders:           len(orders),
		TotalRevenue:          totalRevenue.Round(2).InexactFloat64(),
		CategorySales:         categorySales,
		CategoryRevenue:       make(map[string]float64, len(categoryRevenue)),
		TotalItemsSold:        totalItemsSold,
		UniqueCategories:      len(categorySales),
		TopPerformingCategory: argmaxUint(categorySales),
		TopRevenueCategory:    argmaxDecimal(categoryRevenue),
		UnprocessedItems:      unprocessed,
	}
	for name, revenue := range categoryRevenue {
		report.CategoryRevenue[name] = revenue.Round(2).InexactFloat64()
	}
	return &report
}

func (s *AnalyticsService) categoryForProduct(ctx context.Context, productID uint) (string, error) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	category, err := s.Repo.GetCategory(ctx, product.CategoryID)
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

func argmaxUint(m map[string]uint) string {
	best := "N/A"
	var bestVal uint
	for name, v := range m {
		if best == "N/A" || v > bestVal {
			best, bestVal = name, v
		}
	}
	return best
}

func argmaxDecimal(m map[string]decimal.Decimal) string {
	best := "N/A"
	var bestVal decimal.Decimal
	for name, v := range m {
		if best == "N/A" || v.GreaterThan(bestVal) {
			best, bestVal = name, v
		}
	}
	return best
}
