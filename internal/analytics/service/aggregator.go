package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cafetab/internal/domain"
	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
)

type OrderStore interface {
	FindPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
}

// Aggregator derives business metrics from the paid-order ledger in a single
// pass. The café's day boundary uses a fixed configured offset, not the
// server's zone and not DST-aware.
type Aggregator struct {
	orders   OrderStore
	location *time.Location
	logger   *zap.Logger
}

func NewAggregator(orders OrderStore, tzOffsetMinutes int, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		orders:   orders,
		location: time.FixedZone("cafe", tzOffsetMinutes*60),
		logger:   logger,
	}
}

// Window resolves the inclusive [startDate, endDate] query range. Empty
// strings default to the current calendar day in café local time.
func (a *Aggregator) Window(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now().In(a.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.location)

	fromDay := today
	if startDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", startDate, a.location)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError(
				"invalid date range",
				apperrors.ValidationDetail{Field: "startDate", Message: "must be formatted YYYY-MM-DD"},
			)
		}
		fromDay = parsed
	}

	toDay := today
	if endDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", endDate, a.location)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError(
				"invalid date range",
				apperrors.ValidationDetail{Field: "endDate", Message: "must be formatted YYYY-MM-DD"},
			)
		}
		toDay = parsed
	}

	if toDay.Before(fromDay) {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(
			"invalid date range",
			apperrors.ValidationDetail{Field: "endDate", Message: "endDate must not precede startDate"},
		)
	}

	return fromDay, toDay.Add(24*time.Hour - time.Nanosecond), nil
}

func (a *Aggregator) Summary(ctx context.Context, from, to time.Time) (*dto.AnalyticsSummary, error) {
	orders, err := a.orders.FindPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totalRevenue := 0.0
	totalItemsSold := 0
	var hourBuckets [24]int

	soldByName := make(map[string]int)
	var nameOrder []string

	for i := range orders {
		order := &orders[i]

		hourBuckets[order.CreatedAt.In(a.location).Hour()]++

		if len(order.Items) == 0 {
			// A paid order without loadable lines contributes zero revenue
			// but never aborts the aggregation.
			a.logger.Warn("skipping order with no readable items",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("operation", "analytics summary"),
			)
			continue
		}

		for _, line := range order.Items {
			totalRevenue += line.Subtotal()
			totalItemsSold += line.Quantity

			if _, seen := soldByName[line.Name]; !seen {
				nameOrder = append(nameOrder, line.Name)
			}
			soldByName[line.Name] += line.Quantity
		}
	}

	totalOrders := len(orders)

	averageOrderValue := 0.0
	if totalOrders > 0 {
		averageOrderValue = totalRevenue / float64(totalOrders)
	}

	// Ties go to the item first encountered in the scan.
	mostSold := dto.MostSoldItem{Name: "N/A", TotalSold: 0}
	for _, name := range nameOrder {
		if soldByName[name] > mostSold.TotalSold {
			mostSold = dto.MostSoldItem{Name: name, TotalSold: soldByName[name]}
		}
	}

	return &dto.AnalyticsSummary{
		TotalOrders:       totalOrders,
		TotalRevenue:      totalRevenue,
		AverageOrderValue: averageOrderValue,
		MostSoldItem:      mostSold,
		PeakHour:          peakHourLabel(hourBuckets),
		TotalItemsSold:    totalItemsSold,
	}, nil
}

// peakHourLabel picks the busiest local-hour bucket; the first hour reaching
// the maximum wins ties.
func peakHourLabel(buckets [24]int) string {
	peakHour, peakCount := -1, 0
	for hour, count := range buckets {
		if count > peakCount {
			peakHour, peakCount = hour, count
		}
	}

	if peakHour < 0 {
		return "N/A"
	}
	return fmt.Sprintf("%02d:00-%02d:00", peakHour, peakHour+1)
}
