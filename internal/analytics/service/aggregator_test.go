package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafetab/internal/domain"
	apperrors "cafetab/internal/errors"
)

type mockOrderStore struct {
	FindPaidBetweenFunc func(ctx context.Context, from, to time.Time) ([]domain.Order, error)
}

func (m *mockOrderStore) FindPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	return m.FindPaidBetweenFunc(ctx, from, to)
}

func storeWith(orders []domain.Order) *mockOrderStore {
	return &mockOrderStore{
		FindPaidBetweenFunc: func(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
			return orders, nil
		},
	}
}

func paidOrder(number string, createdAt time.Time, lines ...domain.OrderLine) domain.Order {
	return domain.Order{
		OrderNumber: number,
		Status:      domain.OrderStatusPaid,
		CreatedAt:   createdAt,
		Items:       lines,
	}
}

func TestSummary_RevenueAndItemCounts(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC)
	agg := NewAggregator(storeWith([]domain.Order{
		paidOrder("ORD-1", createdAt,
			domain.OrderLine{Name: "Latte", Price: 10, Quantity: 2},
			domain.OrderLine{Name: "Croissant", Price: 5, Quantity: 1},
		),
	}), 0, zap.NewNop())

	summary, err := agg.Summary(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalOrders)
	assert.Equal(t, 25.0, summary.TotalRevenue)
	assert.Equal(t, 25.0, summary.AverageOrderValue)
	assert.Equal(t, 3, summary.TotalItemsSold)
	assert.Equal(t, "Latte", summary.MostSoldItem.Name)
	assert.Equal(t, 2, summary.MostSoldItem.TotalSold)
	assert.Equal(t, "12:00-13:00", summary.PeakHour)
}

func TestSummary_EmptyWindow(t *testing.T) {
	agg := NewAggregator(storeWith(nil), 0, zap.NewNop())

	summary, err := agg.Summary(context.Background(), time.Now().Add(-time.Hour), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalOrders)
	assert.Equal(t, 0.0, summary.TotalRevenue)
	assert.Equal(t, 0.0, summary.AverageOrderValue)
	assert.Equal(t, 0, summary.TotalItemsSold)
	assert.Equal(t, "N/A", summary.MostSoldItem.Name)
	assert.Equal(t, 0, summary.MostSoldItem.TotalSold)
	assert.Equal(t, "N/A", summary.PeakHour)
}

func TestSummary_OrderWithoutItemsContributesZero(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	agg := NewAggregator(storeWith([]domain.Order{
		paidOrder("ORD-1", createdAt, domain.OrderLine{Name: "Latte", Price: 4, Quantity: 1}),
		paidOrder("ORD-2", createdAt), // no readable lines
	}), 0, zap.NewNop())

	summary, err := agg.Summary(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, 4.0, summary.TotalRevenue)
	assert.Equal(t, 2.0, summary.AverageOrderValue)
	assert.Equal(t, 1, summary.TotalItemsSold)
}

func TestSummary_MostSoldItemTieBreak(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	agg := NewAggregator(storeWith([]domain.Order{
		paidOrder("ORD-1", createdAt,
			domain.OrderLine{Name: "Latte", Price: 4, Quantity: 3},
			domain.OrderLine{Name: "Mocha", Price: 5, Quantity: 3},
		),
	}), 0, zap.NewNop())

	summary, err := agg.Summary(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "Latte", summary.MostSoldItem.Name)
	assert.Equal(t, 3, summary.MostSoldItem.TotalSold)
}

func TestSummary_PeakHourUsesConfiguredOffset(t *testing.T) {
	// 23:30 UTC is 05:00 the next day at +05:30.
	createdAt := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)
	agg := NewAggregator(storeWith([]domain.Order{
		paidOrder("ORD-1", createdAt, domain.OrderLine{Name: "Chai", Price: 2, Quantity: 1}),
	}), 330, zap.NewNop())

	summary, err := agg.Summary(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "05:00-06:00", summary.PeakHour)
}

func TestSummary_PeakHourFirstMaxWins(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 8, 30, hour, 15, 0, 0, time.UTC)
	}
	agg := NewAggregator(storeWith([]domain.Order{
		paidOrder("ORD-1", at(9), domain.OrderLine{Name: "Latte", Price: 4, Quantity: 1}),
		paidOrder("ORD-2", at(14), domain.OrderLine{Name: "Latte", Price: 4, Quantity: 1}),
	}), 0, zap.NewNop())

	summary, err := agg.Summary(context.Background(), at(0), at(23))

	require.NoError(t, err)
	assert.Equal(t, "09:00-10:00", summary.PeakHour)
}

func TestSummary_Idempotent(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agg := NewAggregator(storeWith([]domain.Order{
		paidOrder("ORD-1", createdAt, domain.OrderLine{Name: "Latte", Price: 10, Quantity: 2}),
	}), 0, zap.NewNop())

	first, err := agg.Summary(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	require.NoError(t, err)
	second, err := agg.Summary(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummary_StoreErrorPropagates(t *testing.T) {
	store := &mockOrderStore{
		FindPaidBetweenFunc: func(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
			return nil, apperrors.NewUnavailableError("order store timed out", nil)
		},
	}
	agg := NewAggregator(store, 0, zap.NewNop())

	_, err := agg.Summary(context.Background(), time.Now().Add(-time.Hour), time.Now())

	_, ok := apperrors.IsUnavailableError(err)
	assert.True(t, ok)
}

func TestWindow_ExplicitRange(t *testing.T) {
	agg := NewAggregator(storeWith(nil), 0, zap.NewNop())

	from, to, err := agg.Window("2026-08-01", "2026-08-02")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Unix(), from.Unix())
	// Inclusive end bound: the whole of Aug 2 is in range.
	assert.True(t, to.After(time.Date(2026, 8, 2, 23, 59, 59, 0, time.UTC)))
	assert.True(t, to.Before(time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)))
}

func TestWindow_DefaultIsCurrentLocalDay(t *testing.T) {
	offset := 330
	agg := NewAggregator(storeWith(nil), offset, zap.NewNop())

	from, to, err := agg.Window("", "")

	require.NoError(t, err)
	loc := time.FixedZone("cafe", offset*60)
	now := time.Now().In(loc)
	assert.Equal(t, now.Day(), from.In(loc).Day())
	assert.Equal(t, 0, from.In(loc).Hour())
	assert.True(t, to.After(from))
}

func TestWindow_RejectsBadInput(t *testing.T) {
	agg := NewAggregator(storeWith(nil), 0, zap.NewNop())

	_, _, err := agg.Window("yesterday", "")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, _, err = agg.Window("2026-08-02", "2026-08-01")
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)
}
