package metricing

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_GetDashboardMetrics(t *testing.T) {
	t.Run("Resumo completo sem filtro de período", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		saleRepo := mocks.NewMockSaleRepository(ctrl)
		aggregateRepo := mocks.NewMockDailyAggregateRepository(ctrl)

		saleRepo.EXPECT().
			Totals(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Nil()).
			Return(&domain.KPIs{
				TotalRevenue: decimal.RequireFromString("50.00"),
				TotalOrders:  2,
				TotalUnits:   5,
			}, nil)

		aggregateRepo.EXPECT().
			ListByDateRange(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Nil()).
			Return([]*domain.DailyAggregate{
				{
					Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
					TotalRevenue: decimal.RequireFromString("30.00"),
					TotalOrders:  1,
					TotalUnits:   3,
				},
				{
					Date:         time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
					TotalRevenue: decimal.RequireFromString("20.00"),
					TotalOrders:  1,
					TotalUnits:   2,
				},
			}, nil)

		saleRepo.EXPECT().
			TopProductsByRevenue(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Nil(), 5).
			Return([]*domain.TopProduct{
				{
					Name:        "Widget",
					Category:    "Tools",
					TotalSales:  decimal.RequireFromString("50.00"),
					UnitsSold:   5,
					OrdersCount: 2,
				},
			}, nil)

		service := NewService(nil, saleRepo, aggregateRepo)

		summary, err := service.GetDashboardMetrics(context.Background(), nil, nil)
		require.NoError(t, err)
		require.NotNil(t, summary)

		assert.True(t, summary.KPIs.TotalRevenue.Equal(decimal.RequireFromString("50.00")))
		assert.Equal(t, 2, summary.KPIs.TotalOrders)
		assert.Equal(t, 5, summary.KPIs.TotalUnits)

		require.Len(t, summary.DailyRevenue, 2)
		assert.Equal(t, "2024-01-15", summary.DailyRevenue[0].Date)
		assert.True(t, summary.DailyRevenue[0].Revenue.Equal(decimal.RequireFromString("30.00")))
		assert.Equal(t, "2024-01-16", summary.DailyRevenue[1].Date)

		require.Len(t, summary.TopProducts, 1)
		assert.Equal(t, "Widget", summary.TopProducts[0].Name)

		assert.Nil(t, summary.DateRange.From)
		assert.Nil(t, summary.DateRange.To)
	})

	t.Run("Filtro de período é ecoado na resposta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		saleRepo := mocks.NewMockSaleRepository(ctrl)
		aggregateRepo := mocks.NewMockDailyAggregateRepository(ctrl)

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

		saleRepo.EXPECT().
			Totals(gomock.Any(), gomock.Any(), &from, &to).
			Return(&domain.KPIs{TotalRevenue: decimal.Zero}, nil)
		aggregateRepo.EXPECT().
			ListByDateRange(gomock.Any(), gomock.Any(), &from, &to).
			Return([]*domain.DailyAggregate{}, nil)
		saleRepo.EXPECT().
			TopProductsByRevenue(gomock.Any(), gomock.Any(), &from, &to, 5).
			Return([]*domain.TopProduct{}, nil)

		service := NewService(nil, saleRepo, aggregateRepo)

		summary, err := service.GetDashboardMetrics(context.Background(), &from, &to)
		require.NoError(t, err)

		require.NotNil(t, summary.DateRange.From)
		require.NotNil(t, summary.DateRange.To)
		assert.Equal(t, "2024-01-01", *summary.DateRange.From)
		assert.Equal(t, "2024-01-31", *summary.DateRange.To)

		assert.Empty(t, summary.DailyRevenue)
		assert.Empty(t, summary.TopProducts)
	})

	t.Run("Erro nos KPIs interrompe a consulta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		saleRepo := mocks.NewMockSaleRepository(ctrl)
		aggregateRepo := mocks.NewMockDailyAggregateRepository(ctrl)

		saleRepo.EXPECT().
			Totals(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Nil()).
			Return(nil, errors.New("connection reset"))

		service := NewService(nil, saleRepo, aggregateRepo)

		summary, err := service.GetDashboardMetrics(context.Background(), nil, nil)
		require.Error(t, err)
		assert.Nil(t, summary)
	})
}
