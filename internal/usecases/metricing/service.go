package metricing

import (
	"context"
	"time"

	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// topProductsLimit é o tamanho do ranking de produtos exibido no dashboard.
const topProductsLimit = 5

// Metricer é a leitura agregada consumida pelo dashboard. Opera somente
// sobre dados já commitados; não tem invariantes próprios além de filtro e
// soma corretos.
type Metricer interface {
	GetDashboardMetrics(ctx context.Context, dateFrom, dateTo *time.Time) (*domain.MetricsSummary, error)
}

type Service struct {
	conn       postgres.Queryer
	sales      repository.SaleRepository
	aggregates repository.DailyAggregateRepository
}

func NewService(
	conn postgres.Queryer,
	saleRepo repository.SaleRepository,
	aggregateRepo repository.DailyAggregateRepository,
) Metricer {
	return &Service{
		conn:       conn,
		sales:      saleRepo,
		aggregates: aggregateRepo,
	}
}

// GetDashboardMetrics monta o resumo do dashboard: KPIs e top produtos vêm
// direto de sales; a série diária vem de daily_aggregates. Os dois limites do
// filtro são inclusivos.
func (s *Service) GetDashboardMetrics(ctx context.Context, dateFrom, dateTo *time.Time) (*domain.MetricsSummary, error) {
	kpis, err := s.sales.Totals(ctx, s.conn, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	aggregates, err := s.aggregates.ListByDateRange(ctx, s.conn, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.sales.TopProductsByRevenue(ctx, s.conn, dateFrom, dateTo, topProductsLimit)
	if err != nil {
		return nil, err
	}

	dailyRevenue := make([]*domain.DailyRevenue, 0, len(aggregates))
	for _, aggregate := range aggregates {
		dailyRevenue = append(dailyRevenue, &domain.DailyRevenue{
			Date:    aggregate.Date.Format(time.DateOnly),
			Revenue: aggregate.TotalRevenue,
			Orders:  aggregate.TotalOrders,
			Units:   aggregate.TotalUnits,
		})
	}

	return &domain.MetricsSummary{
		KPIs:         *kpis,
		DailyRevenue: dailyRevenue,
		TopProducts:  topProducts,
		DateRange: domain.DateRange{
			From: formatDate(dateFrom),
			To:   formatDate(dateTo),
		},
	}, nil
}

func formatDate(date *time.Time) *string {
	if date == nil {
		return nil
	}
	formatted := date.Format(time.DateOnly)
	return &formatted
}
