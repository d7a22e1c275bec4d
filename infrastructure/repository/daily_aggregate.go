package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

const dailyAggregatesTable = "daily_aggregates"

// DailyAggregateRepository mantém a tabela derivada de agregados diários,
// upsert com chave única na data.
type DailyAggregateRepository interface {
	Upsert(ctx context.Context, q postgres.Queryer, aggregate *domain.DailyAggregate) error
	ListByDateRange(ctx context.Context, q postgres.Queryer, from, to *time.Time) ([]*domain.DailyAggregate, error)
}

type dailyAggregateRepository struct{}

func NewDailyAggregateRepository() DailyAggregateRepository {
	return &dailyAggregateRepository{}
}

func (r *dailyAggregateRepository) Upsert(ctx context.Context, q postgres.Queryer, aggregate *domain.DailyAggregate) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(dailyAggregatesTable).
		Columns("date", "total_revenue", "total_orders", "total_units").
		Values(
			aggregate.Date.Format(time.DateOnly),
			aggregate.TotalRevenue,
			aggregate.TotalOrders,
			aggregate.TotalUnits,
		).
		Suffix(`
			ON CONFLICT (date) DO UPDATE SET
				total_revenue = EXCLUDED.total_revenue,
				total_orders = EXCLUDED.total_orders,
				total_units = EXCLUDED.total_units,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = q.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *dailyAggregateRepository) ListByDateRange(ctx context.Context, q postgres.Queryer, from, to *time.Time) ([]*domain.DailyAggregate, error) {
	builder := squirrel.
		Select("id", "date", "total_revenue", "total_orders", "total_units", "created_at", "updated_at").
		From(dailyAggregatesTable).
		OrderBy("date ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": from.Format(time.DateOnly)})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"date": to.Format(time.DateOnly)})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	aggregates := make([]*domain.DailyAggregate, 0)
	for rows.Next() {
		aggregate := &domain.DailyAggregate{}
		if err := rows.Scan(
			&aggregate.ID,
			&aggregate.Date,
			&aggregate.TotalRevenue,
			&aggregate.TotalOrders,
			&aggregate.TotalUnits,
			&aggregate.CreatedAt,
			&aggregate.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear agregado diário: %w", err)
		}
		aggregates = append(aggregates, aggregate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return aggregates, nil
}
