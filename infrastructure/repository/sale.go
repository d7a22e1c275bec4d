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

const salesTable = "sales"

// SaleRepository persiste vendas (append-only) e expõe as leituras agregadas
// usadas pelo recálculo diário e pelo dashboard.
type SaleRepository interface {
	Create(ctx context.Context, q postgres.Queryer, sale *domain.Sale) (*domain.Sale, error)
	// DailyTotals faz o full scan da tabela de vendas agrupado por data.
	DailyTotals(ctx context.Context, q postgres.Queryer) ([]*domain.DailySales, error)
	Totals(ctx context.Context, q postgres.Queryer, from, to *time.Time) (*domain.KPIs, error)
	TopProductsByRevenue(ctx context.Context, q postgres.Queryer, from, to *time.Time, limit int) ([]*domain.TopProduct, error)
}

type saleRepository struct{}

func NewSaleRepository() SaleRepository {
	return &saleRepository{}
}

func (r *saleRepository) Create(ctx context.Context, q postgres.Queryer, sale *domain.Sale) (*domain.Sale, error) {
	query, args, err := squirrel.
		Insert(salesTable).
		Columns("product_id", "quantity", "price", "sold_at", "total").
		Values(
			sale.ProductID,
			sale.Quantity,
			sale.Price,
			sale.SoldAt.Format(time.DateOnly),
			sale.Total,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = q.QueryRowContext(ctx, query, args...).Scan(&sale.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("erro ao inserir venda: %w", err)
	}

	return sale, nil
}

func (r *saleRepository) DailyTotals(ctx context.Context, q postgres.Queryer) ([]*domain.DailySales, error) {
	query, args, err := squirrel.
		Select(
			"sold_at",
			"COALESCE(SUM(total), 0) AS total_revenue",
			"COUNT(id) AS total_orders",
			"COALESCE(SUM(quantity), 0) AS total_units",
		).
		From(salesTable).
		GroupBy("sold_at").
		OrderBy("sold_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	totals := make([]*domain.DailySales, 0)
	for rows.Next() {
		daily := &domain.DailySales{}
		if err := rows.Scan(
			&daily.Date,
			&daily.TotalRevenue,
			&daily.TotalOrders,
			&daily.TotalUnits,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear totais diários: %w", err)
		}
		totals = append(totals, daily)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return totals, nil
}

func (r *saleRepository) Totals(ctx context.Context, q postgres.Queryer, from, to *time.Time) (*domain.KPIs, error) {
	builder := squirrel.
		Select(
			"COALESCE(SUM(total), 0) AS total_revenue",
			"COUNT(id) AS total_orders",
			"COALESCE(SUM(quantity), 0) AS total_units",
		).
		From(salesTable)

	builder = applySoldAtRange(builder, from, to)

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	kpis := &domain.KPIs{}
	err = q.QueryRowContext(ctx, query, args...).Scan(
		&kpis.TotalRevenue,
		&kpis.TotalOrders,
		&kpis.TotalUnits,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear KPIs: %w", err)
	}

	return kpis, nil
}

func (r *saleRepository) TopProductsByRevenue(ctx context.Context, q postgres.Queryer, from, to *time.Time, limit int) ([]*domain.TopProduct, error) {
	builder := squirrel.
		Select(
			"p.name",
			"p.category",
			"COALESCE(SUM(s.total), 0) AS total_sales",
			"COALESCE(SUM(s.quantity), 0) AS units_sold",
			"COUNT(s.id) AS orders_count",
		).
		From(salesTable + " s").
		Join(productsTable + " p ON p.id = s.product_id").
		GroupBy("p.name", "p.category").
		OrderBy("total_sales DESC").
		Limit(uint64(limit))

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"s.sold_at": from.Format(time.DateOnly)})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"s.sold_at": to.Format(time.DateOnly)})
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

	products := make([]*domain.TopProduct, 0)
	for rows.Next() {
		product := &domain.TopProduct{}
		if err := rows.Scan(
			&product.Name,
			&product.Category,
			&product.TotalSales,
			&product.UnitsSold,
			&product.OrdersCount,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear top produtos: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return products, nil
}

func applySoldAtRange(builder squirrel.SelectBuilder, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"sold_at": from.Format(time.DateOnly)})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"sold_at": to.Format(time.DateOnly)})
	}
	return builder
}
