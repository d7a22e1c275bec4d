package aggregating

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
)

// Recomputer recalcula os agregados diários por full scan da tabela de
// vendas. Não há atualização incremental: cada execução reconstrói uma linha
// por data com pelo menos uma venda, via upsert chaveado na data. O custo é
// O(total de vendas) por lote, aceitável para ingestão periódica de lotes
// pequenos.
type Recomputer interface {
	// Recompute roda dentro do Queryer recebido, normalmente a transação do
	// lote de ingestão.
	Recompute(ctx context.Context, q postgres.Queryer) error
	// Reconcile roda o mesmo recálculo em transação própria; é a ferramenta
	// de reparo usada pelo agendador e pelo disparo manual.
	Reconcile(ctx context.Context) error
}

type Service struct {
	db         postgres.TxRunner
	sales      repository.SaleRepository
	aggregates repository.DailyAggregateRepository
}

func NewService(
	db postgres.TxRunner,
	saleRepo repository.SaleRepository,
	aggregateRepo repository.DailyAggregateRepository,
) Recomputer {
	return &Service{
		db:         db,
		sales:      saleRepo,
		aggregates: aggregateRepo,
	}
}

func (s *Service) Recompute(ctx context.Context, q postgres.Queryer) error {
	totals, err := s.sales.DailyTotals(ctx, q)
	if err != nil {
		return errors.Wrap(err, "erro ao consultar totais diários")
	}

	for _, daily := range totals {
		aggregate := &domain.DailyAggregate{
			Date:         daily.Date,
			TotalRevenue: daily.TotalRevenue,
			TotalOrders:  daily.TotalOrders,
			TotalUnits:   daily.TotalUnits,
		}

		if err := s.aggregates.Upsert(ctx, q, aggregate); err != nil {
			return errors.Wrapf(err, "erro ao gravar agregado de %s", daily.Date.Format("2006-01-02"))
		}
	}

	log.ForContext(ctx).WithField("dates", len(totals)).Debug("Agregados diários recalculados")

	return nil
}

func (s *Service) Reconcile(ctx context.Context) error {
	return s.db.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return s.Recompute(ctx, tx)
	})
}
