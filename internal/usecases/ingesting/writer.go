package ingesting

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// SaleWriter persiste uma venda validada. O total é sempre calculado aqui,
// com o preço da linha (não o preço atual do catálogo), e nunca recalculado
// depois.
type SaleWriter struct {
	sales repository.SaleRepository
}

func NewSaleWriter(sales repository.SaleRepository) *SaleWriter {
	return &SaleWriter{
		sales: sales,
	}
}

func (w *SaleWriter) Write(ctx context.Context, q postgres.Queryer, product *domain.Product, record *domain.NormalizedRecord) (*domain.Sale, error) {
	sale := &domain.Sale{
		ProductID: product.ID,
		Quantity:  record.Quantity,
		Price:     record.Price,
		SoldAt:    record.SoldAt,
		Total:     record.Price.Mul(decimal.NewFromInt(int64(record.Quantity))),
	}

	return w.sales.Create(ctx, q, sale)
}
