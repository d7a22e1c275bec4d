package ingesting

import (
	"context"

	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// CatalogResolver resolve o produto de catálogo de um registro normalizado.
// O nome é a identidade: na primeira ocorrência o produto é criado; nas
// seguintes, categoria e preço são sobrescritos sempre que qualquer um dos
// dois divergir da linha mais recente (last-write-wins, sem histórico).
type CatalogResolver struct {
	products repository.ProductRepository
}

func NewCatalogResolver(products repository.ProductRepository) *CatalogResolver {
	return &CatalogResolver{
		products: products,
	}
}

func (r *CatalogResolver) Resolve(ctx context.Context, q postgres.Queryer, record *domain.NormalizedRecord) (*domain.Product, error) {
	product, err := r.products.GetByName(ctx, q, record.ProductName)
	if err != nil {
		return nil, err
	}

	if product == nil {
		return r.products.Create(ctx, q, &domain.Product{
			Name:     record.ProductName,
			Category: record.Category,
			Price:    record.Price,
		})
	}

	if !product.Price.Equal(record.Price) || product.Category != record.Category {
		product.Price = record.Price
		product.Category = record.Category
		if err := r.products.Update(ctx, q, product); err != nil {
			return nil, err
		}
	}

	return product, nil
}
