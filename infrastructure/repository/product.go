package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

const productsTable = "products"

// ProductRepository acessa o catálogo de produtos. Todos os métodos recebem um
// postgres.Queryer explícito para poderem participar da transação do lote de
// ingestão (ou rodar direto na conexão, fora de transação).
type ProductRepository interface {
	GetByName(ctx context.Context, q postgres.Queryer, name string) (*domain.Product, error)
	Create(ctx context.Context, q postgres.Queryer, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, q postgres.Queryer, product *domain.Product) error
}

type productRepository struct{}

func NewProductRepository() ProductRepository {
	return &productRepository{}
}

// GetByName busca um produto pelo nome exato. Retorna nil quando não existe.
func (r *productRepository) GetByName(ctx context.Context, q postgres.Queryer, name string) (*domain.Product, error) {
	query, args, err := squirrel.
		Select("id", "name", "category", "price", "created_at", "updated_at").
		From(productsTable).
		Where(squirrel.Eq{"name": name}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	product := &domain.Product{}
	err = q.QueryRowContext(ctx, query, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Price,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear produto: %w", err)
	}

	return product, nil
}

func (r *productRepository) Create(ctx context.Context, q postgres.Queryer, product *domain.Product) (*domain.Product, error) {
	query, args, err := squirrel.
		Insert(productsTable).
		Columns("name", "category", "price").
		Values(product.Name, product.Category, product.Price).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = q.QueryRowContext(ctx, query, args...).Scan(&product.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("erro ao inserir produto: %w", err)
	}

	return product, nil
}

// Update sobrescreve categoria e preço do produto (last-write-wins).
func (r *productRepository) Update(ctx context.Context, q postgres.Queryer, product *domain.Product) error {
	query, args, err := squirrel.
		Update(productsTable).
		Set("category", product.Category).
		Set("price", product.Price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": product.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}

	return nil
}
