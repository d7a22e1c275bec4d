package ingesting

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"go.uber.org/mock/gomock"
)

// txRunnerStub executa fn diretamente, sem banco. Os repositórios são mocks e
// ignoram o Queryer, então a transação em si não precisa existir.
type txRunnerStub struct {
	calls int
}

func (s *txRunnerStub) RunInTransaction(_ context.Context, fn func(*sql.Tx) error) error {
	s.calls++
	return fn(nil)
}

// recomputerStub registra as chamadas de Recompute feitas dentro do lote.
type recomputerStub struct {
	calls int
	err   error
}

func (s *recomputerStub) Recompute(_ context.Context, _ postgres.Queryer) error {
	s.calls++
	return s.err
}

func TestService_ProcessUpload(t *testing.T) {
	log.SetupTestLogger()

	t.Run("Lote com linha inválida processa as válidas e reporta a rejeitada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		productRepo := mocks.NewMockProductRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		recomputer := &recomputerStub{}
		tx := &txRunnerStub{}

		csv := "product_name,category,price,quantity,sold_at\n" +
			"Widget,Tools,10.00,3,2024-01-15\n" +
			",Tools,abc,0,2024-01-15\n" +
			"Widget,Tools,10.00,2,2024-01-16\n"

		widget := &domain.Product{
			ID:       1,
			Name:     "Widget",
			Category: "Tools",
			Price:    decimal.RequireFromString("10.00"),
		}

		// Primeira linha: produto ainda não existe
		productRepo.EXPECT().
			GetByName(gomock.Any(), gomock.Any(), "Widget").
			Return(nil, nil)
		productRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(widget, nil)

		// Terceira linha: produto já existe com os mesmos dados, sem update
		productRepo.EXPECT().
			GetByName(gomock.Any(), gomock.Any(), "Widget").
			Return(widget, nil)

		var written []*domain.Sale
		saleRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ postgres.Queryer, sale *domain.Sale) (*domain.Sale, error) {
				written = append(written, sale)
				return sale, nil
			}).
			Times(2)

		service := NewService(tx, productRepo, saleRepo, recomputer)

		report, err := service.ProcessUpload(context.Background(), strings.NewReader(csv))
		require.NoError(t, err)
		require.NotNil(t, report)

		assert.Equal(t, 2, report.ProcessedCount)
		assert.Equal(t, 1, report.SkippedCount)
		assert.Equal(t, 3, report.DataRows())
		assert.NotEmpty(t, report.BatchID)

		require.Len(t, report.Messages, 1)
		assert.Equal(t, "Row 3: Product name is required; Invalid price format; Quantity must be positive", report.Messages[0])

		// Total calculado com o preço da linha
		require.Len(t, written, 2)
		assert.True(t, written[0].Total.Equal(decimal.RequireFromString("30.00")))
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), written[0].SoldAt)
		assert.True(t, written[1].Total.Equal(decimal.RequireFromString("20.00")))

		// Tudo rodou em uma única transação, com recálculo no final
		assert.Equal(t, 1, tx.calls)
		assert.Equal(t, 1, recomputer.calls)
	})

	t.Run("Lote só com linhas inválidas ainda é um lote bem-sucedido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		productRepo := mocks.NewMockProductRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		recomputer := &recomputerStub{}

		csv := "product_name,category,price,quantity,sold_at\n" +
			",Tools,10.00,3,2024-01-15\n" +
			"Widget,Tools,10.00,3,bad-date\n"

		service := NewService(&txRunnerStub{}, productRepo, saleRepo, recomputer)

		report, err := service.ProcessUpload(context.Background(), strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 0, report.ProcessedCount)
		assert.Equal(t, 2, report.SkippedCount)
		assert.Equal(t, []string{
			"Row 2: Product name is required",
			"Row 3: Invalid date format",
		}, report.Messages)

		// O recálculo roda mesmo sem linhas novas
		assert.Equal(t, 1, recomputer.calls)
	})

	t.Run("Cabeçalho sem colunas obrigatórias rejeita o lote inteiro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(
			&txRunnerStub{},
			mocks.NewMockProductRepository(ctrl),
			mocks.NewMockSaleRepository(ctrl),
			&recomputerStub{},
		)

		report, err := service.ProcessUpload(context.Background(), strings.NewReader("product_name,category\nWidget,Tools\n"))
		require.Nil(t, report)

		var schemaErr *SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	})

	t.Run("Falha de armazenamento desfaz o lote e não devolve relatório", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		productRepo := mocks.NewMockProductRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		recomputer := &recomputerStub{}

		csv := "product_name,category,price,quantity,sold_at\n" +
			"Widget,Tools,10.00,3,2024-01-15\n"

		productRepo.EXPECT().
			GetByName(gomock.Any(), gomock.Any(), "Widget").
			Return(nil, nil)
		productRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.Product{ID: 1, Name: "Widget"}, nil)

		saleRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset"))

		service := NewService(&txRunnerStub{}, productRepo, saleRepo, recomputer)

		report, err := service.ProcessUpload(context.Background(), strings.NewReader(csv))
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "linha 2")

		// O recálculo nunca chega a rodar
		assert.Equal(t, 0, recomputer.calls)
	})

	t.Run("Falha no recálculo de agregados também desfaz o lote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		productRepo := mocks.NewMockProductRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		recomputer := &recomputerStub{err: errors.New("deadlock detected")}

		csv := "product_name,category,price,quantity,sold_at\n" +
			"Widget,Tools,10.00,3,2024-01-15\n"

		productRepo.EXPECT().
			GetByName(gomock.Any(), gomock.Any(), "Widget").
			Return(nil, nil)
		productRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.Product{ID: 1, Name: "Widget"}, nil)
		saleRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ postgres.Queryer, sale *domain.Sale) (*domain.Sale, error) {
				return sale, nil
			})

		service := NewService(&txRunnerStub{}, productRepo, saleRepo, recomputer)

		report, err := service.ProcessUpload(context.Background(), strings.NewReader(csv))
		require.Error(t, err)
		assert.Nil(t, report)
	})

	t.Run("Lotes consecutivos não vazam contagens entre si", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		productRepo := mocks.NewMockProductRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		recomputer := &recomputerStub{}

		csv := "product_name,category,price,quantity,sold_at\n" +
			",Tools,10.00,3,2024-01-15\n"

		service := NewService(&txRunnerStub{}, productRepo, saleRepo, recomputer)

		first, err := service.ProcessUpload(context.Background(), strings.NewReader(csv))
		require.NoError(t, err)
		second, err := service.ProcessUpload(context.Background(), strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 1, first.SkippedCount)
		assert.Equal(t, 1, second.SkippedCount)
		assert.Len(t, second.Messages, 1)
		assert.NotEqual(t, first.BatchID, second.BatchID)
	})
}
