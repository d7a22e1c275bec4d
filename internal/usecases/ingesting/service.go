package ingesting

import (
	"context"
	"database/sql"
	"io"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
)

// Stage identifica em que etapa do pipeline um lote está, para logs.
type Stage string

const (
	StageNotStarted  Stage = "not_started"
	StageParsing     Stage = "parsing"
	StageValidating  Stage = "validating_and_writing"
	StageAggregating Stage = "aggregating"
	StageCompleted   Stage = "completed"
	StageFailed      Stage = "failed"
)

// Ingester processa um upload inteiro como um lote atômico.
type Ingester interface {
	ProcessUpload(ctx context.Context, file io.Reader) (*domain.IngestionReport, error)
}

// AggregateRecomputer recalcula os agregados diários dentro da transação do
// lote. Implementado por aggregating.Service.
type AggregateRecomputer interface {
	Recompute(ctx context.Context, q postgres.Queryer) error
}

// Service é o orquestrador do pipeline de ingestão: parse do CSV, loop de
// validação/escrita linha a linha e recálculo de agregados, tudo dentro de
// uma única transação. Uma linha inválida é pulada e registrada; qualquer
// falha de armazenamento desfaz o lote inteiro.
type Service struct {
	db         postgres.TxRunner
	validator  *RecordValidator
	resolver   *CatalogResolver
	writer     *SaleWriter
	recomputer AggregateRecomputer
}

func NewService(
	db postgres.TxRunner,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	recomputer AggregateRecomputer,
) Ingester {
	return &Service{
		db:         db,
		validator:  NewRecordValidator(),
		resolver:   NewCatalogResolver(productRepo),
		writer:     NewSaleWriter(saleRepo),
		recomputer: recomputer,
	}
}

// batchRun acumula o progresso de um único lote. É um valor local da chamada
// de ProcessUpload, nunca estado do Service, para que execuções consecutivas
// não vazem contagens ou mensagens entre si.
type batchRun struct {
	batchID   string
	stage     Stage
	processed int
	skipped   int
	messages  []string
}

func (b *batchRun) skip(message string) {
	b.skipped++
	b.messages = append(b.messages, message)
}

func (b *batchRun) report() *domain.IngestionReport {
	return &domain.IngestionReport{
		BatchID:        b.batchID,
		ProcessedCount: b.processed,
		SkippedCount:   b.skipped,
		Messages:       b.messages,
	}
}

func (s *Service) ProcessUpload(ctx context.Context, file io.Reader) (*domain.IngestionReport, error) {
	batchID, err := utils.GenerateBatchID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o ID do lote")
	}

	logger := log.ForContext(ctx).WithField("batch_id", batchID)
	run := &batchRun{batchID: batchID, stage: StageNotStarted, messages: make([]string, 0)}

	run.stage = StageParsing
	rows, err := parseUpload(file)
	if err != nil {
		run.stage = StageFailed
		logger.WithError(err).Warn("Lote rejeitado antes do processamento")
		return nil, err
	}

	logger.WithField("data_rows", len(rows)).Info("Lote interpretado, iniciando processamento")

	err = s.db.RunInTransaction(ctx, func(tx *sql.Tx) error {
		run.stage = StageValidating
		for i, row := range rows {
			// Linha 1 é o cabeçalho; a primeira linha de dados reporta como 2.
			rowNumber := i + 2

			record, rowErr := s.validator.Validate(row, rowNumber)
			if rowErr != nil {
				run.skip(rowErr.Message())
				continue
			}

			product, err := s.resolver.Resolve(ctx, tx, record)
			if err != nil {
				return errors.Wrapf(err, "erro ao resolver o produto da linha %d", rowNumber)
			}

			if _, err := s.writer.Write(ctx, tx, product, record); err != nil {
				return errors.Wrapf(err, "erro ao gravar a venda da linha %d", rowNumber)
			}

			run.processed++
		}

		run.stage = StageAggregating
		if err := s.recomputer.Recompute(ctx, tx); err != nil {
			return errors.Wrap(err, "erro ao recalcular agregados diários")
		}

		return nil
	})
	if err != nil {
		// Rollback já aconteceu: nenhuma linha deste lote foi persistida.
		run.stage = StageFailed
		logger.WithError(err).Error("Falha de armazenamento, lote inteiro desfeito")
		return nil, err
	}

	run.stage = StageCompleted
	logger.WithFields(log.Fields{
		"processed": run.processed,
		"skipped":   run.skipped,
	}).Info("Lote processado com sucesso")

	return run.report(), nil
}
