package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
)

// uploadResponse é o envelope devolvido pelo endpoint de upload.
type uploadResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    *domain.IngestionReport `json:"data,omitempty"`
}

// UploadSales recebe o CSV de vendas (multipart, campo "file") e dispara o
// pipeline de ingestão. Linhas inválidas não derrubam o lote: a resposta de
// sucesso traz as contagens e os motivos de cada linha pulada.
func UploadSales(service ingesting.Ingester, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UploadSales")

		r.Body = http.MaxBytesReader(w, r.Body, cfg.Upload.MaxSizeBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Arquivo ausente no campo 'file' ou maior que o limite de upload", nil)
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Apenas arquivos .csv são aceitos", nil)
			return
		}

		report, err := service.ProcessUpload(r.Context(), file)
		if err != nil {
			logrus.Error(err)

			var schemaErr *ingesting.SchemaError
			if errors.As(err, &schemaErr) || errors.Is(err, ingesting.ErrMalformedUpload) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidUpload, fmt.Sprintf("Error processing CSV: %s", err.Error()), nil)
				return
			}

			// Falha de armazenamento: o lote inteiro sofreu rollback, então a
			// resposta não carrega contagens parciais.
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar o lote; nenhuma alteração foi persistida", nil)
			return
		}

		response := uploadResponse{
			Success: true,
			Message: fmt.Sprintf("Processed %d rows, skipped %d invalid rows", report.ProcessedCount, report.SkippedCount),
			Data:    report,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}
