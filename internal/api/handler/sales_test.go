package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/ingesting"
)

type ingesterStub struct {
	report *domain.IngestionReport
	err    error
}

func (s *ingesterStub) ProcessUpload(_ context.Context, _ io.Reader) (*domain.IngestionReport, error) {
	return s.report, s.err
}

func uploadConfig() *config.Config {
	return &config.Config{
		Upload: config.Upload{MaxSizeBytes: 10 * 1024 * 1024},
	}
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadSales(t *testing.T) {
	csvContent := "product_name,category,price,quantity,sold_at\nWidget,Tools,10.00,3,2024-01-15\n"

	t.Run("Upload válido devolve o relatório do lote", func(t *testing.T) {
		service := &ingesterStub{
			report: &domain.IngestionReport{
				BatchID:        "abc123",
				ProcessedCount: 2,
				SkippedCount:   1,
				Messages:       []string{"Row 3: Invalid price format"},
			},
		}

		body, contentType := multipartUpload(t, "sales.csv", csvContent)
		req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		UploadSales(service, uploadConfig())(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response uploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "Processed 2 rows, skipped 1 invalid rows", response.Message)
		require.NotNil(t, response.Data)
		assert.Equal(t, "abc123", response.Data.BatchID)
		assert.Equal(t, []string{"Row 3: Invalid price format"}, response.Data.Messages)
	})

	t.Run("Extensão diferente de .csv é rejeitada", func(t *testing.T) {
		body, contentType := multipartUpload(t, "sales.txt", csvContent)
		req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		UploadSales(&ingesterStub{}, uploadConfig())(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VAL_003")
	})

	t.Run("Requisição sem arquivo é rejeitada", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", bytes.NewReader(nil))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
		rec := httptest.NewRecorder()

		UploadSales(&ingesterStub{}, uploadConfig())(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VAL_002")
	})

	t.Run("Cabeçalho fora do esquema vira 400 com a mensagem de colunas", func(t *testing.T) {
		service := &ingesterStub{
			err: &ingesting.SchemaError{MissingColumns: []string{"price", "quantity"}},
		}

		body, contentType := multipartUpload(t, "sales.csv", "product_name,category\n")
		req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		UploadSales(service, uploadConfig())(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VAL_004")
		assert.Contains(t, rec.Body.String(), "missing required columns: price, quantity")
	})

	t.Run("Falha de armazenamento vira 500 sem contagens parciais", func(t *testing.T) {
		service := &ingesterStub{err: errors.New("pq: connection reset")}

		body, contentType := multipartUpload(t, "sales.csv", csvContent)
		req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		UploadSales(service, uploadConfig())(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "SRV_002")
		assert.NotContains(t, rec.Body.String(), "processed_count")
	})
}
