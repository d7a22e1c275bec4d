package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedRecord é uma linha do CSV depois da validação, com todos os campos
// já convertidos para os tipos finais. Só existe para linhas válidas.
type NormalizedRecord struct {
	ProductName string
	Category    string
	Price       decimal.Decimal
	Quantity    int
	SoldAt      time.Time
}

// IngestionReport é o resultado de um lote processado com sucesso.
// Messages preserva a ordem das linhas rejeitadas.
type IngestionReport struct {
	BatchID        string   `json:"batch_id"`
	ProcessedCount int      `json:"processed_count"`
	SkippedCount   int      `json:"skipped_count"`
	Messages       []string `json:"errors"`
}

// DataRows retorna o total de linhas de dados do lote.
func (r *IngestionReport) DataRows() int {
	return r.ProcessedCount + r.SkippedCount
}
