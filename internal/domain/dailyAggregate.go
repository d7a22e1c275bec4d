package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAggregate é a tabela derivada consumida pelo dashboard, uma linha por
// data com pelo menos uma venda. Sempre recalculada por full scan; pode ser
// reconstruída a qualquer momento a partir de sales.
type DailyAggregate struct {
	ID           int64           `json:"id"`
	Date         time.Time       `json:"date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	TotalUnits   int             `json:"total_units"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
