package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product é a entrada de catálogo identificada pelo nome único (normalizado).
// Categoria e preço refletem sempre a última linha ingerida que citou o produto
// (last-write-wins, sem histórico).
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
