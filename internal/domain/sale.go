package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale é uma venda individual, imutável depois de criada.
// Price é o preço unitário da linha no momento da venda; pode divergir do
// preço atual do catálogo. Total = Quantity × Price, calculado na criação.
type Sale struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	SoldAt    time.Time       `json:"sold_at"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// DailySales é o resultado do full scan agrupado por data, usado pelo
// recálculo dos agregados diários.
type DailySales struct {
	Date         time.Time
	TotalRevenue decimal.Decimal
	TotalOrders  int
	TotalUnits   int
}
