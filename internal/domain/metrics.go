package domain

import "github.com/shopspring/decimal"

// KPIs são os indicadores agregados do período filtrado.
type KPIs struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	TotalUnits   int             `json:"total_units"`
}

// DailyRevenue é uma linha da série diária exibida no dashboard,
// derivada de daily_aggregates.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
	Units   int             `json:"units"`
}

// TopProduct é um produto do ranking por receita no período.
type TopProduct struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	UnitsSold   int             `json:"units_sold"`
	OrdersCount int             `json:"orders_count"`
}

// DateRange ecoa o filtro aplicado na consulta.
type DateRange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// MetricsSummary é a resposta completa do endpoint de métricas do dashboard.
type MetricsSummary struct {
	KPIs         KPIs            `json:"kpis"`
	DailyRevenue []*DailyRevenue `json:"daily_revenue"`
	TopProducts  []*TopProduct   `json:"top_products"`
	DateRange    DateRange       `json:"date_range"`
}
