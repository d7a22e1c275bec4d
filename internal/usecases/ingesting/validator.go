package ingesting

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
)

// RecordValidator valida uma linha bruta e produz o registro normalizado com
// os campos já convertidos. As quatro regras são avaliadas de forma
// independente, então uma linha inválida reporta todos os motivos de uma vez.
type RecordValidator struct{}

func NewRecordValidator() *RecordValidator {
	return &RecordValidator{}
}

// Validate recebe a linha e o número dela no arquivo original (primeira linha
// de dados = 2, por causa do cabeçalho). Retorna o registro normalizado ou um
// RowError com um motivo por campo inválido.
func (v *RecordValidator) Validate(row rawRow, rowNumber int) (*domain.NormalizedRecord, *RowError) {
	var reasons []string

	name := strings.TrimSpace(row.productName)
	if name == "" {
		reasons = append(reasons, "Product name is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(row.price))
	if err != nil {
		reasons = append(reasons, "Invalid price format")
	} else if price.IsNegative() {
		reasons = append(reasons, "Price cannot be negative")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(row.quantity))
	if err != nil {
		reasons = append(reasons, "Invalid quantity format")
	} else if quantity <= 0 {
		reasons = append(reasons, "Quantity must be positive")
	}

	soldAt, err := utils.ParseSaleDate(row.soldAt)
	if err != nil {
		reasons = append(reasons, "Invalid date format")
	}

	if len(reasons) > 0 {
		return nil, &RowError{Row: rowNumber, Reasons: reasons}
	}

	return &domain.NormalizedRecord{
		ProductName: name,
		Category:    strings.TrimSpace(row.category),
		Price:       price,
		Quantity:    quantity,
		SoldAt:      soldAt,
	}, nil
}
