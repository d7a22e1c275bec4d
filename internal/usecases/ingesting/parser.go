package ingesting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// requiredColumns são as colunas obrigatórias do upload. A ordem no arquivo é
// livre e colunas extras são ignoradas.
var requiredColumns = []string{"product_name", "category", "price", "quantity", "sold_at"}

// rawRow é uma linha de dados ainda sem validação, campos como texto cru.
type rawRow struct {
	productName string
	category    string
	price       string
	quantity    string
	soldAt      string
}

// parseUpload lê o CSV inteiro para a memória e resolve o mapeamento de
// colunas pelo cabeçalho. Falhas aqui são fatais para o lote.
func parseUpload(file io.Reader) ([]rawRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	// Linhas com menos campos que o cabeçalho viram campos vazios na
	// validação em vez de abortar o lote inteiro.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedUpload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
	}

	columnIndex := make(map[string]int, len(header))
	for i, column := range header {
		column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
		columnIndex[column] = i
	}

	var missing []string
	for _, column := range requiredColumns {
		if _, ok := columnIndex[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{MissingColumns: missing}
	}

	rows := make([]rawRow, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
		}

		rows = append(rows, rawRow{
			productName: fieldAt(record, columnIndex["product_name"]),
			category:    fieldAt(record, columnIndex["category"]),
			price:       fieldAt(record, columnIndex["price"]),
			quantity:    fieldAt(record, columnIndex["quantity"]),
			soldAt:      fieldAt(record, columnIndex["sold_at"]),
		})
	}

	return rows, nil
}

func fieldAt(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return record[index]
}
