package ingesting

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedUpload indica que o conteúdo enviado não é um CSV legível.
// Erro fatal do lote, detectado antes de qualquer processamento.
var ErrMalformedUpload = errors.New("invalid CSV file")

// SchemaError indica que o cabeçalho do CSV não contém todas as colunas
// obrigatórias. Também fatal: nenhuma linha é processada.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
}

// RowError acumula os motivos de rejeição de uma única linha. A linha é
// descartada como um todo, mas o lote continua.
type RowError struct {
	Row     int
	Reasons []string
}

// Message formata o erro no padrão exibido ao usuário:
// "Row {n}: motivo1; motivo2". O número da linha já considera o cabeçalho
// (primeira linha de dados = 2).
func (e *RowError) Message() string {
	return fmt.Sprintf("Row %d: %s", e.Row, strings.Join(e.Reasons, "; "))
}

func (e *RowError) Error() string {
	return e.Message()
}
