package utils

import (
	"fmt"
	"strings"
	"time"
)

// saleDateLayouts são os formatos de data aceitos na coluna sold_at, do mais
// comum para o menos comum. Componentes de hora são descartados.
var saleDateLayouts = []string{
	time.DateOnly,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// ParseSaleDate interpreta uma data de venda em qualquer formato reconhecido e
// normaliza para meia-noite UTC (a venda tem granularidade de dia).
func ParseSaleDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range saleDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}
