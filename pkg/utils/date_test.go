package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSaleDate(t *testing.T) {
	jan15 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "ISO date", value: "2024-01-15", want: jan15},
		{name: "ISO datetime", value: "2024-01-15 10:30:00", want: jan15},
		{name: "RFC3339", value: "2024-01-15T10:30:00Z", want: jan15},
		{name: "Barras", value: "2024/01/15", want: jan15},
		{name: "Formato americano", value: "01/15/2024", want: jan15},
		{name: "Formato brasileiro", value: "15-01-2024", want: jan15},
		{name: "Espaços em volta", value: "  2024-01-15  ", want: jan15},
		{name: "Vazio", value: "", wantErr: true},
		{name: "Só espaços", value: "   ", wantErr: true},
		{name: "Texto qualquer", value: "not-a-date", wantErr: true},
		{name: "Mês inexistente", value: "2024-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSaleDate(tt.value)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// A normalização sempre zera o componente de hora
			assert.Equal(t, time.UTC, got.Location())
			assert.Zero(t, got.Hour())
		})
	}
}
