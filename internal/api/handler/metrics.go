package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/metricing"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
)

type metricsResponse struct {
	Success bool                   `json:"success"`
	Data    *domain.MetricsSummary `json:"data"`
}

// GetMetricsSummary responde o resumo do dashboard, com filtro opcional de
// período via query params date_from e date_to (YYYY-MM-DD, inclusivos).
func GetMetricsSummary(service metricing.Metricer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateFrom, err := parseDateParam(r, "date_from")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro date_from inválido, use YYYY-MM-DD", nil)
			return
		}

		dateTo, err := parseDateParam(r, "date_to")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro date_to inválido, use YYYY-MM-DD", nil)
			return
		}

		summary, err := service.GetDashboardMetrics(r.Context(), dateFrom, dateTo)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar métricas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metricsResponse{Success: true, Data: summary}); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
