package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/metricing"
	"github.com/vfg2006/sales-metrics-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/register",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sales(service ingesting.Ingester, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sales/upload",
			Method:      http.MethodPost,
			Handler:     UploadSales(service, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Metrics(service metricing.Metricer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/metrics/summary",
			Method:      http.MethodGet,
			Handler:     GetMetricsSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
