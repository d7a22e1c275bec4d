package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/api"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/scheduler"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/metricing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	productRepo := repository.NewProductRepository()
	saleRepo := repository.NewSaleRepository()
	aggregateRepo := repository.NewDailyAggregateRepository()
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	aggregatingService := aggregating.NewService(pgConn, saleRepo, aggregateRepo)

	ingestionService := ingesting.NewService(pgConn, productRepo, saleRepo, aggregatingService)

	metricsService := metricing.NewService(pgConn, saleRepo, aggregateRepo)

	// Agendador de reconciliação noturna dos agregados diários
	aggregateReconcileService := scheduler.NewAggregateReconcileService(aggregatingService, cfg)

	if err := aggregateReconcileService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de reconciliação de agregados")
	} else {
		logrus.Info("Agendador de reconciliação de agregados iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		ingestionService,
		metricsService,
		authenticator,
		aggregateReconcileService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
