package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/aggregating"
)

// AggregateReconcileService agenda o recálculo noturno dos agregados diários.
// O recálculo por full scan é a ferramenta de reparo da tabela derivada: se
// os agregados divergirem das vendas por qualquer motivo, a próxima execução
// reconstrói tudo.
type AggregateReconcileService struct {
	scheduler          *gocron.Scheduler
	cronSchedule       string
	enabled            bool
	recomputer         aggregating.Recomputer
	reconcileRunning   bool
	reconcileMutex     sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
}

func NewAggregateReconcileService(
	recomputer aggregating.Recomputer,
	appConfig *config.Config,
) *AggregateReconcileService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.AggregateReconcile.CronSchedule,
		"enabled":       appConfig.AggregateReconcile.Enabled,
	}).Info("Configuração do agendador de reconciliação de agregados carregada")

	return &AggregateReconcileService{
		scheduler:    scheduler,
		cronSchedule: appConfig.AggregateReconcile.CronSchedule,
		enabled:      appConfig.AggregateReconcile.Enabled,
		recomputer:   recomputer,
	}
}

// Start inicia o agendador
func (s *AggregateReconcileService) Start(ctx context.Context) error {
	if !s.enabled {
		logrus.Info("Reconciliação agendada de agregados desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Iniciando agendador de reconciliação de agregados")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.reconcile(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reconciliação de agregados: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de reconciliação de agregados")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara a reconciliação fora do horário agendado
func (s *AggregateReconcileService) TriggerManualSync() {
	go s.reconcile(context.Background())
}

// Status retorna o estado atual do job para o endpoint de status
func (s *AggregateReconcileService) Status() map[string]any {
	s.reconcileMutex.Lock()
	defer s.reconcileMutex.Unlock()

	status := map[string]any{
		"enabled":       s.enabled,
		"cron_schedule": s.cronSchedule,
		"running":       s.reconcileRunning,
	}

	if !s.lastRunStartedAt.IsZero() {
		status["last_run_started_at"] = s.lastRunStartedAt.Format(time.RFC3339)
	}
	if !s.lastRunCompletedAt.IsZero() {
		status["last_run_completed_at"] = s.lastRunCompletedAt.Format(time.RFC3339)
	}

	return status
}

func (s *AggregateReconcileService) reconcile(ctx context.Context) {
	s.reconcileMutex.Lock()
	if s.reconcileRunning {
		s.reconcileMutex.Unlock()
		logrus.Info("Reconciliação de agregados já em andamento, ignorando")
		return
	}
	s.reconcileRunning = true
	s.lastRunStartedAt = time.Now()
	s.reconcileMutex.Unlock()

	defer func() {
		s.reconcileMutex.Lock()
		s.reconcileRunning = false
		s.lastRunCompletedAt = time.Now()
		s.reconcileMutex.Unlock()
	}()

	logrus.Info("Iniciando reconciliação dos agregados diários")

	if err := s.recomputer.Reconcile(ctx); err != nil {
		logrus.WithError(err).Error("Erro na reconciliação dos agregados diários")
		return
	}

	logrus.Info("Reconciliação dos agregados diários concluída")
}
