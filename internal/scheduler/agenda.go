package scheduler

import (
	"context"
	"fmt"
	"time"

	"parish-app-go/internal/domain/programs"
	"parish-app-go/internal/metrics"
	"parish-app-go/pkg/logger"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = time.Minute

type AgendaRefresher interface {
	RefreshAgenda(ctx context.Context, horizonDays int) ([]programs.AgendaEntry, error)
}

// AgendaScheduler rebuilds the cached agenda of imminent program occurrences on
// a cron schedule, so recurring programs roll over to their next date without
// a write to the programs table.
type AgendaScheduler struct {
	cronEngine  *cron.Cron
	refresher   AgendaRefresher
	log         logger.Logger
	spec        string
	horizonDays int
}

func NewAgendaScheduler(refresher AgendaRefresher, log logger.Logger, spec string, horizonDays int, loc *time.Location) *AgendaScheduler {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AgendaScheduler{
		cronEngine:  cron.New(cron.WithLocation(loc)),
		refresher:   refresher,
		log:         log,
		spec:        spec,
		horizonDays: horizonDays,
	}
}

func (s *AgendaScheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule agenda refresh %q: %w", s.spec, err)
	}

	s.cronEngine.Start()
	s.log.Info("scheduler: agenda refresh started", "spec", s.spec, "horizon_days", s.horizonDays)
	return nil
}

// RunOnce refreshes the agenda immediately and records the outcome.
func (s *AgendaScheduler) RunOnce(ctx context.Context) error {
	started := time.Now()
	entries, err := s.refresher.RefreshAgenda(ctx, s.horizonDays)
	if err != nil {
		metrics.AgendaRefreshes.WithLabelValues("error").Inc()
		s.log.InternalError("scheduler: agenda refresh failed", err, "horizon_days", s.horizonDays)
		return err
	}

	metrics.AgendaRefreshes.WithLabelValues("ok").Inc()
	metrics.AgendaOccurrences.Set(float64(len(entries)))
	s.log.Debug("scheduler: agenda refreshed", "occurrences", len(entries), "took", time.Since(started))
	return nil
}

func (s *AgendaScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("scheduler: agenda refresh stopped")
}
