package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/service"
)

// ScheduleMigrator runs the monthly pending-schedule migration.
type ScheduleMigrator interface {
	RunScheduled(ctx context.Context) (*service.MigrationResult, error)
}

// ScheduleMigrationWorker applies due schedule changes on every tick. A tick
// with nothing due is a single query; failed changes are retried next tick.
type ScheduleMigrationWorker struct {
	migrator ScheduleMigrator
	interval time.Duration
	log      zerolog.Logger
}

func NewScheduleMigrationWorker(migrator ScheduleMigrator, interval time.Duration, log zerolog.Logger) *ScheduleMigrationWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ScheduleMigrationWorker{
		migrator: migrator,
		interval: interval,
		log:      log.With().Str("component", "schedule_migration_worker").Logger(),
	}
}

// Start checks once immediately, then on every tick until ctx is cancelled.
func (w *ScheduleMigrationWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("ScheduleMigrationWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.tick(ctx)

		select {
		case <-ctx.Done():
			w.log.Info().Msg("ScheduleMigrationWorker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *ScheduleMigrationWorker) tick(ctx context.Context) {
	res, err := w.migrator.RunScheduled(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Schedule migration failed")
		}
		return
	}
	if len(res.Applied) > 0 {
		w.log.Info().Str("month", res.Month).Int("applied", len(res.Applied)).Msg("Schedule migration ran")
	}
}
