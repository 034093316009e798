package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/model"
)

type pendingScheduleStore interface {
	ListPendingScheduleChanges(ctx context.Context, month string) ([]model.Student, error)
	// ApplyPendingSchedule reports false when the change was already applied.
	ApplyPendingSchedule(ctx context.Context, id int) (bool, error)
}

// ErrMigrationIncomplete is returned when some due changes could not be applied;
// they stay pending and are picked up by the next run.
var ErrMigrationIncomplete = errors.New("some pending schedule changes were not applied")

// RunLock keeps replicas from migrating the same month at the same time.
type RunLock interface {
	Acquire(ctx context.Context, month string) (bool, error)
	Release(ctx context.Context, month string) error
}

// RedisRunLock is a short SETNX lock; it expires on its own if the holder dies.
type RedisRunLock struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRunLock creates a lock held for at most five minutes.
func NewRedisRunLock(rdb *redis.Client) *RedisRunLock {
	return &RedisRunLock{rdb: rdb, ttl: 5 * time.Minute}
}

func (l *RedisRunLock) Acquire(ctx context.Context, month string) (bool, error) {
	return l.rdb.SetNX(ctx, config.CacheKey.ScheduleMigrationKey(month), time.Now().Format(time.RFC3339), l.ttl).Result()
}

func (l *RedisRunLock) Release(ctx context.Context, month string) error {
	return l.rdb.Del(ctx, config.CacheKey.ScheduleMigrationKey(month)).Err()
}

// MigrationResult reports which students switched schedule.
type MigrationResult struct {
	Month   string `json:"month"`
	Applied []int  `json:"applied_student_ids"`
	Failed  []int  `json:"failed_student_ids,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// ScheduleMigrationService applies pending schedule changes once their month
// begins. It only moves schedule IDs; fees are computed at invoice time.
type ScheduleMigrationService struct {
	repo     pendingScheduleStore
	lock     RunLock
	activity ActivityRecorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewScheduleMigrationService creates a new ScheduleMigrationService.
func NewScheduleMigrationService(repo pendingScheduleStore, lock RunLock, activity ActivityRecorder, now func() time.Time, log zerolog.Logger) *ScheduleMigrationService {
	return &ScheduleMigrationService{
		repo:     repo,
		lock:     lock,
		activity: activity,
		now:      now,
		log:      log.With().Str("component", "schedule_migration").Logger(),
	}
}

// Run applies every pending change due in the current month or earlier.
// Applied changes are cleared, so running twice is harmless. Changes that
// fail stay pending; the result lists them and the error wraps
// ErrMigrationIncomplete.
func (s *ScheduleMigrationService) Run(ctx context.Context, actorID int) (*MigrationResult, error) {
	month := billing.PeriodOf(billing.DateOf(s.now())).String()
	res := &MigrationResult{Month: month, Applied: []int{}}

	due, err := s.repo.ListPendingScheduleChanges(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list pending schedule changes: %w", err)
	}

	for _, st := range due {
		applied, err := s.repo.ApplyPendingSchedule(ctx, st.ID)
		if err != nil {
			s.log.Error().Err(err).Int("student_id", st.ID).Msg("failed to apply pending schedule")
			res.Failed = append(res.Failed, st.ID)
			continue
		}
		if !applied {
			continue
		}
		res.Applied = append(res.Applied, st.ID)
		s.activity.Record(ctx, model.ActivityEntry{
			ActorID:  actorID,
			Action:   model.ActionMigrated,
			Entity:   "student",
			EntityID: st.ID,
			Summary:  fmt.Sprintf("%s moved from %s to %s", st.Name, st.ScheduleID, st.PendingScheduleID),
		})
	}

	if len(due) > 0 {
		s.log.Info().Str("month", month).Int("applied", len(res.Applied)).Int("failed", len(res.Failed)).Int("due", len(due)).Msg("schedule migration finished")
	}
	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%w: students %v", ErrMigrationIncomplete, res.Failed)
	}
	return res, nil
}

// RunScheduled is the automatic entry point, called on every worker tick.
// Changes entered mid-month and earlier failures are picked up on the next
// tick; the lock only serializes replicas.
func (s *ScheduleMigrationService) RunScheduled(ctx context.Context) (*MigrationResult, error) {
	month := billing.PeriodOf(billing.DateOf(s.now())).String()
	ok, err := s.lock.Acquire(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}
	if !ok {
		return &MigrationResult{Month: month, Applied: []int{}, Skipped: true}, nil
	}
	defer func() {
		if rerr := s.lock.Release(context.WithoutCancel(ctx), month); rerr != nil {
			s.log.Error().Err(rerr).Str("month", month).Msg("failed to release migration lock")
		}
	}()

	return s.Run(ctx, 0)
}
