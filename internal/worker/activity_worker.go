package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/model"
)

const (
	ActivityBatchSize    = 50
	ActivityBatchTimeout = 2 * time.Second
	ActivityPollTimeout  = 1 * time.Second
)

// Queue is the part of the Redis client the worker pops from and requeues to.
type Queue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// ActivityStore persists history entries.
type ActivityStore interface {
	InsertBatch(ctx context.Context, entries []model.ActivityEntry) error
	Insert(ctx context.Context, e model.ActivityEntry) error
}

// ActivityWorker drains persist_activity_queue into activity_log.
type ActivityWorker struct {
	queue Queue
	store ActivityStore
	log   zerolog.Logger
}

func NewActivityWorker(queue Queue, store ActivityStore, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		queue: queue,
		store: store,
		log:   log.With().Str("component", "activity_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then flushes what it holds. Call in a goroutine.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActivityWorker started")

	batch := make([]model.ActivityEntry, 0, ActivityBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ActivityBatchSize || time.Since(lastFlush) >= ActivityBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.queue.BLPop(ctx, ActivityPollTimeout, config.WorkerKey.PersistActivityQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(ActivityPollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var e model.ActivityEntry
			if err := json.Unmarshal([]byte(item[1]), &e); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, e)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with per-entry fallback
// ----------------------------------------------------------------

func (w *ActivityWorker) flushSafe(ctx context.Context, batch []model.ActivityEntry) {
	if len(batch) == 0 {
		return
	}

	err := w.store.InsertBatch(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Activity batch persisted")
		return
	}

	w.log.Warn().Err(err).Int("count", len(batch)).Msg("bulk activity insert failed, using fallback")
	for _, e := range batch {
		if err := w.store.Insert(ctx, e); err != nil {
			w.log.Error().Err(err).Str("id", e.ID).Msg("single insert failed, requeueing")
			raw, _ := json.Marshal(e)
			if err := w.queue.RPush(ctx, config.WorkerKey.PersistActivityQueue, raw).Err(); err != nil {
				w.log.Error().Err(err).Str("id", e.ID).Msg("activity entry lost")
			}
		}
	}
}
