package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/daycare-backend/internal/model"
)

// ActivityRepository handles history log data access.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// InsertBatch persists entries in one statement. Entries already stored
// (same ID, e.g. after a requeue) are skipped.
func (r *ActivityRepository) InsertBatch(ctx context.Context, entries []model.ActivityEntry) error {
	n := len(entries)
	if n == 0 {
		return nil
	}

	ids := make([]string, n)
	actors := make([]int, n)
	actions := make([]string, n)
	entities := make([]string, n)
	entityIDs := make([]int, n)
	summaries := make([]string, n)
	occurred := make([]time.Time, n)
	for i, e := range entries {
		ids[i] = e.ID
		actors[i] = e.ActorID
		actions[i] = string(e.Action)
		entities[i] = e.Entity
		entityIDs[i] = e.EntityID
		summaries[i] = e.Summary
		occurred[i] = e.OccurredAt
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_log (id, actor_id, action, entity, entity_id, summary, occurred_at)
		SELECT u.id, NULLIF(u.actor_id, 0), u.action, u.entity, u.entity_id, u.summary, u.occurred_at
		FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::text[],
			$4::text[],
			$5::int[],
			$6::text[],
			$7::timestamptz[]
		) AS u (id, actor_id, action, entity, entity_id, summary, occurred_at)
		ON CONFLICT (id) DO NOTHING`,
		ids, actors, actions, entities, entityIDs, summaries, occurred)
	return err
}

// Insert persists a single entry.
func (r *ActivityRepository) Insert(ctx context.Context, e model.ActivityEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (id, actor_id, action, entity, entity_id, summary, occurred_at)
		 VALUES ($1::uuid, NULLIF($2, 0), $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.ActorID, string(e.Action), e.Entity, e.EntityID, e.Summary, e.OccurredAt)
	return err
}

// ListPaginated retrieves the newest entries first, optionally filtered by entity.
func (r *ActivityRepository) ListPaginated(ctx context.Context, entity string, limit, offset int) ([]model.ActivityEntry, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_log WHERE ($1 = '' OR entity = $1)`, entity,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id::text, COALESCE(actor_id, 0), action, entity, entity_id, summary, occurred_at
		 FROM activity_log
		 WHERE ($1 = '' OR entity = $1)
		 ORDER BY occurred_at DESC
		 LIMIT $2 OFFSET $3`, entity, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var e model.ActivityEntry
		var action string
		if err := rows.Scan(&e.ID, &e.ActorID, &action, &e.Entity, &e.EntityID, &e.Summary, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		e.Action = model.ActivityAction(action)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
