package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/repository"
	"github.com/stemsi/daycare-backend/internal/response"
)

// ActivityRecorder receives history entries from the other services.
type ActivityRecorder interface {
	Record(ctx context.Context, e model.ActivityEntry)
}

// ActivityService queues history entries for persistence and broadcasts them
// to connected admin clients.
type ActivityService struct {
	rdb  *redis.Client
	repo *repository.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(rdb *redis.Client, repo *repository.ActivityRepository, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		rdb:  rdb,
		repo: repo,
		log:  log.With().Str("component", "activity_service").Logger(),
	}
}

// Record never fails the caller: if Redis is unreachable the entry is written
// straight to the database and the live broadcast is skipped.
func (s *ActivityService) Record(ctx context.Context, e model.ActivityEntry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	raw, err := json.Marshal(e)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal activity entry")
		return
	}

	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, config.WorkerKey.PersistActivityQueue, raw)
	pipe.Publish(ctx, config.CacheKey.ChangesChannel(), raw)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("entity", e.Entity).Msg("activity queue unavailable, writing directly")
		if err := s.repo.Insert(ctx, e); err != nil {
			s.log.Error().Err(err).Str("entity", e.Entity).Int("entity_id", e.EntityID).Msg("activity entry lost")
		}
	}
}

// List returns the history log, newest first.
func (s *ActivityService) List(ctx context.Context, entity string, page, perPage int) ([]model.ActivityEntry, *response.Pagination, error) {
	page, perPage = normalizePage(page, perPage)

	entries, total, err := s.repo.ListPaginated(ctx, entity, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if entries == nil {
		entries = []model.ActivityEntry{}
	}
	return entries, paginate(page, perPage, int(total)), nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func paginate(page, perPage, total int) *response.Pagination {
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
}
