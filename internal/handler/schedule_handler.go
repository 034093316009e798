package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
)

// ScheduleHandler exposes the schedule catalog and the pending-change migration.
type ScheduleHandler struct {
	migrationService *service.ScheduleMigrationService
	log              zerolog.Logger
}

func NewScheduleHandler(migrationService *service.ScheduleMigrationService, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		migrationService: migrationService,
		log:              log.With().Str("component", "schedule_handler").Logger(),
	}
}

// ListSchedules godoc
// GET /api/v1/admin/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	response.Success(c, http.StatusOK, config.Schedules)
}

// MigrateSchedules godoc
// POST /api/v1/admin/schedules/migrate
// Applies every pending schedule change due this month. Changes that fail stay
// pending and are listed in failed_student_ids.
func (h *ScheduleHandler) MigrateSchedules(c *gin.Context) {
	result, err := h.migrationService.Run(c.Request.Context(), actorID(c))
	if errors.Is(err, service.ErrMigrationIncomplete) {
		h.log.Warn().Err(err).Msg("manual schedule migration incomplete")
		response.Success(c, http.StatusOK, result)
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
