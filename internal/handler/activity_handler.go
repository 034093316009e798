package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
	"github.com/stemsi/daycare-backend/internal/validator"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	log             zerolog.Logger
}

func NewActivityHandler(activityService *service.ActivityService, log zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		log:             log.With().Str("component", "activity_handler").Logger(),
	}
}

type activityQuery struct {
	Entity string `form:"entity" binding:"omitempty,oneof=student staff penalty"`
}

// ListActivity godoc
// GET /api/v1/admin/activity?entity=&page=&per_page=
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	var q activityQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	page, perPage := pageQuery(c)

	entries, pagination, err := h.activityService.List(c.Request.Context(), q.Entity, page, perPage)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, entries, pagination)
}
