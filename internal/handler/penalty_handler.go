package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
	"github.com/stemsi/daycare-backend/internal/validator"
)

type PenaltyHandler struct {
	penaltyService *service.PenaltyService
	log            zerolog.Logger
}

func NewPenaltyHandler(penaltyService *service.PenaltyService, log zerolog.Logger) *PenaltyHandler {
	return &PenaltyHandler{
		penaltyService: penaltyService,
		log:            log.With().Str("component", "penalty_handler").Logger(),
	}
}

// ListPenalties godoc
// GET /api/v1/admin/students/:id/penalties?month=YYYY-MM
func (h *PenaltyHandler) ListPenalties(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var q monthQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	penalties, err := h.penaltyService.List(c.Request.Context(), studentID, q.Month)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, penalties)
}

// CreatePenalty godoc
// POST /api/v1/admin/students/:id/penalties
func (h *PenaltyHandler) CreatePenalty(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CreatePenaltyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	penalty, err := h.penaltyService.Create(c.Request.Context(), actorID(c), studentID, &req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, penalty)
}

// DeletePenalty godoc
// DELETE /api/v1/admin/students/:id/penalties/:penalty_id
func (h *PenaltyHandler) DeletePenalty(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	penaltyID, ok := paramID(c, "penalty_id")
	if !ok {
		return
	}

	if err := h.penaltyService.Delete(c.Request.Context(), actorID(c), studentID, penaltyID); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
