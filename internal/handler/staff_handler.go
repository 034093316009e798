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

// StaffHandler handles staff and time-clock endpoints.
type StaffHandler struct {
	staffService *service.StaffService
	log          zerolog.Logger
}

func NewStaffHandler(staffService *service.StaffService, log zerolog.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		log:          log.With().Str("component", "staff_handler").Logger(),
	}
}

// ListStaff godoc
// GET /api/v1/admin/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffService.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, staff)
}

// CreateStaff godoc
// POST /api/v1/admin/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	staff, err := h.staffService.Create(c.Request.Context(), actorID(c), &req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, staff)
}

// ClockIn godoc
// POST /api/v1/admin/staff/:id/clock-in
func (h *StaffHandler) ClockIn(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := h.staffService.ClockIn(c.Request.Context(), actorID(c), staffID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

// ClockOut godoc
// POST /api/v1/admin/staff/:id/clock-out
func (h *StaffHandler) ClockOut(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := h.staffService.ClockOut(c.Request.Context(), actorID(c), staffID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

// TimeSheet godoc
// GET /api/v1/admin/staff/:id/time-entries?month=YYYY-MM
func (h *StaffHandler) TimeSheet(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var q requiredMonthQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sheet, err := h.staffService.TimeSheet(c.Request.Context(), staffID, q.Month)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, sheet)
}
