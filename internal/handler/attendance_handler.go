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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler handles daily check-in/check-out endpoints.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	log               zerolog.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		log:               log.With().Str("component", "attendance_handler").Logger(),
	}
}

// CheckIn godoc
// POST /api/v1/admin/students/:id/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	rec, err := h.attendanceService.CheckIn(c.Request.Context(), actorID(c), studentID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// CheckOut godoc
// POST /api/v1/admin/students/:id/check-out
// A pickup past the schedule's end plus the grace period records a penalty.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CheckOutRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec, err := h.attendanceService.CheckOut(c.Request.Context(), actorID(c), studentID, req.PickedUpBy)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// ListByDate godoc
// GET /api/v1/admin/attendance?date=YYYY-MM-DD
// Defaults to today.
func (h *AttendanceHandler) ListByDate(c *gin.Context) {
	var q dateQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records, err := h.attendanceService.ListByDate(c.Request.Context(), q.Date)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

type requiredMonthQuery struct {
	Month string `form:"month" binding:"required,calendar_month"`
}

// ListByStudentMonth godoc
// GET /api/v1/admin/students/:id/attendance?month=YYYY-MM
func (h *AttendanceHandler) ListByStudentMonth(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var q requiredMonthQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records, err := h.attendanceService.ListByStudentMonth(c.Request.Context(), studentID, q.Month)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

// ExportMonth godoc
// GET /api/v1/admin/attendance/export?month=YYYY-MM
// Returns the month's attendance as an .xlsx workbook.
func (h *AttendanceHandler) ExportMonth(c *gin.Context) {
	var q requiredMonthQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	body, err := h.attendanceService.ExportMonth(c.Request.Context(), q.Month)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	attachment(c, xlsxContentType, "attendance-"+q.Month+".xlsx", body)
}
