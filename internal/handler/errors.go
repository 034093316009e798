package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/middleware"
	"github.com/stemsi/daycare-backend/internal/render"
	"github.com/stemsi/daycare-backend/internal/repository"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
)

// fail maps a service or repository error to its API error. Anything not
// recognized is logged and answered with 500.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	var suppressed *billing.SuppressedError
	switch {
	case errors.As(err, &suppressed):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrEmptyInvoice,
			fmt.Sprintf("No invoice for %s: %s.", suppressed.Period.Label(), suppressed.Reason))
	case errors.Is(err, billing.ErrEmptyStatement):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyInvoice)

	case errors.Is(err, repository.ErrStudentNotFound),
		errors.Is(err, repository.ErrPenaltyNotFound),
		errors.Is(err, repository.ErrStaffNotFound),
		errors.Is(err, repository.ErrInvoiceNotFound),
		errors.Is(err, repository.ErrAdminNotFound),
		errors.Is(err, repository.ErrRoleNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)

	case errors.Is(err, repository.ErrStudentHasInvoices):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case errors.Is(err, repository.ErrAdminEmailExists):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyCheckedIn)
	case errors.Is(err, repository.ErrNotCheckedIn):
		response.Fail(c, http.StatusConflict, response.ErrNotCheckedIn)
	case errors.Is(err, repository.ErrAlreadyClockedIn):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyClockedIn)
	case errors.Is(err, repository.ErrNoOpenShift):
		response.Fail(c, http.StatusConflict, response.ErrNotClockedIn)

	case errors.Is(err, service.ErrStudentNotEnrolled):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrInvalidEnrollmentWindow):
		response.Fail(c, http.StatusBadRequest, response.ErrEnrollmentWindow)
	case errors.Is(err, billing.ErrInvalidDate):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)

	case errors.Is(err, render.ErrFontMissing):
		log.Error().Err(err).Msg("renderer unavailable")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrRenderUnavailable)

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// actorID returns the authenticated admin's ID, or zero.
func actorID(c *gin.Context) int {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// pageQuery reads the page and per_page query parameters.
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return page, perPage
}

// monthQuery carries an optional YYYY-MM filter.
type monthQuery struct {
	Month string `form:"month" binding:"omitempty,calendar_month"`
}

// dateQuery carries an optional YYYY-MM-DD filter.
type dateQuery struct {
	Date string `form:"date" binding:"omitempty,calendar_date"`
}

// attachment sends a generated document as a download.
func attachment(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}
