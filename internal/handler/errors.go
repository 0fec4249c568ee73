package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/export"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// writeError maps a service error to its API response. Errors without a
// mapping are logged and reported as INTERNAL_ERROR.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, verr.Fields)
	case errors.Is(err, service.ErrInvalidDecision), errors.Is(err, service.ErrInvalidStatusFilter):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"status": err.Error()})

	case errors.Is(err, service.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateEmail)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrPasswordMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrPasswordMismatch)
	case errors.Is(err, service.ErrPasswordTooShort):
		response.Fail(c, http.StatusBadRequest, response.ErrPasswordTooShort)
	case errors.Is(err, service.ErrProfileNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrProfileNotFound)

	case errors.Is(err, service.ErrRequestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrOutOfScope):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAlreadyProcessed):
		response.Fail(c, http.StatusConflict, response.ErrRequestProcessed)
	case errors.Is(err, service.ErrNotApproved):
		response.Fail(c, http.StatusConflict, response.ErrRequestNotApproved)
	case errors.Is(err, service.ErrMissingCollegeInfo):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrMissingCollegeInfo)
	case errors.Is(err, export.ErrNothingToExport):
		response.Fail(c, http.StatusNotFound, response.ErrNothingToExport)

	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)

	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
