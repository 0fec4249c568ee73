package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/middleware"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// currentStudent resolves the student profile of the session user. On
// failure the response has been written and ok is false.
func currentStudent(c *gin.Context, identity *service.IdentityService, log zerolog.Logger) (*model.Student, bool) {
	user := middleware.GetUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	st, err := identity.StudentForUser(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, log, err)
		return nil, false
	}
	return st, true
}

// currentAdmin resolves the admin profile of the session user.
func currentAdmin(c *gin.Context, identity *service.IdentityService, log zerolog.Logger) (*model.Admin, bool) {
	user := middleware.GetUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	a, err := identity.AdminForUser(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, log, err)
		return nil, false
	}
	return a, true
}

// statusFilter reads the optional ?status= query.
func statusFilter(c *gin.Context, log zerolog.Logger) (*model.RequestStatus, bool) {
	status, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		writeError(c, log, err)
		return nil, false
	}
	return status, true
}
