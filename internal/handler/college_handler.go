package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// CollegeHandler serves the public college directory and signup options.
type CollegeHandler struct {
	identityService *service.IdentityService
	log             zerolog.Logger
}

// NewCollegeHandler creates a new CollegeHandler.
func NewCollegeHandler(identityService *service.IdentityService, log zerolog.Logger) *CollegeHandler {
	return &CollegeHandler{
		identityService: identityService,
		log:             log.With().Str("component", "college_handler").Logger(),
	}
}

// ListColleges godoc
// GET /api/v1/public/colleges
func (h *CollegeHandler) ListColleges(c *gin.Context) {
	colleges, err := h.identityService.ListColleges(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	response.SuccessList(c, http.StatusOK, colleges, len(colleges))
}

// ListOptions godoc
// GET /api/v1/public/options
// Returns the option lists used by the signup and request forms.
func (h *CollegeHandler) ListOptions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"departments": model.Departments,
		"courses":     model.Courses,
		"purposes":    model.Purposes,
		"years":       model.StudentYears,
	})
}
