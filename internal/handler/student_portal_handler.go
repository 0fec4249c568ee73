package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
	"github.com/stemsi/bonafide-backend/internal/validator"
)

// StudentPortalHandler handles student-facing request endpoints.
type StudentPortalHandler struct {
	identityService *service.IdentityService
	ledgerService   *service.LedgerService
	log             zerolog.Logger
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(identityService *service.IdentityService, ledgerService *service.LedgerService, log zerolog.Logger) *StudentPortalHandler {
	return &StudentPortalHandler{
		identityService: identityService,
		ledgerService:   ledgerService,
		log:             log.With().Str("component", "student_portal_handler").Logger(),
	}
}

// SubmitRequest godoc
// POST /api/v1/student/requests
// Opens a pending bonafide request for the session's student.
func (h *StudentPortalHandler) SubmitRequest(c *gin.Context) {
	var req model.SubmitRequestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, ok := currentStudent(c, h.identityService, h.log)
	if !ok {
		return
	}

	created, err := h.ledgerService.Submit(c.Request.Context(), student, &req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// ListRequests godoc
// GET /api/v1/student/requests?status=
// Returns the student's own requests, newest first.
func (h *StudentPortalHandler) ListRequests(c *gin.Context) {
	status, ok := statusFilter(c, h.log)
	if !ok {
		return
	}
	student, ok := currentStudent(c, h.identityService, h.log)
	if !ok {
		return
	}

	list, err := h.ledgerService.ListByStudent(c.Request.Context(), student.ID, status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.SuccessList(c, http.StatusOK, list, len(list))
}
