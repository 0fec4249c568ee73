package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// AdminHandler handles request review endpoints.
type AdminHandler struct {
	identityService *service.IdentityService
	ledgerService   *service.LedgerService
	log             zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(identityService *service.IdentityService, ledgerService *service.LedgerService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		identityService: identityService,
		ledgerService:   ledgerService,
		log:             log.With().Str("component", "admin_handler").Logger(),
	}
}

// ListRequests godoc
// GET /api/v1/admin/requests?status=
// Returns the requests visible to the admin under the scoping policy.
func (h *AdminHandler) ListRequests(c *gin.Context) {
	status, ok := statusFilter(c, h.log)
	if !ok {
		return
	}
	admin, ok := currentAdmin(c, h.identityService, h.log)
	if !ok {
		return
	}

	list, err := h.ledgerService.ListForAdmin(c.Request.Context(), admin, status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.SuccessList(c, http.StatusOK, list, len(list))
}

// ApproveRequest godoc
// POST /api/v1/admin/requests/:id/approve
func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	h.process(c, model.StatusApproved)
}

// RejectRequest godoc
// POST /api/v1/admin/requests/:id/reject
func (h *AdminHandler) RejectRequest(c *gin.Context) {
	h.process(c, model.StatusRejected)
}

func (h *AdminHandler) process(c *gin.Context, status model.RequestStatus) {
	admin, ok := currentAdmin(c, h.identityService, h.log)
	if !ok {
		return
	}

	updated, err := h.ledgerService.Process(c.Request.Context(), admin, c.Param("id"), status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}
