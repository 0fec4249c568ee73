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

const recentRequestsLimit = 5

// DashboardHandler routes a session to its role's dashboard.
type DashboardHandler struct {
	identityService *service.IdentityService
	ledgerService   *service.LedgerService
	log             zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(identityService *service.IdentityService, ledgerService *service.LedgerService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		identityService: identityService,
		ledgerService:   ledgerService,
		log:             log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// DashboardData is the payload of the dashboard endpoint.
type DashboardData struct {
	Dashboard      model.Dashboard         `json:"dashboard"`
	Permissions    []string                `json:"permissions"`
	Stats          model.RequestStats      `json:"stats"`
	RecentRequests []model.BonafideRequest `json:"recent_requests"`
}

// GetDashboardData godoc
// GET /api/v1/dashboard
// Returns the dashboard kind and capability set of the session's role, with
// request stats and the latest requests visible to it.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	dashboard, ok := model.DashboardFor(user.Role)
	if !ok {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	var (
		list []model.BonafideRequest
		err  error
	)
	switch user.Role {
	case model.RoleStudent:
		st, ok := currentStudent(c, h.identityService, h.log)
		if !ok {
			return
		}
		list, err = h.ledgerService.ListByStudent(c.Request.Context(), st.ID, nil)
	case model.RoleAdmin:
		admin, ok := currentAdmin(c, h.identityService, h.log)
		if !ok {
			return
		}
		list, err = h.ledgerService.ListForAdmin(c.Request.Context(), admin, nil)
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	recent := list
	if len(recent) > recentRequestsLimit {
		recent = recent[:recentRequestsLimit]
	}

	response.Success(c, http.StatusOK, DashboardData{
		Dashboard:      dashboard,
		Permissions:    model.PermissionStrings(model.PermissionsFor(user.Role)),
		Stats:          service.Stats(list),
		RecentRequests: recent,
	})
}
