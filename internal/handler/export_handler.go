package handler

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/export"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler exports the ledger visible to an admin.
type ExportHandler struct {
	identityService *service.IdentityService
	ledgerService   *service.LedgerService
	log             zerolog.Logger
	now             func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(identityService *service.IdentityService, ledgerService *service.LedgerService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		identityService: identityService,
		ledgerService:   ledgerService,
		log:             log.With().Str("component", "export_handler").Logger(),
		now:             time.Now,
	}
}

// ExportCSV godoc
// GET /api/v1/admin/requests/export.csv?status=
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.export(c, "csv", "text/csv; charset=utf-8", export.WriteCSV)
}

// ExportXLSX godoc
// GET /api/v1/admin/requests/export.xlsx?status=
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", xlsxContentType, export.WriteXLSX)
}

func (h *ExportHandler) export(c *gin.Context, ext, contentType string, write func(io.Writer, []model.BonafideRequest) error) {
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

	var buf bytes.Buffer
	if err := write(&buf, list); err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().Str("format", ext).Int("rows", len(list)).Msg("Ledger exported")
	response.Attachment(c, export.Filename(ext, h.now()), contentType, buf.Bytes())
}
