package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// CertificateHandler serves certificate downloads.
type CertificateHandler struct {
	identityService    *service.IdentityService
	certificateService *service.CertificateService
	log                zerolog.Logger
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(identityService *service.IdentityService, certificateService *service.CertificateService, log zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		identityService:    identityService,
		certificateService: certificateService,
		log:                log.With().Str("component", "certificate_handler").Logger(),
	}
}

// DownloadCertificate godoc
// GET /api/v1/admin/requests/:id/certificate
// Returns the PDF certificate of an approved request.
func (h *CertificateHandler) DownloadCertificate(c *gin.Context) {
	admin, ok := currentAdmin(c, h.identityService, h.log)
	if !ok {
		return
	}

	cert, err := h.certificateService.Generate(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Attachment(c, cert.Filename, "application/pdf", cert.Data)
}
