package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// MediaHandler handles logo uploads.
type MediaHandler struct {
	logoService *service.LogoService
	log         zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(logoService *service.LogoService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		logoService: logoService,
		log:         log.With().Str("component", "media_handler").Logger(),
	}
}

// UploadLogo godoc
// POST /api/v1/public/uploads/logo
// Uploads a college logo and returns its URL for use as college_logo at signup.
func (h *MediaHandler) UploadLogo(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	url, err := h.logoService.SaveUpload(file, header)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}
