package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/middleware"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
	"github.com/stemsi/bonafide-backend/internal/validator"
)

// AuthHandler handles signup, login and session endpoints.
type AuthHandler struct {
	authService     *service.AuthService
	identityService *service.IdentityService
	log             zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, identityService *service.IdentityService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		identityService: identityService,
		log:             log.With().Str("component", "auth_handler").Logger(),
	}
}

// Signup godoc
// POST /api/v1/auth/signup
// Creates an account and logs it in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.identityService.Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.establish(c, http.StatusCreated, user)
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and returns a JWT. Logging in again replaces
// the previous session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.identityService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.establish(c, http.StatusOK, user)
}

// Me godoc
// GET /api/v1/auth/me
// Returns the session user with its student or admin profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.identityService.Profile(c.Request.Context(), user)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// Logout godoc
// POST /api/v1/auth/logout
// Removes the session slot; the token stops validating.
func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Teardown(c.Request.Context(), user.ID); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func (h *AuthHandler) establish(c *gin.Context, status int, user *model.User) {
	token, err := h.authService.Establish(c.Request.Context(), user)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	response.Success(c, status, model.AuthResponse{Token: token, User: *user})
}
