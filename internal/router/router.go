package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/handler"
	"github.com/stemsi/bonafide-backend/internal/middleware"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	College       *handler.CollegeHandler
	Media         *handler.MediaHandler
	Dashboard     *handler.DashboardHandler
	StudentPortal *handler.StudentPortalHandler
	Admin         *handler.AdminHandler
	Certificate   *handler.CertificateHandler
	Export        *handler.ExportHandler
	WS            *handler.WSHandler
	System        *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware(), middleware.AccessLog(log))

	// Compress JSON; uploaded images are served as stored.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return strings.HasPrefix(c.Request.URL.Path, "/uploads/")
		},
	}))

	// Uploaded logos have UUID names and never change.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(authService, log)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/colleges", handlers.College.ListColleges)
		publicAPI.GET("/options", handlers.College.ListOptions)
		publicAPI.POST("/uploads/logo", authLimiter.Middleware(), handlers.Media.UploadLogo)
	}

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", authLimiter.Middleware(), handlers.Auth.Signup)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		auth.GET("/me", requireSession, middleware.NoStore(), handlers.Auth.Me)
		auth.POST("/logout", requireSession, handlers.Auth.Logout)
	}

	// ─── 2. Dashboard (any role) ───────────────────────────────────────
	router.GET("/api/v1/dashboard", requireSession, middleware.NoStore(), handlers.Dashboard.GetDashboardData)

	// ─── 3. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(requireSession, middleware.RequireRole(model.RoleStudent), middleware.NoStore())
	{
		studentAPI.POST("/requests",
			middleware.RequirePermission(model.PermissionRequestsSubmit),
			handlers.StudentPortal.SubmitRequest,
		)
		studentAPI.GET("/requests",
			middleware.RequirePermission(model.PermissionRequestsReadOwn),
			handlers.StudentPortal.ListRequests,
		)
	}

	// ─── 4. WebSocket Group (token in query) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireSession, middleware.RequireRole(model.RoleStudent))
	{
		ws.GET("/student/requests/stream",
			middleware.RequirePermission(model.PermissionRequestsReadOwn),
			handlers.WS.RequestStatusStream,
		)
	}

	// ─── 5. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireSession, middleware.RequireRole(model.RoleAdmin), middleware.NoStore())
	{
		adminAPI.GET("/requests",
			middleware.RequirePermission(model.PermissionRequestsReadAll),
			handlers.Admin.ListRequests,
		)
		adminAPI.GET("/requests/export.csv",
			middleware.RequirePermission(model.PermissionRequestsExport),
			handlers.Export.ExportCSV,
		)
		adminAPI.GET("/requests/export.xlsx",
			middleware.RequirePermission(model.PermissionRequestsExport),
			handlers.Export.ExportXLSX,
		)
		adminAPI.POST("/requests/:id/approve",
			middleware.RequirePermission(model.PermissionRequestsProcess),
			handlers.Admin.ApproveRequest,
		)
		adminAPI.POST("/requests/:id/reject",
			middleware.RequirePermission(model.PermissionRequestsProcess),
			handlers.Admin.RejectRequest,
		)
		adminAPI.GET("/requests/:id/certificate",
			middleware.RequirePermission(model.PermissionCertificatesGenerate),
			handlers.Certificate.DownloadCertificate,
		)
		adminAPI.GET("/system/status",
			middleware.RequirePermission(model.PermissionSystemRead),
			handlers.System.Status,
		)
	}

	return router
}
