package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sekolahku/pelajar-gateway/internal/config"
	"github.com/sekolahku/pelajar-gateway/internal/handler"
	"github.com/sekolahku/pelajar-gateway/internal/middleware"
	"github.com/sekolahku/pelajar-gateway/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Import   *handler.ImportHandler
	Template *handler.TemplateHandler
}

// templatePath is excluded from brotli compression: xlsx files are zip
// containers, already compressed.
const templatePath = "/api/v1/public/import-template"

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally, skipping the template download.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == templatePath
		},
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/import-template",
			middleware.CacheControl(86400),
			handlers.Template.DownloadTemplate,
		)
	}

	// Rate limiter for the heavy import routes (20 requests per minute per IP).
	importLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ─── 2. Import Group (Bearer Relay) ────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireBearer())
	{
		adminAPI.POST("/imports", handlers.Import.CreateSession)
		adminAPI.GET("/imports/:id", handlers.Import.GetSession)
		adminAPI.DELETE("/imports/:id", handlers.Import.DeleteSession)

		adminAPI.POST("/imports/:id/file",
			importLimiter.Middleware(),
			handlers.Import.UploadFile,
		)

		adminAPI.GET("/imports/:id/rows", handlers.Import.ListRows)
		adminAPI.DELETE("/imports/:id/rows/:row_number", handlers.Import.RemoveRow)
		adminAPI.POST("/imports/:id/rows/remove", handlers.Import.RemoveRows)

		adminAPI.POST("/imports/:id/submit",
			importLimiter.Middleware(),
			handlers.Import.Submit,
		)
	}

	return router
}
