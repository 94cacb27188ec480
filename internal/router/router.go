package router

import (
	"github.com/gin-gonic/gin"

	"mediscan/internal/handler"
	"mediscan/internal/middleware"
	"mediscan/internal/ratelimit"
)

// Setup configures the Gin engine with all routes and middleware.
// Admission control applies only to the upload route, the single
// pipeline-invoking entry point; read endpoints are not gated.
func Setup(
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
	limiter *ratelimit.Limiter,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	reports := v1.Group("/reports")
	reports.POST("/upload", middleware.RateLimit(limiter), reportH.Upload)
	reports.GET("", reportH.List)
	reports.GET("/:id", reportH.GetByID)
	reports.GET("/:id/export", reportH.Export)
	reports.DELETE("/:id", reportH.Delete)

	return r
}
