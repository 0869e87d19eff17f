package relay

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// NewRouter mounts the relay routes under /api.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		ExposeHeaders:   []string{api.ParsedHeader},
		MaxAge:          12 * time.Hour,
	}))

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/analyze-receipt", h.AnalyzeReceipt)
		apiGroup.GET("/healthz", h.Health)
	}
	return r
}

// requestLogger logs each relay request with slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("Relay request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
