package handler

import (
	"github.com/etymograph/moderation/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the auth settings and optional status hooks of the router.
type RouterConfig struct {
	JWTSecret     string
	AdminEmails   []string
	TriggerSecret string

	// SchedulerStatus reports the reconciler state; nil means it is disabled.
	SchedulerStatus func() map[string]interface{}
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h *ModerationHandler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/scheduler/status", func(c *gin.Context) {
		if cfg.SchedulerStatus != nil {
			c.JSON(200, cfg.SchedulerStatus())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Reconciler is disabled"})
		}
	})

	api := r.Group("/api")
	api.Use(middleware.IdentityMiddleware(cfg.JWTSecret, cfg.AdminEmails))
	{
		api.POST("/moderation/classify", h.Classify)

		// Admin
		api.GET("/admin/moderation/queue", h.ListQueue)
		api.POST("/admin/moderation/review", h.Review)
	}

	triggers := r.Group("/internal/triggers")
	triggers.Use(middleware.TriggerSecretMiddleware(cfg.TriggerSecret))
	{
		triggers.POST("/content-created", h.Ingest)
	}

	return r
}
