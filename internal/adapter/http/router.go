package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the Gin engine with the reporting routes and middlewares.
// Every /api route requires the authorization header to carry apiToken.
func NewRouter(handler *ValuationHandler, apiToken string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", tokenAuth(apiToken))
	api.GET("/assets/:id/valuation", handler.AssetValuation)
	api.GET("/assets/:id/schedule", handler.AssetSchedule)
	api.GET("/companies/:id/portfolio", handler.Portfolio)
	api.GET("/companies/:id/valuations/latest", handler.LatestValuation)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func tokenAuth(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(stdhttp.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		if token != validToken {
			c.AbortWithStatusJSON(stdhttp.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
