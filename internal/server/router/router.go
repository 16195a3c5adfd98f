package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/server/handlers"
	"github.com/mamadbah2/estoque/internal/server/views"
)

// NewFrontend wires the Gin engine serving the HTML pages.
func NewFrontend(pages *handlers.StockPageHandler, renderer *views.Renderer, logger *zap.Logger) *gin.Engine {
	r := newEngine(logger)
	r.SetHTMLTemplate(renderer.Templates())

	r.GET("/", pages.Home)
	r.GET("/estoque", pages.Stock)
	r.GET("/healthz", health)

	if logger != nil {
		logger.Info("frontend router initialized")
	}

	return r
}

// NewInventoryAPI wires the Gin engine serving the inventory JSON API.
func NewInventoryAPI(handler *handlers.InventoryHandler, logger *zap.Logger) *gin.Engine {
	r := newEngine(logger)

	r.GET("/", handler.Root)
	r.GET("/healthz", health)

	api := r.Group("/api/inventory")
	api.POST("/entrada", handler.RegisterEntry)
	api.POST("/saida", handler.RegisterExit)
	api.GET("/estoque", handler.ListStock)
	api.GET("/transacoes", handler.ListTransactions)

	if logger != nil {
		logger.Info("inventory api router initialized")
	}

	return r
}

func newEngine(logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
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
