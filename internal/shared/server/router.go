package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/documents"
	"docuhub-backend/internal/processing"
	"docuhub-backend/internal/shared/config"
	"docuhub-backend/internal/shared/metrics"
	"docuhub-backend/internal/shared/server/middleware"
	"docuhub-backend/internal/shared/server/respond"
	"docuhub-backend/internal/users"
)

// RouterDeps carries the dependencies the router needs. Handlers are built
// by bootstrap so tests can swap pieces before wiring routes.
type RouterDeps struct {
	Config            config.Config
	Metrics           *metrics.Metrics
	DocumentsHandler  *documents.Handler
	ProcessingHandler *processing.Handler
	UsersHandler      *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Metrics(deps.Metrics),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"message": "Document Management API",
			"status":  "running",
		})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.Use(middleware.Auth(cfg.JWTSecret))
	deps.UsersHandler.RegisterRoutes(api)
	deps.DocumentsHandler.RegisterRoutes(api)
	deps.ProcessingHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
