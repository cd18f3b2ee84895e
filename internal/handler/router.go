package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/wpinrui/tp/api/swagger"
	internalmiddleware "github.com/wpinrui/tp/internal/middleware"
	"github.com/wpinrui/tp/internal/service"
	"github.com/wpinrui/tp/pkg/logger"
	corsmiddleware "github.com/wpinrui/tp/pkg/middleware/cors"
	reqidmiddleware "github.com/wpinrui/tp/pkg/middleware/requestid"
)

// RouterConfig controls what the router mounts.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableMetrics  bool
	EnableDocs     bool
	Heartbeat      time.Duration
	Storage        string
}

// RouterDeps are the services behind the handlers.
type RouterDeps struct {
	Commands commandService
	Streams  viewStreamer
	Exports  exportService
	Metrics  *service.MetricsService
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(cfg RouterConfig, deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.Metrics))

	metricsHandler := NewMetricsHandler(deps.Metrics, cfg.Storage)
	r.GET("/health", metricsHandler.Health)
	if cfg.EnableMetrics {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	students := NewStudentHandler(deps.Commands)
	lessons := NewLessonHandler(deps.Commands)
	enrollments := NewEnrollmentHandler(deps.Commands)
	views := NewViewHandler(deps.Commands, deps.Streams, cfg.Heartbeat)
	data := NewDataHandler(deps.Commands, deps.Exports)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/students", students.List)
		api.POST("/students", students.Create)
		api.PUT("/students/:name", students.Update)
		api.DELETE("/students/:name", students.Delete)
		api.POST("/students/:name/view", students.View)
		api.POST("/students/:name/paid", students.Paid)
		api.POST("/students/:name/unpaid", students.Unpaid)
		api.POST("/students/:name/progress", students.AddProgress)
		api.DELETE("/students/:name/progress", students.DeleteProgress)

		api.GET("/lessons", lessons.List)
		api.POST("/lessons", lessons.Create)
		api.PUT("/lessons/:name", lessons.Update)
		api.DELETE("/lessons/:name", lessons.Delete)
		api.POST("/lessons/:name/view", lessons.View)

		api.POST("/enrollments", enrollments.Enroll)
		api.DELETE("/enrollments", enrollments.Unenroll)

		api.GET("/views", views.Get)
		api.POST("/views/reset", views.Reset)
		if deps.Streams != nil {
			api.GET("/views/stream", views.Stream)
		}

		api.POST("/clear", data.Clear)
		api.GET("/exports/:collection", data.Export)
	}

	return r
}
