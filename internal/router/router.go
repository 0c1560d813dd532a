// Package router assembles the gin engine and route table.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// Handlers groups the handler instances mounted by Setup.
type Handlers struct {
	Timetable    *handler.TimetableHandler
	Substitution *handler.SubstitutionHandler
	Metrics      *handler.MetricsHandler
}

// Setup builds the engine. Swagger is served outside production.
func Setup(cfg *config.Config, h Handlers, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	if cfg.Uploads.MaxFileBytes > 0 {
		// Two files plus multipart framing.
		r.MaxMultipartMemory = 2*cfg.Uploads.MaxFileBytes + 1<<20
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/metrics/summary", h.Metrics.Snapshot)

		tt := api.Group("/timetable")
		{
			tt.POST("/upload", h.Timetable.Upload)
			tt.GET("", h.Timetable.List)
			tt.GET("/filters", h.Timetable.Filters)
			tt.GET("/entries/:index", h.Timetable.Get)
			tt.PUT("/entries/:index", h.Timetable.Update)
			tt.GET("/clashes", h.Timetable.Clashes)
			tt.GET("/events", h.Timetable.Events)
			tt.GET("/events.ics", h.Timetable.Calendar)
			tt.GET("/rrules", h.Timetable.RecurrenceRules)
			tt.GET("/export", h.Timetable.Export)
			tt.GET("/stats", h.Timetable.Stats)
		}

		subs := api.Group("/substitutions")
		{
			subs.GET("/candidates", h.Substitution.Candidates)
			subs.GET("", h.Substitution.List)
			subs.POST("", h.Substitution.Create)
		}
	}

	return r
}
