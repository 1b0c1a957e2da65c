package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/cache"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
	db             *gorm.DB
	cache          cache.Cache
}

// NewRouter creates a new router with all handlers. db and cache are only
// used by the health endpoint; cache may be nil.
func NewRouter(cfg *config.Config, meetingHandler *Meeting, db *gorm.DB, c cache.Cache) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
		db:             db,
		cache:          c,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/api/v1")
	rt.setupMeetingRoutes(v1)
}

// setupMeetingRoutes configures meeting management routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.GET("", rt.meetingHandler.List)
	meetings.POST("/upload", rt.meetingHandler.Upload)
	meetings.GET("/stats", rt.meetingHandler.Stats)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.PUT("/:id", rt.meetingHandler.Update)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.POST("/:id/process", rt.meetingHandler.Process)
	meetings.GET("/:id/progress", rt.meetingHandler.Progress)
	meetings.GET("/:id/transcript", rt.meetingHandler.Transcript)
	meetings.GET("/:id/minutes", rt.meetingHandler.Minutes)
	meetings.GET("/:id/document", rt.meetingHandler.Document)
}

// healthCheck reports liveness plus dependency reachability
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}

	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
		} else if err := sqlDB.PingContext(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	if rt.cache != nil {
		if err := rt.cache.Ping(ctx); err != nil {
			// The API still serves without the cache
			checks["cache"] = "error: " + err.Error()
		} else {
			checks["cache"] = "ok"
		}
	} else {
		checks["cache"] = "disabled"
	}

	body := map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
		"checks":      checks,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return c.JSON(status, body)
}
