// Package api wires the HTTP routes of the Mission Control service.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mission-control/internal/api/handlers"
	"mission-control/internal/api/middleware"
	"mission-control/internal/api/models"
	"mission-control/internal/budget"
	"mission-control/internal/chat"
	"mission-control/internal/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators of the router. Store and Completer may be nil; the routes
// that need them answer 503. Snapshots defaults to a store under the OS temp dir.
type Deps struct {
	Log            *zap.Logger
	Dashboard      *dashboard.Service
	Store          handlers.DataStore
	Completer      chat.Completer
	Snapshots      *budget.SnapshotStore
	CronSecret     string
	EnforceCron    bool
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware, API routes and SPA static serving.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	svc := d.Dashboard
	if svc == nil {
		var src dashboard.Source
		if d.Store != nil {
			src = d.Store
		}
		svc = dashboard.NewService(src, nil, log)
	}

	snapshots := d.Snapshots
	if snapshots == nil {
		snapshots = budget.NewSnapshotStore(filepath.Join(os.TempDir(), "mission-control"))
	}

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(d.AllowedOrigins))

	dataHandler := handlers.NewDataHandler(svc, d.CronSecret, d.EnforceCron)
	chatHandler := handlers.NewChatHandler(d.Completer, log)
	recordsHandler := handlers.NewRecordsHandler(d.Store, svc)
	budgetHandler := handlers.NewBudgetHandler(snapshots, d.Store, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": svc.Connected()})
	})

	api := router.Group("/api")
	{
		api.GET("/data", dataHandler.GetData)
		api.GET("/cron/daily-briefing", dataHandler.DailyBriefing)
		api.POST("/chat", chatHandler.Chat)

		api.GET("/seed", recordsHandler.SeedStatus)
		api.POST("/seed", recordsHandler.Seed)

		api.GET("/metrics", recordsHandler.GetMetrics)
		api.PATCH("/metrics", recordsHandler.UpdateMetrics)
		api.GET("/team", recordsHandler.ListTeam)
		api.GET("/team/:id", recordsHandler.GetTeamMember)
		api.GET("/alerts", recordsHandler.ListAlerts)
		api.POST("/alerts", recordsHandler.CreateAlert)
		api.DELETE("/alerts/:id", recordsHandler.DeleteAlert)

		api.GET("/budget/streams", budgetHandler.ListStreams)
		api.POST("/budget/calculate", budgetHandler.Calculate)
		api.GET("/budget/scenarios", budgetHandler.ListScenarios)
		api.POST("/budget/scenarios", budgetHandler.SaveScenario)
		api.GET("/budget/snapshot", budgetHandler.GetSnapshot)
	}

	serveStatic(router, d.StaticDir, log)
	return router
}

// serveStatic serves the built SPA from dir when it exists. Unknown /api paths get a
// JSON 404; every other unknown path gets index.html so client-side routing works.
func serveStatic(router *gin.Engine, dir string, log *zap.Logger) {
	hasStatic := false
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			hasStatic = true
			router.Static("/assets", filepath.Join(dir, "assets"))
			router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
			log.Info("serving static files", zap.String("dir", dir))
		} else {
			log.Info("static directory not found, skipping static file serving", zap.String("dir", dir))
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if hasStatic && !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.File(filepath.Join(dir, "index.html"))
			return
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	})
}
