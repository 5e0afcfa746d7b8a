package handlers

import (
	"net/http"

	"mission-control/internal/api/models"
	"mission-control/internal/dashboard"

	"github.com/gin-gonic/gin"
)

// DataHandler serves the dashboard payload and the daily briefing.
type DataHandler struct {
	svc         *dashboard.Service
	cronSecret  string
	enforceCron bool
}

// NewDataHandler creates a data handler. The cron secret is only checked when enforceCron is set.
func NewDataHandler(svc *dashboard.Service, cronSecret string, enforceCron bool) *DataHandler {
	return &DataHandler{svc: svc, cronSecret: cronSecret, enforceCron: enforceCron}
}

// GetData handles GET /api/data
func (h *DataHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Load(c.Request.Context()))
}

// DailyBriefing handles GET /api/cron/daily-briefing
func (h *DataHandler) DailyBriefing(c *gin.Context) {
	if h.enforceCron && h.cronSecret != "" {
		if c.GetHeader("Authorization") != "Bearer "+h.cronSecret {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
	}

	c.JSON(http.StatusOK, models.BriefingResponse{
		Success:  true,
		Briefing: h.svc.Briefing(c.Request.Context()),
		Message:  "Daily briefing generated successfully",
	})
}
