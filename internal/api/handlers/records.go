package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"mission-control/internal/api/models"
	"mission-control/internal/dashboard"
	"mission-control/internal/store"

	"github.com/gin-gonic/gin"
)

// RecordsHandler exposes the thin CRUD routes over metrics, team members and alerts.
// Writes invalidate the cached dashboard payload.
type RecordsHandler struct {
	store DataStore
	svc   *dashboard.Service
}

// NewRecordsHandler creates a records handler. ds may be nil (no database).
func NewRecordsHandler(ds DataStore, svc *dashboard.Service) *RecordsHandler {
	return &RecordsHandler{store: ds, svc: svc}
}

func (h *RecordsHandler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		notConnected(c)
		return false
	}
	return true
}

func (h *RecordsHandler) invalidate() {
	if h.svc != nil {
		h.svc.Invalidate()
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		invalidRequest(c, fmt.Errorf("id must be a positive integer, got %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// GetMetrics handles GET /api/metrics
func (h *RecordsHandler) GetMetrics(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	m, err := h.store.GetMetrics(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": m})
}

// UpdateMetrics handles PATCH /api/metrics
func (h *RecordsHandler) UpdateMetrics(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	var req models.UpdateMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	m, err := h.store.UpdateMetrics(c.Request.Context(), store.MetricsUpdate{
		BudgetDeficit:    req.BudgetDeficit,
		ProjectedRevenue: req.ProjectedRevenue,
		GapCoverage:      req.GapCoverage,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusOK, gin.H{"metrics": m})
}

// ListTeam handles GET /api/team
func (h *RecordsHandler) ListTeam(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	team, err := h.store.ListTeamMembers(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

// GetTeamMember handles GET /api/team/:id
func (h *RecordsHandler) GetTeamMember(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.store.GetTeamMember(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": m})
}

// ListAlerts handles GET /api/alerts
func (h *RecordsHandler) ListAlerts(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	alerts, err := h.store.ListAlerts(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// CreateAlert handles POST /api/alerts
func (h *RecordsHandler) CreateAlert(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	var req models.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	in := store.NewAlert{
		Title:       req.Title,
		Description: req.Description,
		Type:        store.AlertType(req.Type),
		Link:        req.Link,
	}
	if err := in.Validate(); err != nil {
		invalidRequest(c, err)
		return
	}
	a, err := h.store.CreateAlert(c.Request.Context(), in)
	if err != nil {
		storeError(c, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusCreated, gin.H{"alert": a})
}

// DeleteAlert handles DELETE /api/alerts/:id
func (h *RecordsHandler) DeleteAlert(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteAlert(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	h.invalidate()
	c.Status(http.StatusNoContent)
}

// Seed handles POST /api/seed
func (h *RecordsHandler) Seed(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	res, err := h.store.Seed(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	msg := "Database already seeded; nothing inserted"
	if res.Inserted() {
		msg = "Seed data inserted"
		h.invalidate()
	}
	c.JSON(http.StatusOK, models.SeedResponse{
		Success:  true,
		Message:  msg,
		Inserted: res,
	})
}

// SeedStatus handles GET /api/seed
func (h *RecordsHandler) SeedStatus(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, models.SeedStatusResponse{
			Status:  "not connected",
			Message: dashboard.ErrNotConnected,
		})
		return
	}

	ctx := c.Request.Context()
	m, err := h.store.GetMetrics(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	team, err := h.store.ListTeamMembers(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	alerts, err := h.store.ListAlerts(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SeedStatusResponse{
		Status:      "ready",
		Message:     "POST to this endpoint to seed data",
		Metrics:     &m,
		TeamMembers: team,
		Alerts:      alerts,
	})
}
