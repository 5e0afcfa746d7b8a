package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mission-control/internal/api/models"
	"mission-control/internal/budget"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultUserID = "default"

// BudgetHandler serves the scenario engine.
type BudgetHandler struct {
	snapshots *budget.SnapshotStore
	store     DataStore
	log       *zap.Logger
	now       func() time.Time
}

// NewBudgetHandler creates a budget handler. ds may be nil; saved scenarios then only
// go to the local snapshot.
func NewBudgetHandler(snapshots *budget.SnapshotStore, ds DataStore, log *zap.Logger) *BudgetHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BudgetHandler{snapshots: snapshots, store: ds, log: log, now: time.Now}
}

// ListStreams handles GET /api/budget/streams
func (h *BudgetHandler) ListStreams(c *gin.Context) {
	scenarios := make([]models.ScenarioInfo, 0, 3)
	for _, s := range budget.Scenarios() {
		scenarios = append(scenarios, models.ScenarioInfo{Name: s, Multiplier: s.Multiplier()})
	}
	c.JSON(http.StatusOK, models.StreamsResponse{
		Deficit:   budget.DefaultDeficit,
		Streams:   budget.DefaultStreams(),
		Scenarios: scenarios,
	})
}

// Calculate handles POST /api/budget/calculate
func (h *BudgetHandler) Calculate(c *gin.Context) {
	var req models.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	m, ok := h.buildModel(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildResponse(m))
}

// SaveScenario handles POST /api/budget/scenarios. The snapshot always goes to the local
// slot; a database row is written too when one is attached.
func (h *BudgetHandler) SaveScenario(c *gin.Context) {
	var req models.SaveScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	m, ok := h.buildModel(c, req.BudgetRequest)
	if !ok {
		return
	}

	snap := m.Snapshot(h.now())
	if err := h.snapshots.Save(snap); err != nil {
		storeError(c, err)
		return
	}

	resp := models.SaveScenarioResponse{Success: true, Snapshot: snap}
	if h.store != nil {
		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			userID = defaultUserID
		}
		saved, err := h.store.SaveBudgetScenario(c.Request.Context(), userID, string(snap.Scenario), snap.Streams, snap.Calculations)
		if err != nil {
			storeError(c, err)
			return
		}
		resp.Persisted = true
		resp.Saved = &saved
	}

	h.log.Info("budget scenario saved",
		zap.String("scenario", string(snap.Scenario)),
		zap.Int64("total_projected", snap.Calculations.TotalProjected),
		zap.Bool("persisted", resp.Persisted),
	)
	c.JSON(http.StatusOK, resp)
}

// ListScenarios handles GET /api/budget/scenarios?user_id=
func (h *BudgetHandler) ListScenarios(c *gin.Context) {
	if h.store == nil {
		notConnected(c)
		return
	}
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		userID = defaultUserID
	}
	rows, err := h.store.ListBudgetScenarios(c.Request.Context(), userID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": rows})
}

// GetSnapshot handles GET /api/budget/snapshot
func (h *BudgetHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.snapshots.Load()
	if errors.Is(err, budget.ErrNoSnapshot) {
		abortWithError(c, http.StatusNotFound, "NO_SNAPSHOT", err.Error())
		return
	}
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

func (h *BudgetHandler) buildModel(c *gin.Context, req models.BudgetRequest) (*budget.Model, bool) {
	scenario, err := budget.ParseScenario(req.Scenario)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_SCENARIO", err.Error())
		return nil, false
	}
	m := budget.NewModel()
	m.SetScenario(scenario)
	if err := m.Apply(req.Streams); err != nil {
		storeError(c, err)
		return nil, false
	}
	return m, true
}

func buildResponse(m *budget.Model) models.BudgetResponse {
	return models.BudgetResponse{
		Scenario:     m.Scenario,
		Multiplier:   m.Scenario.Multiplier(),
		Deficit:      m.Deficit,
		Streams:      m.Values(),
		Calculations: m.Result(),
		Breakdown:    m.Breakdown(),
	}
}
