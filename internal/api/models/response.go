package models

import (
	"mission-control/internal/budget"
	"mission-control/internal/dashboard"
	"mission-control/internal/store"
)

// ScenarioInfo describes one projection mode.
type ScenarioInfo struct {
	Name       budget.Scenario `json:"name"`
	Multiplier float64         `json:"multiplier"`
}

// StreamsResponse is the body of GET /api/budget/streams.
type StreamsResponse struct {
	Deficit   float64         `json:"deficit"`
	Streams   []budget.Stream `json:"streams"`
	Scenarios []ScenarioInfo  `json:"scenarios"`
}

// BudgetResponse is a computed worksheet.
type BudgetResponse struct {
	Scenario     budget.Scenario       `json:"scenario"`
	Multiplier   float64               `json:"multiplier"`
	Deficit      float64               `json:"deficit"`
	Streams      []budget.StreamValue  `json:"streams"`
	Calculations budget.Result         `json:"calculations"`
	Breakdown    []budget.BreakdownRow `json:"breakdown"`
}

// SaveScenarioResponse is the body returned after saving a worksheet.
type SaveScenarioResponse struct {
	Success   bool                  `json:"success"`
	Snapshot  budget.Snapshot       `json:"snapshot"`
	Persisted bool                  `json:"persisted"`
	Saved     *store.BudgetScenario `json:"saved,omitempty"`
}

// SeedResponse is the body of POST /api/seed.
type SeedResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Inserted store.SeedResult `json:"inserted"`
}

// SeedStatusResponse is the body of GET /api/seed.
type SeedStatusResponse struct {
	Status      string             `json:"status"`
	Message     string             `json:"message"`
	Metrics     *store.Metrics     `json:"metrics,omitempty"`
	TeamMembers []store.TeamMember `json:"team_members,omitempty"`
	Alerts      []store.Alert      `json:"alerts,omitempty"`
}

// BriefingResponse is the body of GET /api/cron/daily-briefing.
type BriefingResponse struct {
	Success  bool               `json:"success"`
	Briefing dashboard.Briefing `json:"briefing"`
	Message  string             `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
