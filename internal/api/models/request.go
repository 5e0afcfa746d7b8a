package models

import (
	"mission-control/internal/budget"
	"mission-control/internal/chat"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages   []chat.Message `json:"messages" binding:"required"`
	MemberRole string         `json:"memberRole,omitempty"`
}

// BudgetRequest describes a worksheet: the scenario and any stream overrides.
// Streams not listed keep their default values.
type BudgetRequest struct {
	Scenario string               `json:"scenario,omitempty"` // default: "realistic"
	Streams  []budget.StreamValue `json:"streams,omitempty"`
}

// SaveScenarioRequest is the body of POST /api/budget/scenarios.
type SaveScenarioRequest struct {
	UserID string `json:"user_id,omitempty"` // default: "default"
	BudgetRequest
}

// CreateAlertRequest is the body of POST /api/alerts.
type CreateAlertRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type" binding:"required"`
	Link        string `json:"link,omitempty"`
}

// UpdateMetricsRequest is the body of PATCH /api/metrics. Omitted fields are unchanged.
type UpdateMetricsRequest struct {
	BudgetDeficit    *int64 `json:"budget_deficit,omitempty"`
	ProjectedRevenue *int64 `json:"projected_revenue,omitempty"`
	GapCoverage      *int64 `json:"gap_coverage,omitempty"`
}
