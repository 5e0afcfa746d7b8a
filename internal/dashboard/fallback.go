package dashboard

import "mission-control/internal/store"

// Payload is the body of GET /api/data.
type Payload struct {
	Metrics  store.Metrics      `json:"metrics"`
	Team     []store.TeamMember `json:"team"`
	Alerts   []store.Alert      `json:"alerts"`
	Fallback bool               `json:"_fallback,omitempty"`
	Error    string             `json:"_error,omitempty"`
}

// FallbackPayload is served whenever the database is missing or unreachable.
func FallbackPayload() Payload {
	return Payload{
		Metrics: store.DefaultMetrics(),
		Team: []store.TeamMember{
			{ID: 1, Name: "Will Sigmon", Initials: "WS", Role: "Director of Business Development", Status: "active"},
			{ID: 2, Name: "Mark Williams", Initials: "MW", Role: "Executive Director & Digital Literacy Lead", Status: "active"},
			{ID: 3, Name: "Deirdre Greene", Initials: "DG", Role: "Grant Writer", Status: "active"},
			{ID: 4, Name: "Ron Taylor", Initials: "RT", Role: "Operations Manager", Status: "away"},
		},
		Alerts: []store.Alert{
			{
				ID:          1,
				Title:       "Budget Gap Critical",
				Description: "$85k deficit projected for Q1 2026. Immediate action required on Equipment Sales.",
				Type:        store.AlertCritical,
				Link:        "/budget-gap",
			},
			{
				ID:          2,
				Title:       "Grant Deadline",
				Description: "NC Digital Equity Grant due in 3 days. Narrative draft pending review.",
				Type:        store.AlertWarning,
				Link:        "/grants",
			},
			{
				ID:          3,
				Title:       "New Lead Detected",
				Description: "Cisco Systems CSR program matches HTI profile (92% Fit Score).",
				Type:        store.AlertInfo,
				Link:        "/leads",
			},
		},
		Fallback: true,
	}
}
