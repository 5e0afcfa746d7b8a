package dashboard

import (
	"context"
	"fmt"
	"time"

	"mission-control/internal/budget"
	"mission-control/internal/store"

	"go.uber.org/zap"
)

// Deadline is an upcoming due date called out in the briefing.
type Deadline struct {
	Name          string `json:"name"`
	DaysRemaining int    `json:"daysRemaining"`
}

// BriefingSummary is the headline block of a daily briefing.
type BriefingSummary struct {
	BudgetDeficit     int64      `json:"budgetDeficit"`
	ProjectedRevenue  int64      `json:"projectedRevenue"`
	GapCoverage       string     `json:"gapCoverage"`
	CriticalAlerts    int        `json:"criticalAlerts"`
	UpcomingDeadlines []Deadline `json:"upcomingDeadlines"`
}

// Briefing is the payload returned to the scheduled daily trigger.
type Briefing struct {
	Date       time.Time       `json:"date"`
	Summary    BriefingSummary `json:"summary"`
	Priorities []string        `json:"priorities"`
}

var defaultPriorities = []string{
	"Follow up on equipment sales opportunities",
	"Complete grant narrative draft",
	"Review donor outreach plan",
}

// Briefing builds the daily summary from the realistic default projection and the current alerts.
func (s *Service) Briefing(ctx context.Context) Briefing {
	model := budget.NewModel()
	res := model.Result()

	critical := 0
	for _, a := range s.Load(ctx).Alerts {
		if a.Type == store.AlertCritical {
			critical++
		}
	}

	b := Briefing{
		Date: s.now().UTC(),
		Summary: BriefingSummary{
			BudgetDeficit:    int64(model.Deficit),
			ProjectedRevenue: res.TotalProjected,
			GapCoverage:      fmt.Sprintf("%d%%", res.GapCovered),
			CriticalAlerts:   critical,
			UpcomingDeadlines: []Deadline{
				{Name: "NC Digital Equity Grant", DaysRemaining: 3},
			},
		},
		Priorities: append([]string(nil), defaultPriorities...),
	}

	s.log.Info("daily briefing generated",
		zap.Time("date", b.Date),
		zap.Int64("projected_revenue", b.Summary.ProjectedRevenue),
		zap.String("gap_coverage", b.Summary.GapCoverage),
		zap.Int("critical_alerts", b.Summary.CriticalAlerts),
	)
	return b
}
