package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedResult reports how many rows Seed inserted per table. Zero means the table already had data.
type SeedResult struct {
	Metrics     int `json:"metrics"`
	TeamMembers int `json:"team_members"`
	Alerts      int `json:"alerts"`
}

// Inserted reports whether any table was populated.
func (r SeedResult) Inserted() bool {
	return r.Metrics+r.TeamMembers+r.Alerts > 0
}

// SeedMetrics is the metrics row written by Seed.
func SeedMetrics() Metrics {
	return Metrics{BudgetDeficit: 85000, ProjectedRevenue: 85000, GapCoverage: 100}
}

// SeedTeam is the team written by Seed.
func SeedTeam() []TeamMember {
	return []TeamMember{
		{Name: "Will Sigmon", Initials: "WS", Role: "Director of Business Development", Status: "active"},
		{Name: "Mark Williams", Initials: "MW", Role: "Executive Director", Status: "active"},
		{Name: "Deirdre Greene", Initials: "DG", Role: "Grant Writer", Status: "active"},
		{Name: "Ron Taylor", Initials: "RT", Role: "Operations Manager", Status: "active"},
	}
}

// SeedAlerts is the alert set written by Seed.
func SeedAlerts() []NewAlert {
	return []NewAlert{
		{Title: "Budget Gap Critical", Type: AlertCritical, Description: "$85k deficit projected for Q1 2026", Link: "/budget-gap"},
		{Title: "Grant Deadline", Type: AlertWarning, Description: "NC Digital Equity Grant due in 3 days", Link: "/grants"},
		{Title: "New Lead Detected", Type: AlertInfo, Description: "Cisco Systems CSR program matches HTI", Link: "/leads"},
	}
}

// Seed fills empty tables with the default rows. Tables that already hold data are left alone,
// so repeated calls are no-ops.
func (s *Store) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	empty, err := s.tableEmpty(ctx, tx, "metrics")
	if err != nil {
		return res, err
	}
	if empty {
		m := SeedMetrics()
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO metrics (budget_deficit, projected_revenue, gap_coverage, updated_at)
			VALUES (?, ?, ?, ?)`), m.BudgetDeficit, m.ProjectedRevenue, m.GapCoverage, now); err != nil {
			return res, fmt.Errorf("seed metrics: %w", err)
		}
		res.Metrics = 1
	}

	empty, err = s.tableEmpty(ctx, tx, "team_members")
	if err != nil {
		return res, err
	}
	if empty {
		for _, m := range SeedTeam() {
			if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO team_members (name, initials, role, status)
				VALUES (?, ?, ?, ?)`), m.Name, m.Initials, m.Role, m.Status); err != nil {
				return res, fmt.Errorf("seed team member %s: %w", m.Name, err)
			}
			res.TeamMembers++
		}
	}

	empty, err = s.tableEmpty(ctx, tx, "alerts")
	if err != nil {
		return res, err
	}
	if empty {
		// Earlier entries get later timestamps so newest-first listing returns them in seed order.
		for i, a := range SeedAlerts() {
			if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO alerts (title, description, type, link, created_at)
				VALUES (?, ?, ?, ?, ?)`), a.Title, nullString(a.Description), string(a.Type), nullString(a.Link),
				now.Add(-time.Duration(i)*time.Millisecond)); err != nil {
				return res, fmt.Errorf("seed alert %s: %w", a.Title, err)
			}
			res.Alerts++
		}
	}

	if err := tx.Commit(); err != nil {
		return SeedResult{}, fmt.Errorf("commit seed: %w", err)
	}
	return res, nil
}

func (s *Store) tableEmpty(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var n int64
	// table is always one of the fixed names above.
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return false, fmt.Errorf("count %s: %w", table, err)
	}
	return n == 0, nil
}
