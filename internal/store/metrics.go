package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Metrics is the singleton headline row shown on the dashboard.
type Metrics struct {
	ID               int64     `json:"id,omitempty"`
	BudgetDeficit    int64     `json:"budget_deficit"`
	ProjectedRevenue int64     `json:"projected_revenue"`
	GapCoverage      int64     `json:"gap_coverage"`
	UpdatedAt        time.Time `json:"updated_at,omitzero"`
}

// DefaultMetrics is returned when the metrics table is empty.
func DefaultMetrics() Metrics {
	return Metrics{
		BudgetDeficit:    85000,
		ProjectedRevenue: 90000,
		GapCoverage:      100,
	}
}

// MetricsUpdate is a partial update; nil fields keep their stored value.
type MetricsUpdate struct {
	BudgetDeficit    *int64 `json:"budget_deficit"`
	ProjectedRevenue *int64 `json:"projected_revenue"`
	GapCoverage      *int64 `json:"gap_coverage"`
}

// GetMetrics returns the newest metrics row, or DefaultMetrics when none exists.
func (s *Store) GetMetrics(ctx context.Context) (Metrics, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, budget_deficit, projected_revenue, gap_coverage, updated_at
		FROM metrics ORDER BY id DESC LIMIT 1`)
	m, err := scanMetrics(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultMetrics(), nil
	}
	if err != nil {
		return Metrics{}, fmt.Errorf("get metrics: %w", err)
	}
	return m, nil
}

// UpdateMetrics applies a partial update to row 1. It returns ErrNotFound if the table was never seeded.
func (s *Store) UpdateMetrics(ctx context.Context, u MetricsUpdate) (Metrics, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`UPDATE metrics
		SET budget_deficit = COALESCE(?, budget_deficit),
		    projected_revenue = COALESCE(?, projected_revenue),
		    gap_coverage = COALESCE(?, gap_coverage),
		    updated_at = ?
		WHERE id = 1
		RETURNING id, budget_deficit, projected_revenue, gap_coverage, updated_at`),
		nullInt(u.BudgetDeficit),
		nullInt(u.ProjectedRevenue),
		nullInt(u.GapCoverage),
		time.Now().UTC(),
	)
	m, err := scanMetrics(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Metrics{}, fmt.Errorf("metrics row: %w", ErrNotFound)
	}
	if err != nil {
		return Metrics{}, fmt.Errorf("update metrics: %w", err)
	}
	return m, nil
}

func scanMetrics(row *sql.Row) (Metrics, error) {
	var (
		m         Metrics
		updatedAt timestamp
	)
	if err := row.Scan(&m.ID, &m.BudgetDeficit, &m.ProjectedRevenue, &m.GapCoverage, &updatedAt); err != nil {
		return Metrics{}, err
	}
	m.UpdatedAt = updatedAt.Time
	return m, nil
}
