package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// BudgetScenario is a saved worksheet. Streams and Calculations are stored as JSON documents.
type BudgetScenario struct {
	ID           int64           `json:"id"`
	UserID       string          `json:"user_id"`
	ScenarioType string          `json:"scenario_type"`
	Streams      json.RawMessage `json:"streams"`
	Calculations json.RawMessage `json:"calculations"`
	CreatedAt    time.Time       `json:"created_at,omitzero"`
}

// SaveBudgetScenario marshals streams and calculations and inserts a row.
func (s *Store) SaveBudgetScenario(ctx context.Context, userID, scenarioType string, streams, calculations any) (BudgetScenario, error) {
	streamsJSON, err := json.Marshal(streams)
	if err != nil {
		return BudgetScenario{}, fmt.Errorf("marshal streams: %w", err)
	}
	calcJSON, err := json.Marshal(calculations)
	if err != nil {
		return BudgetScenario{}, fmt.Errorf("marshal calculations: %w", err)
	}

	row := s.db.QueryRowContext(ctx, s.rebind(`INSERT INTO budget_scenarios (user_id, scenario_type, streams, calculations, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, scenario_type, CAST(streams AS TEXT), CAST(calculations AS TEXT), created_at`),
		userID,
		scenarioType,
		string(streamsJSON),
		string(calcJSON),
		time.Now().UTC(),
	)
	bs, err := scanBudgetScenario(row)
	if err != nil {
		return BudgetScenario{}, fmt.Errorf("save budget scenario: %w", err)
	}
	return bs, nil
}

// ListBudgetScenarios returns a user's saved scenarios, newest first.
func (s *Store) ListBudgetScenarios(ctx context.Context, userID string) ([]BudgetScenario, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, user_id, scenario_type, CAST(streams AS TEXT), CAST(calculations AS TEXT), created_at
		FROM budget_scenarios
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list budget scenarios: %w", err)
	}
	defer rows.Close()

	out := []BudgetScenario{}
	for rows.Next() {
		bs, err := scanBudgetScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget scenario: %w", err)
		}
		out = append(out, bs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget scenarios: %w", err)
	}
	return out, nil
}

func scanBudgetScenario(row rowScanner) (BudgetScenario, error) {
	var (
		bs                    BudgetScenario
		userID, scenarioType  sql.NullString
		streams, calculations sql.NullString
		createdAt             timestamp
	)
	if err := row.Scan(&bs.ID, &userID, &scenarioType, &streams, &calculations, &createdAt); err != nil {
		return BudgetScenario{}, err
	}
	bs.UserID = userID.String
	bs.ScenarioType = scenarioType.String
	bs.Streams = rawJSON(streams)
	bs.Calculations = rawJSON(calculations)
	bs.CreatedAt = createdAt.Time
	return bs, nil
}

func rawJSON(v sql.NullString) json.RawMessage {
	if !v.Valid || v.String == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(v.String)
}
