package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// AlertType is the severity of a priority alert.
type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
	AlertInfo     AlertType = "info"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertCritical, AlertWarning, AlertInfo:
		return true
	default:
		return false
	}
}

// Alert is a priority notice linking to the page that needs attention.
type Alert struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        AlertType `json:"type"`
	Link        string    `json:"link,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// NewAlert is the input to CreateAlert.
type NewAlert struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        AlertType `json:"type"`
	Link        string    `json:"link"`
}

func (a NewAlert) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("type must be critical, warning or info, got %q", a.Type)
	}
	return nil
}

// ListAlerts returns alerts newest first.
func (s *Store) ListAlerts(ctx context.Context) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, type, link, created_at
		FROM alerts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// CreateAlert inserts an alert and returns the stored row.
func (s *Store) CreateAlert(ctx context.Context, in NewAlert) (Alert, error) {
	if err := in.Validate(); err != nil {
		return Alert{}, err
	}
	row := s.db.QueryRowContext(ctx, s.rebind(`INSERT INTO alerts (title, description, type, link, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, title, description, type, link, created_at`),
		strings.TrimSpace(in.Title),
		nullString(in.Description),
		string(in.Type),
		nullString(in.Link),
		time.Now().UTC(),
	)
	a, err := scanAlert(row)
	if err != nil {
		return Alert{}, fmt.Errorf("create alert: %w", err)
	}
	return a, nil
}

// DeleteAlert removes an alert, or returns ErrNotFound.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM alerts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete alert %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete alert %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanAlert(row rowScanner) (Alert, error) {
	var (
		a                 Alert
		description, link sql.NullString
		alertType         sql.NullString
		createdAt         timestamp
	)
	if err := row.Scan(&a.ID, &a.Title, &description, &alertType, &link, &createdAt); err != nil {
		return Alert{}, err
	}
	a.Description = description.String
	a.Type = AlertType(alertType.String)
	a.Link = link.String
	a.CreatedAt = createdAt.Time
	return a, nil
}
