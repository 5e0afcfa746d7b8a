package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TeamMember is one staff member the dashboard and chat assistant know about.
type TeamMember struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Initials     string `json:"initials"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ListTeamMembers returns every member ordered by id.
func (s *Store) ListTeamMembers(ctx context.Context) ([]TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, initials, role, status, system_prompt
		FROM team_members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := []TeamMember{}
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	return members, nil
}

// GetTeamMember returns one member, or ErrNotFound.
func (s *Store) GetTeamMember(ctx context.Context, id int64) (TeamMember, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name, initials, role, status, system_prompt
		FROM team_members WHERE id = ?`), id)
	m, err := scanTeamMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TeamMember{}, fmt.Errorf("team member %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return TeamMember{}, fmt.Errorf("get team member %d: %w", id, err)
	}
	return m, nil
}

func scanTeamMember(row rowScanner) (TeamMember, error) {
	var (
		m                                    TeamMember
		initials, role, status, systemPrompt sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Name, &initials, &role, &status, &systemPrompt); err != nil {
		return TeamMember{}, err
	}
	m.Initials = initials.String
	m.Role = role.String
	m.Status = status.String
	m.SystemPrompt = systemPrompt.String
	return m, nil
}
