package budget

import (
	"fmt"
	"math"
	"time"
)

// Result is the recomputed budget picture for one set of streams and scenario.
// JSON names match the snapshot format the dashboard already stores.
type Result struct {
	TotalProjected  int64 `json:"totalProjected"`
	Gap             int64 `json:"gap"`
	GapCovered      int64 `json:"gapCovered"`
	Surplus         int64 `json:"surplus"`
	IsDeficitClosed bool  `json:"isDeficitClosed"`
}

// Calculate projects total revenue against deficit. Inputs are assumed to be pre-clamped.
func Calculate(streams []Stream, multiplier, deficit float64) Result {
	total := 0.0
	for _, s := range streams {
		total += s.Current * multiplier
	}
	gap := deficit - total

	covered := 100.0
	if deficit > 0 {
		covered = math.Max(0, math.Min(100, total/deficit*100))
	}

	return Result{
		TotalProjected:  round(total),
		Gap:             round(gap),
		GapCovered:      round(covered),
		Surplus:         round(math.Max(0, -gap)),
		IsDeficitClosed: gap <= 0,
	}
}

// round rounds half up (toward +Inf), so -2.5 becomes -2.
func round(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// BreakdownRow is one stream's contribution under the active scenario.
type BreakdownRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Projected int64   `json:"projected"`
	Potential int64   `json:"potential"`
	Share     float64 `json:"share"` // fraction of total projected, 0..1
	Color     string  `json:"color"`
}

// Model is a mutable worksheet: the streams, the active scenario and the deficit.
type Model struct {
	Deficit  float64
	Scenario Scenario
	Streams  []Stream
}

// NewModel returns a model at the default projections under the realistic scenario.
func NewModel() *Model {
	return &Model{
		Deficit:  DefaultDeficit,
		Scenario: Realistic,
		Streams:  DefaultStreams(),
	}
}

// Set assigns a stream's current value. The value must lie within the stream's bounds.
func (m *Model) Set(id string, value float64) error {
	for i := range m.Streams {
		if m.Streams[i].ID != id {
			continue
		}
		next := m.Streams[i]
		next.Current = value
		if err := next.Validate(); err != nil {
			return err
		}
		m.Streams[i] = next
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownStream, id)
}

// Apply assigns several values. It stops at the first invalid value; earlier assignments stay.
func (m *Model) Apply(values []StreamValue) error {
	for _, v := range values {
		if err := m.Set(v.ID, v.Value); err != nil {
			return err
		}
	}
	return nil
}

// SetScenario switches the active scenario.
func (m *Model) SetScenario(s Scenario) {
	m.Scenario = s
}

// Reset restores the default stream values. The selected scenario is kept.
func (m *Model) Reset() {
	m.Streams = DefaultStreams()
}

// Result recomputes the budget picture.
func (m *Model) Result() Result {
	return Calculate(m.Streams, m.Scenario.Multiplier(), m.Deficit)
}

// Values returns the id/value pairs for every stream.
func (m *Model) Values() []StreamValue {
	out := make([]StreamValue, 0, len(m.Streams))
	for _, s := range m.Streams {
		out = append(out, StreamValue{ID: s.ID, Value: s.Current})
	}
	return out
}

// Breakdown returns per-stream projections for charting.
func (m *Model) Breakdown() []BreakdownRow {
	mult := m.Scenario.Multiplier()
	total := 0.0
	for _, s := range m.Streams {
		total += s.Current * mult
	}

	rows := make([]BreakdownRow, 0, len(m.Streams))
	for _, s := range m.Streams {
		projected := s.Current * mult
		share := 0.0
		if total > 0 {
			share = projected / total
		}
		rows = append(rows, BreakdownRow{
			ID:        s.ID,
			Name:      s.Name,
			Projected: round(projected),
			Potential: round(s.Max),
			Share:     share,
			Color:     s.Color,
		})
	}
	return rows
}

// Snapshot captures the model for the local persistence slot.
func (m *Model) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Scenario:     m.Scenario,
		Streams:      m.Values(),
		Calculations: m.Result(),
		Timestamp:    now.UTC(),
	}
}
