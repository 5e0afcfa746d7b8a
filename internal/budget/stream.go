package budget

import (
	"errors"
	"fmt"
)

// DefaultDeficit is the projected budget deficit (USD) the streams are measured against.
const DefaultDeficit = 85000.0

var (
	ErrUnknownStream = errors.New("unknown revenue stream")
	ErrOutOfRange    = errors.New("value outside stream bounds")
)

// Stream is one fundraising category with a user-adjustable projection.
// Units: USD for Min, Max and Current.
type Stream struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Current     float64 `json:"current"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
}

// DefaultStreams returns a fresh copy of the four fixed streams at their default projections.
func DefaultStreams() []Stream {
	return []Stream{
		{
			ID:          "equipment",
			Name:        "Equipment Sales",
			Min:         0,
			Max:         60000,
			Current:     40000,
			Color:       "#FF6B00",
			Description: "Refurbished device sales - most fruitful opportunity",
		},
		{
			ID:          "grants",
			Name:        "Grants",
			Min:         0,
			Max:         50000,
			Current:     25000,
			Color:       "#38BDF8",
			Description: "NC Digital Equity Grant + foundation opportunities",
		},
		{
			ID:          "donations",
			Name:        "Donations & Events",
			Min:         0,
			Max:         30000,
			Current:     15000,
			Color:       "#22C55E",
			Description: "Year-end campaigns + donor appreciation events",
		},
		{
			ID:          "services",
			Name:        "Fee-for-Service",
			Min:         0,
			Max:         20000,
			Current:     5000,
			Color:       "#A855F7",
			Description: "Digital literacy training + consulting",
		},
	}
}

// Validate checks that Current lies within [Min, Max].
func (s Stream) Validate() error {
	if s.Min > s.Max {
		return fmt.Errorf("stream %s: min must be <= max", s.ID)
	}
	if s.Current < s.Min || s.Current > s.Max {
		return fmt.Errorf("stream %s: %w: %.0f not in [%.0f, %.0f]", s.ID, ErrOutOfRange, s.Current, s.Min, s.Max)
	}
	return nil
}

// StreamValue is the persisted form of a stream: just its id and current value.
type StreamValue struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}
