package budget

import (
	"fmt"
	"strings"
)

// Scenario is a projection mode applied uniformly to every stream.
// Keep these values stable; they are stored in snapshots and database rows.
type Scenario string

const (
	Conservative Scenario = "conservative"
	Realistic    Scenario = "realistic"
	Optimistic   Scenario = "optimistic"
)

const (
	ConservativeMultiplier = 0.75
	OptimisticMultiplier   = 1.15
)

// Scenarios lists every scenario in display order.
func Scenarios() []Scenario {
	return []Scenario{Conservative, Realistic, Optimistic}
}

// Multiplier returns the scalar applied to stream values. Unknown scenarios behave as realistic.
func (s Scenario) Multiplier() float64 {
	switch s {
	case Conservative:
		return ConservativeMultiplier
	case Optimistic:
		return OptimisticMultiplier
	default:
		return 1
	}
}

// ParseScenario accepts a scenario name case-insensitively. An empty name means realistic.
func ParseScenario(name string) (Scenario, error) {
	switch Scenario(strings.ToLower(strings.TrimSpace(name))) {
	case "", Realistic:
		return Realistic, nil
	case Conservative:
		return Conservative, nil
	case Optimistic:
		return Optimistic, nil
	default:
		return "", fmt.Errorf("unknown scenario %q (want conservative, realistic or optimistic)", name)
	}
}
