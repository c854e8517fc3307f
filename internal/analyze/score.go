package analyze

import "github.com/tracepulse/tracepulse/internal/model"

// complexityScore condenses the extracted metrics into a 0-100 heuristic.
// It is a pure function of the metrics: higher means the trace shows more
// architectural churn and frame-budget pressure.
func complexityScore(m model.Metrics) int {
	if m.TotalActions == 0 {
		return 0
	}

	score := 0

	// Slow-action ratio dominates: up to 50 points.
	score += int(float64(m.SlowActions) / float64(m.TotalActions) * 50)

	// Action volume: up to 20 points at 500+ actions.
	volume := m.TotalActions / 25
	if volume > 20 {
		volume = 20
	}
	score += volume

	// Long-running effects: 5 points each, up to 20.
	long := m.LongEffects * 5
	if long > 20 {
		long = 20
	}
	score += long

	// Cross-feature state churn: up to 10 points.
	churn := m.TotalStateChanges / 5
	if churn > 10 {
		churn = 10
	}
	score += churn

	if score > 100 {
		score = 100
	}
	return score
}
