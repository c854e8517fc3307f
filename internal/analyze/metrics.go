package analyze

import (
	"sort"

	"github.com/tracepulse/tracepulse/internal/model"
)

// computeMetrics derives the timing distribution for the report.
func computeMetrics(actions []model.Action, effects []model.Effect, changes []model.StateChange) model.Metrics {
	m := model.Metrics{
		TotalActions:      len(actions),
		TotalEffects:      len(effects),
		TotalStateChanges: len(changes),
	}

	durations := make([]float64, 0, len(actions))
	var total float64
	for _, a := range actions {
		durations = append(durations, a.DurationSeconds)
		total += a.DurationSeconds
		if a.IsSlow() {
			m.SlowActions++
		}
		if a.DurationSeconds > m.MaxActionSeconds {
			m.MaxActionSeconds = a.DurationSeconds
		}
		m.NetAllocBytes += a.NetAllocBytes
	}
	for _, e := range effects {
		if e.IsLongRunning() {
			m.LongEffects++
		}
		m.NetAllocBytes += e.NetAllocBytes
	}

	if len(durations) > 0 {
		sort.Float64s(durations)
		m.AvgActionSeconds = total / float64(len(durations))
		m.P50ActionSeconds = percentile(durations, 50)
		m.P95ActionSeconds = percentile(durations, 95)
	}

	m.PerFeature = perFeatureStats(actions, effects)
	return m
}

// percentile uses nearest-rank on an ascending-sorted slice.
func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (len(sorted)*p + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// perFeatureStats aggregates per-feature action stats. It reads enrichment
// facets uniformly through the Enrichable interface so actions and effects
// contribute wait states the same way.
func perFeatureStats(actions []model.Action, effects []model.Effect) []model.FeatureStats {
	byFeature := make(map[string]*model.FeatureStats)
	stat := func(feature string) *model.FeatureStats {
		s, ok := byFeature[feature]
		if !ok {
			s = &model.FeatureStats{Feature: feature}
			byFeature[feature] = s
		}
		return s
	}

	for _, a := range actions {
		s := stat(a.FeatureName)
		s.ActionCount++
		s.TotalSeconds += a.DurationSeconds
		if a.IsSlow() {
			s.SlowCount++
		}
		if a.DurationSeconds > s.MaxSeconds {
			s.MaxSeconds = a.DurationSeconds
		}
	}

	items := make([]model.Enrichable, 0, len(actions)+len(effects))
	for _, a := range actions {
		items = append(items, a)
	}
	for _, e := range effects {
		items = append(items, e)
	}
	for _, it := range items {
		if ws := it.WaitState(); ws != "" && ws != "cpu" {
			s := stat(it.Feature())
			if !containsString(s.TopWaitStates, ws) {
				s.TopWaitStates = append(s.TopWaitStates, ws)
			}
		}
	}

	out := make([]model.FeatureStats, 0, len(byFeature))
	for _, s := range byFeature {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSeconds != out[j].TotalSeconds {
			return out[i].TotalSeconds > out[j].TotalSeconds
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
