package analyze

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/tracepulse/tracepulse/internal/model"
)

const (
	maxRecommendations  = 8
	allocHeavyThreshold = 8 << 20 // 8 MiB net growth in one window
)

// recommendations derives operator-facing guidance from the enriched lists.
// Pure function of its inputs; the wording references the enrichment facets
// so a slow action is annotated with its likely root cause.
func recommendations(actions []model.Action, effects []model.Effect, m model.Metrics) []string {
	var recs []string

	slow := make([]model.Action, 0, m.SlowActions)
	for _, a := range actions {
		if a.IsSlow() {
			slow = append(slow, a)
		}
	}
	sort.Slice(slow, func(i, j int) bool { return slow[i].DurationSeconds > slow[j].DurationSeconds })

	for _, a := range slow {
		if len(recs) >= maxRecommendations {
			break
		}
		base := fmt.Sprintf("%s.%s takes %.1f ms, over the 16 ms frame budget", a.FeatureName, a.ActionName, a.DurationSeconds*1000)
		switch {
		case a.DominantWait != "" && a.DominantWait != "cpu":
			recs = append(recs, base+fmt.Sprintf("; dominated by blocking %s calls, move the work off the reducer", a.DominantWait))
		case a.NetAllocBytes > allocHeavyThreshold:
			recs = append(recs, base+fmt.Sprintf("; allocates %s net, check for unneeded copies", humanize.Bytes(uint64(a.NetAllocBytes))))
		default:
			recs = append(recs, base+"; CPU-bound, consider reducing reducer work or caching derived state")
		}
	}

	longCount := 0
	for _, e := range effects {
		if e.IsLongRunning() {
			longCount++
			if longCount <= 2 && len(recs) < maxRecommendations {
				recs = append(recs, fmt.Sprintf("effect %s.%s runs %.2f s; make sure it is cancellable and off the main thread", e.FeatureName, e.Name, e.DurationSeconds()))
			}
		}
	}

	if m.TotalStateChanges > 25 && len(recs) < maxRecommendations {
		recs = append(recs, fmt.Sprintf("%d shared-state mutations observed; consider scoping state to the owning feature", m.TotalStateChanges))
	}
	if len(recs) == 0 {
		recs = append(recs, "no actions exceeded the frame budget; nothing to do")
	}
	return recs
}
