// Package enrich correlates action and effect time windows against the three
// auxiliary instrument series. Enrichment is additive and best-effort: an
// empty series yields empty facets, never an error, and never blocks the
// primary extraction.
package enrich

import (
	"sort"
	"strings"

	"github.com/tracepulse/tracepulse/internal/model"
)

// topCPUStates bounds the CPU-state histogram to the dominant states.
const topCPUStates = 3

// blockingCalls classifies the dominant syscall name against known blocking
// calls; unrecognized names pass through verbatim.
var blockingCalls = []string{"kevent", "futex", "read", "write", "mach_msg", "select", "poll"}

// Series bundles the auxiliary data sets for one trace. Any slice may be nil
// when its export failed or the instrument was absent.
type Series struct {
	Samples     []model.TimeProfilerSample
	Syscalls    []model.SystemCall
	Allocations []model.AllocationEvent
}

// Actions returns a copy of actions where every slow action carries the three
// enrichment facets computed over its time window. Fast actions pass through
// untouched.
func Actions(actions []model.Action, series Series) []model.Action {
	out := make([]model.Action, len(actions))
	for i, a := range actions {
		out[i] = a
		if !a.IsSlow() {
			continue
		}
		start, end := a.TimestampSeconds, a.TimestampSeconds+a.DurationSeconds
		out[i].CPUStateSamples = CPUStateHistogram(series.Samples, start, end)
		out[i].DominantWait = DominantWaitState(series.Syscalls, start, end)
		out[i].NetAllocBytes = AllocationDelta(series.Allocations, start, end)
	}
	return out
}

// Effects is the effect counterpart of Actions, keyed on the long-running
// threshold.
func Effects(effects []model.Effect, series Series) []model.Effect {
	out := make([]model.Effect, len(effects))
	for i, e := range effects {
		out[i] = e
		if !e.IsLongRunning() {
			continue
		}
		out[i].CPUStateSamples = CPUStateHistogram(series.Samples, e.StartSeconds, e.EndSeconds)
		out[i].DominantWait = DominantWaitState(series.Syscalls, e.StartSeconds, e.EndSeconds)
		out[i].NetAllocBytes = AllocationDelta(series.Allocations, e.StartSeconds, e.EndSeconds)
	}
	return out
}

// CPUStateHistogram groups in-window samples by thread state, weights them,
// and returns the top states as percentages of the window's total weight.
// An empty window yields an empty result.
func CPUStateHistogram(samples []model.TimeProfilerSample, start, end float64) []model.CPUStateSample {
	weights := make(map[string]float64)
	var total float64
	for _, s := range samples {
		if s.TimestampSeconds < start || s.TimestampSeconds > end {
			continue
		}
		state := s.ThreadState
		if strings.TrimSpace(state) == "" {
			state = "unknown"
		}
		weights[state] += s.Weight
		total += s.Weight
	}
	if total == 0 {
		return nil
	}

	hist := make([]model.CPUStateSample, 0, len(weights))
	for state, w := range weights {
		hist = append(hist, model.CPUStateSample{
			Label:           state,
			PercentOfWindow: w / total * 100,
		})
	}
	sort.Slice(hist, func(i, j int) bool {
		if hist[i].PercentOfWindow != hist[j].PercentOfWindow {
			return hist[i].PercentOfWindow > hist[j].PercentOfWindow
		}
		return hist[i].Label < hist[j].Label
	})
	if len(hist) > topCPUStates {
		hist = hist[:topCPUStates]
	}
	return hist
}

// DominantWaitState reports the single dominant blocker for a window: the
// name-classified syscall with the largest individual wait time when the
// window's total wait exceeds the floor, or "cpu" when the window is
// CPU-bound. The framing is intentionally binary, one blocker, not a
// distribution. A window with no syscall samples at all is unknown rather
// than CPU-bound and reports "".
func DominantWaitState(calls []model.SystemCall, start, end float64) string {
	var total float64
	var top model.SystemCall
	seen := 0
	for _, c := range calls {
		if c.TimestampSeconds < start || c.TimestampSeconds > end {
			continue
		}
		seen++
		total += c.WaitTimeSeconds
		if c.WaitTimeSeconds > top.WaitTimeSeconds {
			top = c
		}
	}
	if seen == 0 {
		return ""
	}
	if total <= model.WaitTimeFloor {
		return "cpu"
	}
	return classifyCall(top.CallName)
}

func classifyCall(name string) string {
	lower := strings.ToLower(name)
	for _, known := range blockingCalls {
		if strings.Contains(lower, known) {
			return known
		}
	}
	return name
}

// AllocationDelta sums in-window allocation sizes: allocate and reallocate
// count positive, deallocate negative. The net may be negative when the
// window frees more than it allocates.
func AllocationDelta(events []model.AllocationEvent, start, end float64) int64 {
	var net int64
	for _, ev := range events {
		if ev.TimestampSeconds < start || ev.TimestampSeconds > end {
			continue
		}
		switch ev.Kind {
		case model.AllocKindDeallocate:
			net -= ev.SizeBytes
		default:
			net += ev.SizeBytes
		}
	}
	return net
}
