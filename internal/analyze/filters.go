package analyze

import (
	"strings"

	"github.com/tracepulse/tracepulse/internal/extract"
	"github.com/tracepulse/tracepulse/internal/model"
)

// Filters narrows the extracted result before enrichment. The zero value
// keeps everything.
type Filters struct {
	Feature            string  // exact feature name
	ActionSubstring    string  // case-insensitive substring of the action name
	MinDurationSeconds float64 // keep actions at or above this duration
	SlowOnly           bool    // keep only slow actions
}

func (f Filters) empty() bool {
	return f.Feature == "" && f.ActionSubstring == "" && f.MinDurationSeconds == 0 && !f.SlowOnly
}

// Apply filters the action list; the feature filter is mirrored onto effects
// and state changes so the report stays internally consistent.
func (f Filters) Apply(res extract.Result) extract.Result {
	if f.empty() {
		return res
	}

	out := extract.Result{}
	for _, a := range res.Actions {
		if f.keepAction(a) {
			out.Actions = append(out.Actions, a)
		}
	}
	for _, e := range res.Effects {
		if f.Feature == "" || e.FeatureName == f.Feature {
			out.Effects = append(out.Effects, e)
		}
	}
	for _, sc := range res.StateChanges {
		if f.Feature == "" || sc.FeatureName == f.Feature {
			out.StateChanges = append(out.StateChanges, sc)
		}
	}
	return out
}

func (f Filters) keepAction(a model.Action) bool {
	if f.Feature != "" && a.FeatureName != f.Feature {
		return false
	}
	if f.ActionSubstring != "" && !strings.Contains(strings.ToLower(a.ActionName), strings.ToLower(f.ActionSubstring)) {
		return false
	}
	if f.MinDurationSeconds > 0 && a.DurationSeconds < f.MinDurationSeconds {
		return false
	}
	if f.SlowOnly && !a.IsSlow() {
		return false
	}
	return true
}
