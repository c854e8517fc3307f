package extract

import (
	"sort"
	"strings"

	"github.com/tracepulse/tracepulse/internal/model"
)

// Sentinel names used when every naming heuristic fails. A partially
// identified record is preferred to silent loss.
const (
	UnknownFeature = "Unknown"
	UnknownAction  = "UnknownAction"
)

// Result holds the reconstructed domain events of one extraction pass.
type Result struct {
	Actions      []model.Action
	Effects      []model.Effect
	StateChanges []model.StateChange
}

// Extract classifies markers and reconstructs actions, effects and state
// changes. Begin/End pairing is a plain map lookup by marker id, scoped
// separately for actions and effects; it is not nesting-aware because ids are
// unique per logical span. Dangling Begin markers are flushed at end of
// stream rather than dropped, so truncated traces still report what began.
func Extract(markers []model.Marker) Result {
	var res Result
	openActions := make(map[string]model.Marker)
	openEffects := make(map[string]model.Marker)

	for _, m := range Relevant(markers) {
		switch {
		case isStateChangeMarker(m):
			res.StateChanges = append(res.StateChanges, stateChangeFrom(m))
		case isEffectMarker(m):
			extractEffect(m, openEffects, &res)
		default:
			extractAction(m, openActions, &res)
		}
	}

	for _, m := range openActions {
		res.Actions = append(res.Actions, actionFrom(m, 0))
	}
	for _, m := range openEffects {
		res.Effects = append(res.Effects, effectFrom(m, m.TimestampSeconds, m.TimestampSeconds))
	}

	// Pairing by id can interleave document order, so the final lists are
	// re-sorted by timestamp.
	sort.SliceStable(res.Actions, func(i, j int) bool {
		return res.Actions[i].TimestampSeconds < res.Actions[j].TimestampSeconds
	})
	sort.SliceStable(res.Effects, func(i, j int) bool {
		return res.Effects[i].StartSeconds < res.Effects[j].StartSeconds
	})
	sort.SliceStable(res.StateChanges, func(i, j int) bool {
		return res.StateChanges[i].TimestampSeconds < res.StateChanges[j].TimestampSeconds
	})
	return res
}

func extractAction(m model.Marker, open map[string]model.Marker, res *Result) {
	switch m.Kind {
	case model.KindBegin:
		// Overlapping same-name spans share a synthesized id. The displaced
		// Begin is flushed as zero-duration rather than dropped.
		if prev, ok := open[m.ID]; ok {
			res.Actions = append(res.Actions, actionFrom(prev, 0))
		}
		open[m.ID] = m
	case model.KindEnd:
		if begin, ok := open[m.ID]; ok {
			delete(open, m.ID)
			res.Actions = append(res.Actions, actionFrom(begin, m.TimestampSeconds-begin.TimestampSeconds))
			return
		}
		// End without a Begin, e.g. capture started mid-span.
		res.Actions = append(res.Actions, actionFrom(m, 0))
	default:
		res.Actions = append(res.Actions, actionFrom(m, 0))
	}
}

// extractEffect handles effect markers. An Instant whose id matches an open
// Begin closes that span; a bare Instant stands in for a fresh
// minimal-duration effect.
func extractEffect(m model.Marker, open map[string]model.Marker, res *Result) {
	switch m.Kind {
	case model.KindBegin:
		if prev, ok := open[m.ID]; ok {
			res.Effects = append(res.Effects, effectFrom(prev, prev.TimestampSeconds, prev.TimestampSeconds))
		}
		open[m.ID] = m
	case model.KindEnd, model.KindInstant:
		if begin, ok := open[m.ID]; ok {
			delete(open, m.ID)
			res.Effects = append(res.Effects, effectFrom(begin, begin.TimestampSeconds, m.TimestampSeconds))
			return
		}
		res.Effects = append(res.Effects, effectFrom(m, m.TimestampSeconds, m.TimestampSeconds))
	}
}

func actionFrom(m model.Marker, duration float64) model.Action {
	feature, action := deriveActionNames(m)
	return model.Action{
		FeatureName:      feature,
		ActionName:       action,
		TimestampSeconds: m.TimestampSeconds,
		DurationSeconds:  duration,
		RawMetadata:      CleanMessage(m.Message),
	}
}

// effectFrom builds an effect, flooring the duration to a tiny epsilon so no
// effect record ever reports exactly zero.
func effectFrom(m model.Marker, start, end float64) model.Effect {
	if end-start < model.MinEffectDuration {
		end = start + model.MinEffectDuration
	}
	feature, name := deriveEffectNames(m)
	return model.Effect{
		Name:         name,
		FeatureName:  feature,
		StartSeconds: start,
		EndSeconds:   end,
	}
}

func stateChangeFrom(m model.Marker) model.StateChange {
	feature := UnknownFeature
	text := m.Message
	if tag, ok := MatchBracketContext(m.Message); ok {
		feature = StripFeatureSuffix(tag)
		text = strings.TrimSpace(strings.Replace(text, "["+tag+"]", "", 1))
	} else if f, _, ok := MatchFeatureAction(m.Message); ok {
		feature = f
	} else if f := featureFromName(m.Name); f != "" {
		feature = f
	}
	property, oldValue, newValue := ParseStateChange(text)
	return model.StateChange{
		FeatureName:      feature,
		TimestampSeconds: m.TimestampSeconds,
		PropertyName:     property,
		OldValue:         oldValue,
		NewValue:         newValue,
	}
}

// deriveActionNames recovers (feature, action) from the marker name first and
// the free-text message second. Generic names like a bare "Action" token are
// common for instant markers, so the message grammar is the usual fallback.
func deriveActionNames(m model.Marker) (string, string) {
	if feature, action, ok := MatchFeatureAction(m.Name); ok {
		return feature, action
	}
	if feature := featureFromName(m.Name); feature != "" {
		if rest := actionPathFromName(m.Name); rest != "" {
			return feature, rest
		}
	}
	if feature, action, ok := MatchFeatureAction(m.Message); ok {
		return feature, action
	}
	if tag, ok := MatchBracketContext(m.Message); ok {
		return StripFeatureSuffix(tag), UnknownAction
	}
	if feature := featureFromName(m.Name); feature != "" {
		return feature, UnknownAction
	}
	return UnknownFeature, UnknownAction
}

func deriveEffectNames(m model.Marker) (string, string) {
	if feature, effect, ok := MatchFeatureEffect(m.Name); ok {
		return feature, effect
	}
	if feature, effect, ok := MatchFeatureEffect(m.Message); ok {
		return feature, effect
	}
	feature := UnknownFeature
	if f := featureFromName(m.Name); f != "" {
		feature = f
	} else if tag, ok := MatchBracketContext(m.Message); ok {
		feature = StripFeatureSuffix(tag)
	}
	name := m.Name
	if name == "" || name == "Effect" {
		if cleaned := CleanMessage(m.Message); cleaned != "" {
			name = cleaned
		}
	}
	return feature, name
}

// featureFromName pulls a feature out of a leading "...Feature" name token.
func featureFromName(name string) string {
	tokens := strings.Split(name, ".")
	if len(tokens) == 0 {
		return ""
	}
	if tokens[0] != "Feature" && strings.HasSuffix(tokens[0], "Feature") {
		return StripFeatureSuffix(tokens[0])
	}
	return ""
}

// actionPathFromName returns the action path after a Feature.Action prefix;
// the rest may retain embedded dots for nested actions.
func actionPathFromName(name string) string {
	tokens := strings.Split(name, ".")
	if len(tokens) >= 3 && tokens[1] == "Action" {
		return strings.Join(tokens[2:], ".")
	}
	return ""
}

// isStateChangeMarker scans for markers describing shared-state mutations.
func isStateChangeMarker(m model.Marker) bool {
	if strings.Contains(strings.ToLower(m.Category), "state") {
		return true
	}
	if strings.Contains(strings.ToLower(m.Name), "state") {
		return true
	}
	return strings.Contains(strings.ToLower(m.Message), "state change")
}

func isEffectMarker(m model.Marker) bool {
	if strings.Contains(m.Name, "Effect") {
		return true
	}
	if m.Category == "Effect" {
		return true
	}
	return strings.Contains(m.Message, ".Effect.")
}
