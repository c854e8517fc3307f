package extract

import (
	"strings"

	"github.com/tracepulse/tracepulse/internal/model"
)

const (
	// architectureCategory is the reserved category tag the instrumentation
	// library stamps on its signposts.
	architectureCategory = "ComposableArchitecture"

	appleSubsystemPrefix = "com.apple."
)

// frameworkEventNames is a denylist of OS-framework-internal signpost names
// that share a trace with application markers.
var frameworkEventNames = map[string]bool{
	"CommitTransaction": true,
	"CAFenceWaitCommit": true,
	"RenderUpdate":      true,
	"LayoutUpdate":      true,
	"RunLoopObserver":   true,
	"HIDEventDispatch":  true,
}

// architectureKeywords feed the final classification heuristic.
var architectureKeywords = []string{"Action", "Effect", "Reducer", "Store", "State"}

// IsRelevant reports whether a marker belongs to the target application's
// action/effect instrumentation rather than unrelated OS signposts. The steps
// run in precedence order and the first match wins; app-specific checks come
// before the OS denylist since later app signposts can overlap OS naming.
func IsRelevant(m model.Marker) bool {
	if isAppBundleSubsystem(m.Subsystem) {
		return true
	}
	if m.Category == architectureCategory {
		return true
	}
	if nameMatchesInstrumentation(m.Name) {
		return true
	}
	if messageMatchesDomain(m.Message) {
		return true
	}
	if isFrameworkMarker(m) {
		return false
	}
	return finalHeuristic(m)
}

// Relevant filters markers down to the domain-relevant subset. It is a pure
// filter: feeding its output back through yields the same set unchanged.
func Relevant(markers []model.Marker) []model.Marker {
	out := make([]model.Marker, 0, len(markers))
	for _, m := range markers {
		if IsRelevant(m) {
			out = append(out, m)
		}
	}
	return out
}

// isAppBundleSubsystem matches subsystems that look like an application bundle
// identifier: a non-Apple reverse-DNS name ending in an "app" suffix.
func isAppBundleSubsystem(subsystem string) bool {
	if strings.HasPrefix(subsystem, appleSubsystemPrefix) {
		return false
	}
	return strings.HasSuffix(subsystem, ".app") || strings.HasSuffix(subsystem, "-app")
}

// nameMatchesInstrumentation matches the naming conventions the
// reducer/effect-signpost instrumentation uses.
func nameMatchesInstrumentation(name string) bool {
	switch {
	case strings.Contains(name, ".Action."),
		strings.Contains(name, ".Effect."),
		strings.HasSuffix(name, "Feature"),
		strings.HasSuffix(name, ".body"),
		name == "Store.send":
		return true
	}
	return false
}

// messageMatchesDomain matches the Feature.Action.name grammar or a bracketed
// "[FeatureName] ... Feature" context in the free-text payload.
func messageMatchesDomain(message string) bool {
	if _, _, ok := MatchFeatureAction(message); ok {
		return true
	}
	if _, ok := MatchBracketContext(message); ok {
		return strings.Contains(message, "Feature")
	}
	return false
}

// isFrameworkMarker identifies clearly OS-framework-internal markers.
func isFrameworkMarker(m model.Marker) bool {
	if strings.HasPrefix(m.Subsystem, appleSubsystemPrefix) {
		return true
	}
	if strings.HasPrefix(m.Category, appleSubsystemPrefix) {
		return true
	}
	return frameworkEventNames[m.Name]
}

// finalHeuristic accepts a non-Apple dotted subsystem whose name carries one
// of the architecture keywords.
func finalHeuristic(m model.Marker) bool {
	if !strings.Contains(m.Subsystem, ".") {
		return false
	}
	for _, kw := range architectureKeywords {
		if strings.Contains(m.Name, kw) {
			return true
		}
	}
	return false
}
