// Package extract reconstructs domain actions, effects and state changes from
// raw signpost markers.
package extract

import (
	"regexp"
	"strings"
)

// Each free-text grammar gets its own named pattern function so the
// classification precedence can be tested per pattern.

var (
	featureActionRe = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_]*)Feature\.Action\.([A-Za-z0-9_][A-Za-z0-9_.]*)`)
	featureEffectRe = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_]*)Feature\.Effect\.([A-Za-z0-9_][A-Za-z0-9_.]*)`)
	bracketRe       = regexp.MustCompile(`\[([^\[\]]+)\]`)
)

// MatchFeatureAction extracts (feature, action) from the Feature.Action.name
// grammar. The feature name is returned with its Feature suffix stripped; the
// action may retain embedded dots for nested action paths.
func MatchFeatureAction(s string) (feature, action string, ok bool) {
	m := featureActionRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// MatchFeatureEffect extracts (feature, effect) from the Feature.Effect.name
// grammar.
func MatchFeatureEffect(s string) (feature, effect string, ok bool) {
	m := featureEffectRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// MatchBracketContext extracts the content of the first [Bracketed] context
// tag.
func MatchBracketContext(s string) (string, bool) {
	m := bracketRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseStateChange parses the best-effort "property: old -> new" grammar.
// A missing colon or arrow yields partial fields, never an error.
func ParseStateChange(s string) (property, oldValue, newValue string) {
	s = strings.TrimSpace(s)
	rest := s
	if idx := strings.Index(s, ":"); idx >= 0 {
		property = strings.TrimSpace(s[:idx])
		rest = strings.TrimSpace(s[idx+1:])
	} else {
		return s, "", ""
	}
	if idx := strings.Index(rest, "->"); idx >= 0 {
		oldValue = strings.TrimSpace(rest[:idx])
		newValue = strings.TrimSpace(rest[idx+2:])
	} else {
		oldValue = rest
	}
	return property, oldValue, newValue
}

// StripFeatureSuffix removes a trailing "Feature" token from a name, so
// "ReadingLibraryFeature" becomes "ReadingLibrary".
func StripFeatureSuffix(name string) string {
	if name != "Feature" && strings.HasSuffix(name, "Feature") {
		return strings.TrimSuffix(name, "Feature")
	}
	return name
}
