package extract

import "testing"

func TestMatchFeatureAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input       string
		wantFeature string
		wantAction  string
		wantOK      bool
	}{
		{"ReadingLibraryFeature.Action.selectArticle", "ReadingLibrary", "selectArticle", true},
		{"FeedFeature.Action.row.tapped", "Feed", "row.tapped", true}, // nested action path keeps dots
		{"prefix text FeedFeature.Action.load suffix", "Feed", "load", true},
		{"no grammar here", "", "", false},
		{"Feature.Action.load", "", "", false}, // bare Feature token has no name
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			feature, action, ok := MatchFeatureAction(tt.input)
			if ok != tt.wantOK || feature != tt.wantFeature || action != tt.wantAction {
				t.Errorf("MatchFeatureAction(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.input, feature, action, ok, tt.wantFeature, tt.wantAction, tt.wantOK)
			}
		})
	}
}

func TestMatchFeatureEffect(t *testing.T) {
	t.Parallel()
	feature, effect, ok := MatchFeatureEffect("TimerFeature.Effect.tick")
	if !ok || feature != "Timer" || effect != "tick" {
		t.Errorf("MatchFeatureEffect = (%q, %q, %v), want (Timer, tick, true)", feature, effect, ok)
	}
}

func TestMatchBracketContext(t *testing.T) {
	t.Parallel()
	tag, ok := MatchBracketContext("[Scroll] something else")
	if !ok || tag != "Scroll" {
		t.Errorf("MatchBracketContext = (%q, %v), want (Scroll, true)", tag, ok)
	}
	if _, ok := MatchBracketContext("no brackets"); ok {
		t.Error("MatchBracketContext should not match text without brackets")
	}
}

func TestParseStateChange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantProp string
		wantOld  string
		wantNew  string
	}{
		{"full grammar", "theme: light -> dark", "theme", "light", "dark"},
		{"missing arrow", "theme: light", "theme", "light", ""},
		{"missing colon", "just some text", "just some text", "", ""},
		{"empty", "", "", "", ""},
		{"arrow in value", "path: /a -> /b", "path", "/a", "/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, oldV, newV := ParseStateChange(tt.input)
			if prop != tt.wantProp || oldV != tt.wantOld || newV != tt.wantNew {
				t.Errorf("ParseStateChange(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.input, prop, oldV, newV, tt.wantProp, tt.wantOld, tt.wantNew)
			}
		})
	}
}

func TestStripFeatureSuffix(t *testing.T) {
	t.Parallel()
	if got := StripFeatureSuffix("ReadingLibraryFeature"); got != "ReadingLibrary" {
		t.Errorf("StripFeatureSuffix = %q, want ReadingLibrary", got)
	}
	if got := StripFeatureSuffix("Feature"); got != "Feature" {
		t.Errorf("bare Feature token should be left alone, got %q", got)
	}
	if got := StripFeatureSuffix("Scroll"); got != "Scroll" {
		t.Errorf("StripFeatureSuffix(%q) = %q, want unchanged", "Scroll", got)
	}
}
