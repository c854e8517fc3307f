package extract

import (
	"math"
	"testing"

	"github.com/tracepulse/tracepulse/internal/model"
)

func TestExtract_PairsBeginEndIntoAction(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "a1", Kind: model.KindBegin, Name: "ReadingLibraryFeature.Action.selectArticle", Subsystem: "com.example.app", TimestampSeconds: 1.000},
		{ID: "a1", Kind: model.KindEnd, Name: "ReadingLibraryFeature.Action.selectArticle", Subsystem: "com.example.app", TimestampSeconds: 1.050},
	}
	res := Extract(markers)
	if len(res.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(res.Actions))
	}
	a := res.Actions[0]
	if a.FeatureName != "ReadingLibrary" {
		t.Errorf("FeatureName = %q, want ReadingLibrary", a.FeatureName)
	}
	if a.ActionName != "selectArticle" {
		t.Errorf("ActionName = %q, want selectArticle", a.ActionName)
	}
	if math.Abs(a.DurationSeconds-0.050) > 1e-9 {
		t.Errorf("DurationSeconds = %v, want 0.050", a.DurationSeconds)
	}
	if !a.IsSlow() {
		t.Error("a 50ms action must be slow")
	}
}

func TestExtract_InstantActionFromMessage(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{
			ID:               "i1",
			Kind:             model.KindInstant,
			Name:             "Action",
			Subsystem:        "com.example.app",
			Message:          "[Scroll] ReadingLibraryFeature.Action.sidebarSelectionChanged",
			TimestampSeconds: 2.0,
		},
	}
	res := Extract(markers)
	if len(res.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(res.Actions))
	}
	a := res.Actions[0]
	if a.FeatureName != "ReadingLibrary" {
		t.Errorf("FeatureName = %q, want ReadingLibrary", a.FeatureName)
	}
	if a.ActionName != "sidebarSelectionChanged" {
		t.Errorf("ActionName = %q, want sidebarSelectionChanged", a.ActionName)
	}
	if a.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %v, want 0", a.DurationSeconds)
	}
}

func TestExtract_DanglingBeginIsFlushed(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "a1", Kind: model.KindBegin, Name: "FeedFeature.Action.load", Subsystem: "com.example.app", TimestampSeconds: 1.0},
	}
	res := Extract(markers)
	if len(res.Actions) != 1 {
		t.Fatalf("dangling begin must not be dropped: actions = %d, want 1", len(res.Actions))
	}
	if res.Actions[0].DurationSeconds != 0 {
		t.Errorf("flushed action duration = %v, want 0", res.Actions[0].DurationSeconds)
	}
}

func TestExtract_OverlappingBeginsShareIDWithoutLoss(t *testing.T) {
	t.Parallel()
	// Same-name spans overlap, so both Begins carry the synthesized span id.
	markers := []model.Marker{
		{ID: "a1", Kind: model.KindBegin, Name: "FeedFeature.Action.load", Subsystem: "com.example.app", TimestampSeconds: 1.0},
		{ID: "a1", Kind: model.KindBegin, Name: "FeedFeature.Action.load", Subsystem: "com.example.app", TimestampSeconds: 2.0},
		{ID: "a1", Kind: model.KindEnd, Name: "FeedFeature.Action.load", Subsystem: "com.example.app", TimestampSeconds: 3.0},
	}
	res := Extract(markers)
	if len(res.Actions) != 2 {
		t.Fatalf("actions = %d, want 2 (one paired, one flushed)", len(res.Actions))
	}
	first, second := res.Actions[0], res.Actions[1]
	if first.TimestampSeconds != 1.0 || first.DurationSeconds != 0 {
		t.Errorf("displaced begin = (t=%v, d=%v), want flushed zero-duration at t=1",
			first.TimestampSeconds, first.DurationSeconds)
	}
	if second.TimestampSeconds != 2.0 || math.Abs(second.DurationSeconds-1.0) > 1e-9 {
		t.Errorf("paired span = (t=%v, d=%v), want t=2 d=1", second.TimestampSeconds, second.DurationSeconds)
	}
}

func TestExtract_OverlappingEffectBeginsShareIDWithoutLoss(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "e1", Kind: model.KindBegin, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.0},
		{ID: "e1", Kind: model.KindBegin, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.2},
		{ID: "e1", Kind: model.KindEnd, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.9},
	}
	res := Extract(markers)
	if len(res.Effects) != 2 {
		t.Fatalf("effects = %d, want 2 (one paired, one flushed)", len(res.Effects))
	}
	first, second := res.Effects[0], res.Effects[1]
	if first.StartSeconds != 1.0 || first.DurationSeconds() <= 0 {
		t.Errorf("displaced begin = (t=%v, d=%v), want minimal-duration flush at t=1",
			first.StartSeconds, first.DurationSeconds())
	}
	if math.Abs(second.DurationSeconds()-0.7) > 1e-9 {
		t.Errorf("paired span duration = %v, want 0.7", second.DurationSeconds())
	}
}

func TestExtract_NamingFallbacks(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "x", Kind: model.KindInstant, Name: "ReducerRun", Subsystem: "io.example.reader", Message: "nothing useful", TimestampSeconds: 1.0},
	}
	res := Extract(markers)
	if len(res.Actions) != 1 {
		t.Fatalf("marker must not be dropped for failed naming: actions = %d", len(res.Actions))
	}
	a := res.Actions[0]
	if a.FeatureName != UnknownFeature || a.ActionName != UnknownAction {
		t.Errorf("fallback names = (%q, %q), want (%q, %q)", a.FeatureName, a.ActionName, UnknownFeature, UnknownAction)
	}
}

func TestExtract_EffectPairing(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "e1", Kind: model.KindBegin, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.0},
		{ID: "e1", Kind: model.KindEnd, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.8},
	}
	res := Extract(markers)
	if len(res.Effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(res.Effects))
	}
	e := res.Effects[0]
	if e.FeatureName != "Timer" || e.Name != "tick" {
		t.Errorf("effect identity = (%q, %q), want (Timer, tick)", e.FeatureName, e.Name)
	}
	if math.Abs(e.DurationSeconds()-0.8) > 1e-9 {
		t.Errorf("duration = %v, want 0.8", e.DurationSeconds())
	}
	if !e.IsLongRunning() {
		t.Error("an 800ms effect must be long-running")
	}
}

func TestExtract_EffectInstantClosesOpenBegin(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "e1", Kind: model.KindBegin, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.0},
		{ID: "e1", Kind: model.KindInstant, Name: "TimerFeature.Effect.tick", Subsystem: "com.example.app", TimestampSeconds: 1.6},
	}
	res := Extract(markers)
	if len(res.Effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(res.Effects))
	}
	if got := res.Effects[0].DurationSeconds(); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("instant-closed duration = %v, want 0.6", got)
	}
}

func TestExtract_BareEffectInstantGetsMinimalDuration(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "e2", Kind: model.KindInstant, Name: "TimerFeature.Effect.fired", Subsystem: "com.example.app", TimestampSeconds: 2.0},
	}
	res := Extract(markers)
	if len(res.Effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(res.Effects))
	}
	d := res.Effects[0].DurationSeconds()
	if d <= 0 {
		t.Errorf("effect duration = %v, must never be exactly zero", d)
	}
	if d > model.MinEffectDuration*1.5 {
		t.Errorf("bare instant duration = %v, want the minimal epsilon", d)
	}
}

func TestExtract_DanglingEffectBeginFlushed(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "e3", Kind: model.KindBegin, Name: "DownloadFeature.Effect.fetch", Subsystem: "com.example.app", TimestampSeconds: 3.0},
	}
	res := Extract(markers)
	if len(res.Effects) != 1 {
		t.Fatalf("dangling effect begin must be flushed: effects = %d", len(res.Effects))
	}
	if d := res.Effects[0].DurationSeconds(); d <= 0 {
		t.Errorf("flushed effect duration = %v, want minimal positive", d)
	}
}

func TestExtract_StateChange(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{
			ID:               "s1",
			Kind:             model.KindInstant,
			Name:             "SharedStateChange",
			Subsystem:        "com.example.app",
			Message:          "[SettingsFeature] theme: light -> dark",
			TimestampSeconds: 4.0,
		},
	}
	res := Extract(markers)
	if len(res.StateChanges) != 1 {
		t.Fatalf("state changes = %d, want 1", len(res.StateChanges))
	}
	sc := res.StateChanges[0]
	if sc.FeatureName != "Settings" {
		t.Errorf("FeatureName = %q, want Settings", sc.FeatureName)
	}
	if sc.PropertyName != "theme" || sc.OldValue != "light" || sc.NewValue != "dark" {
		t.Errorf("parsed change = (%q, %q, %q), want (theme, light, dark)", sc.PropertyName, sc.OldValue, sc.NewValue)
	}
}

func TestExtract_StateChangeDegradesGracefully(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{ID: "s2", Kind: model.KindInstant, Name: "StateUpdate", Subsystem: "com.example.app", Message: "somethingUnstructured", TimestampSeconds: 5.0},
	}
	res := Extract(markers)
	if len(res.StateChanges) != 1 {
		t.Fatalf("state changes = %d, want 1", len(res.StateChanges))
	}
	sc := res.StateChanges[0]
	if sc.PropertyName != "somethingUnstructured" || sc.OldValue != "" || sc.NewValue != "" {
		t.Errorf("partial parse = (%q, %q, %q), want (somethingUnstructured, , )", sc.PropertyName, sc.OldValue, sc.NewValue)
	}
}

func TestExtract_ResortsByTimestamp(t *testing.T) {
	t.Parallel()
	// The End for a1 arrives after b1's whole span, so naive document order
	// would put a1 second.
	markers := []model.Marker{
		{ID: "a1", Kind: model.KindBegin, Name: "FeedFeature.Action.load", Subsystem: "com.example.app", TimestampSeconds: 1.0},
		{ID: "b1", Kind: model.KindBegin, Name: "FeedFeature.Action.refresh", Subsystem: "com.example.app", TimestampSeconds: 2.0},
		{ID: "b1", Kind: model.KindEnd, Name: "FeedFeature.Action.refresh", Subsystem: "com.example.app", TimestampSeconds: 2.1},
		{ID: "a1", Kind: model.KindEnd, Name: "FeedFeature.Action.load", Subsystem: "com.example.app", TimestampSeconds: 5.0},
	}
	res := Extract(markers)
	if len(res.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(res.Actions))
	}
	if res.Actions[0].ActionName != "load" || res.Actions[1].ActionName != "refresh" {
		t.Errorf("actions not sorted by timestamp: %q then %q", res.Actions[0].ActionName, res.Actions[1].ActionName)
	}
}
