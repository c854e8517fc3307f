package extract

import (
	"reflect"
	"testing"

	"github.com/tracepulse/tracepulse/internal/model"
)

func TestIsRelevant_Precedence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		marker model.Marker
		want   bool
	}{
		{
			"app bundle subsystem",
			model.Marker{Subsystem: "com.example.app", Name: "anything"},
			true,
		},
		{
			"architecture category",
			model.Marker{Subsystem: "", Category: "ComposableArchitecture", Name: "x"},
			true,
		},
		{
			"instrumentation name pattern",
			model.Marker{Name: "ReadingLibraryFeature.Action.selectArticle"},
			true,
		},
		{
			"message grammar",
			model.Marker{Name: "Action", Message: "[Scroll] ReadingLibraryFeature.Action.sidebarSelectionChanged"},
			true,
		},
		{
			"apple subsystem excluded",
			model.Marker{Subsystem: "com.apple.coreanimation", Name: "CommitTransaction"},
			false,
		},
		{
			"framework event name excluded",
			model.Marker{Subsystem: "", Name: "CAFenceWaitCommit"},
			false,
		},
		{
			// App signposts can overlap OS naming; app checks run first.
			"app subsystem wins over denylisted name",
			model.Marker{Subsystem: "com.example.app", Name: "CommitTransaction"},
			true,
		},
		{
			"final heuristic dotted subsystem with keyword",
			model.Marker{Subsystem: "io.example.reader", Name: "ReducerRun"},
			true,
		},
		{
			"unmatched marker dropped",
			model.Marker{Subsystem: "io.example.reader", Name: "networkRequest"},
			false,
		},
		{
			"undotted subsystem fails final heuristic",
			model.Marker{Subsystem: "example", Name: "StoreThing"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRelevant(tt.marker); got != tt.want {
				t.Errorf("IsRelevant(%+v) = %v, want %v", tt.marker, got, tt.want)
			}
		})
	}
}

func TestRelevant_IsIdempotent(t *testing.T) {
	t.Parallel()
	markers := []model.Marker{
		{Subsystem: "com.example.app", Name: "a"},
		{Subsystem: "com.apple.uikit", Name: "HIDEventDispatch"},
		{Category: "ComposableArchitecture", Name: "b"},
		{Name: "plain"},
	}
	once := Relevant(markers)
	twice := Relevant(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("classification is not a pure filter:\n once %+v\ntwice %+v", once, twice)
	}
	if len(once) != 2 {
		t.Errorf("relevant count = %d, want 2", len(once))
	}
}
