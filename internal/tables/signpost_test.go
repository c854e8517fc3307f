package tables

import (
	"math"
	"testing"

	"github.com/tracepulse/tracepulse/internal/model"
)

const signpostDoc = `<?xml version="1.0"?>
<trace-query-result>
  <node>
    <row>
      <event-time id="1" fmt="00:01.000.000">1000000000</event-time>
      <subsystem id="2" fmt="com.example.app"/>
      <category id="3" fmt="ComposableArchitecture"/>
      <signpost-name id="4" fmt="ReadingLibraryFeature.Action.selectArticle"/>
      <event-type id="5" fmt="Begin"/>
    </row>
    <row>
      <event-time fmt="00:01.050.000">1050000000</event-time>
      <subsystem ref="2"/>
      <category ref="3"/>
      <signpost-name ref="4"/>
      <event-type id="6" fmt="End"/>
    </row>
    <row>
      <event-time fmt="00:02.000.000">2000000000</event-time>
      <subsystem ref="2"/>
      <category ref="3"/>
      <signpost-name id="7" fmt="Action"/>
      <event-type id="8" fmt="Event"/>
      <message id="9" fmt="[Scroll] ReadingLibraryFeature.Action.sidebarSelectionChanged"/>
    </row>
  </node>
</trace-query-result>`

func TestParseSignposts(t *testing.T) {
	t.Parallel()
	markers, err := ParseSignposts([]byte(signpostDoc))
	if err != nil {
		t.Fatalf("ParseSignposts: %v", err)
	}
	if len(markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(markers))
	}

	begin, end, instant := markers[0], markers[1], markers[2]

	if begin.Kind != model.KindBegin || end.Kind != model.KindEnd || instant.Kind != model.KindInstant {
		t.Errorf("kinds = %v/%v/%v, want Begin/End/Instant", begin.Kind, end.Kind, instant.Kind)
	}
	if begin.ID != end.ID {
		t.Errorf("Begin/End of one span must share an id: %q vs %q", begin.ID, end.ID)
	}
	if begin.ID == instant.ID {
		t.Error("instant marker should not collide with the span id")
	}
	if math.Abs(begin.TimestampSeconds-1.0) > 1e-9 {
		t.Errorf("begin timestamp = %v, want 1.0", begin.TimestampSeconds)
	}
	if math.Abs(end.TimestampSeconds-1.05) > 1e-9 {
		t.Errorf("end timestamp = %v, want 1.05", end.TimestampSeconds)
	}
	if begin.Subsystem != "com.example.app" {
		t.Errorf("subsystem = %q, want com.example.app", begin.Subsystem)
	}
	if instant.Message != "[Scroll] ReadingLibraryFeature.Action.sidebarSelectionChanged" {
		t.Errorf("message = %q", instant.Message)
	}
}

func TestParseSignposts_ExportedIdentifierWins(t *testing.T) {
	t.Parallel()
	doc := `<trace-query-result><node>
		<row>
			<event-time>1</event-time>
			<identifier fmt="span-9"/>
			<signpost-name fmt="FeedFeature.Action.load"/>
			<event-type fmt="Begin"/>
		</row>
	</node></trace-query-result>`
	markers, err := ParseSignposts([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSignposts: %v", err)
	}
	if len(markers) != 1 || markers[0].ID != "span-9" {
		t.Fatalf("markers = %+v, want single marker with id span-9", markers)
	}
}

func TestParseSignposts_JoinsMetadataFamily(t *testing.T) {
	t.Parallel()
	doc := `<trace-query-result><node>
		<row>
			<event-time>5</event-time>
			<signpost-name fmt="FeedFeature.Action.load"/>
			<event-type fmt="Event"/>
			<message fmt="first"/>
			<string-value fmt="second"/>
		</row>
	</node></trace-query-result>`
	markers, err := ParseSignposts([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSignposts: %v", err)
	}
	if markers[0].Message != "first second" {
		t.Errorf("message = %q, want %q", markers[0].Message, "first second")
	}
}

func TestParseSignposts_RowWithoutTimestampSkipped(t *testing.T) {
	t.Parallel()
	doc := `<trace-query-result><node>
		<row><signpost-name fmt="x"/><event-type fmt="Begin"/></row>
	</node></trace-query-result>`
	markers, err := ParseSignposts([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSignposts: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("markers = %d, want 0", len(markers))
	}
}
