// Package tables turns exported XML documents into typed record sequences,
// one parser per export table schema.
package tables

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tracepulse/tracepulse/internal/model"
	"github.com/tracepulse/tracepulse/internal/xmlrows"
)

// messageFields is the family of free-text metadata element names whose
// contents are space-joined into one message string.
var messageFields = []string{"message", "narrative", "string-value", "format-string"}

// ParseSignposts parses the os-signpost export table into markers.
func ParseSignposts(data []byte) ([]model.Marker, error) {
	rows, err := xmlrows.NewReader(bytes.NewReader(data), "signpost").ReadAll()
	if err != nil {
		return nil, err
	}

	markers := make([]model.Marker, 0, len(rows))
	for _, row := range rows {
		tsText := row.First("event-time")
		if tsText == "" {
			continue
		}
		kind := markerKind(row.First("event-type"))
		name := row.First("signpost-name")
		message := row.Join(messageFields...)

		markers = append(markers, model.Marker{
			ID:               markerID(row, tsText, name, kind),
			TimestampSeconds: parseTimestamp(tsText),
			Subsystem:        row.First("subsystem"),
			Category:         row.First("category"),
			Name:             name,
			Message:          message,
			Kind:             kind,
		})
	}
	return markers, nil
}

// markerKind maps the exported event-type column onto the three marker kinds.
// Unknown types are treated as instants so no row is dropped.
func markerKind(eventType string) model.MarkerKind {
	switch strings.TrimSpace(eventType) {
	case "Begin":
		return model.KindBegin
	case "End":
		return model.KindEnd
	default:
		return model.KindInstant
	}
}

// markerID synthesizes a marker id. An exported identifier column wins when
// present since it is already unique per logical span. Otherwise Begin/End
// markers key on the span's identity fields, which are stable across the pair,
// and instants append timestamp and kind for same-instant disambiguation.
func markerID(row xmlrows.Row, tsText, name string, kind model.MarkerKind) string {
	if id := row.First("identifier"); id != "" {
		return id
	}
	span := fmt.Sprintf("%s|%s|%s", row.First("subsystem"), row.First("category"), name)
	if kind == model.KindInstant || name == "" {
		return fmt.Sprintf("%s|%s|%s", span, tsText, kind)
	}
	return span
}
