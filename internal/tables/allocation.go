package tables

import (
	"bytes"
	"strings"

	"github.com/tracepulse/tracepulse/internal/model"
	"github.com/tracepulse/tracepulse/internal/xmlrows"
)

// stubLineLimit bounds the number of non-blank lines in a near-empty export
// stub. Empty allocation tables are common when the trace was recorded without
// the allocations instrument.
const stubLineLimit = 4

// ParseAllocations parses the allocations export table into memory events.
// A near-empty stub document yields an empty result rather than a parse error
// so a missing instrument is not misread as zero allocations.
func ParseAllocations(data []byte) ([]model.AllocationEvent, error) {
	if isEmptyStub(data) {
		return nil, nil
	}

	rows, err := xmlrows.NewReader(bytes.NewReader(data), "allocation").ReadAll()
	if err != nil {
		return nil, err
	}

	events := make([]model.AllocationEvent, 0, len(rows))
	for _, row := range rows {
		tsText := row.First("event-time")
		if tsText == "" {
			tsText = row.First("time")
		}
		if tsText == "" {
			continue
		}
		events = append(events, model.AllocationEvent{
			TimestampSeconds: parseTimestamp(tsText),
			Address:          row.First("address"),
			SizeBytes:        parseInt64(row.First("size")),
			Kind:             allocationKind(row.First("event-type")),
		})
	}
	return events, nil
}

// isEmptyStub reports whether the document is a bare result tag with no rows:
// a small number of non-blank lines bracketed by a query-result element.
func isEmptyStub(data []byte) bool {
	if !bytes.Contains(data, []byte("trace-query-result")) {
		return false
	}
	nonBlank := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}
	return nonBlank <= stubLineLimit
}

// allocationKind maps the exported event-type onto an allocation kind.
// Unknown types count as allocations so sizes are never silently dropped.
func allocationKind(eventType string) model.AllocationKind {
	lower := strings.ToLower(strings.TrimSpace(eventType))
	switch {
	case strings.Contains(lower, "free"), strings.Contains(lower, "dealloc"):
		return model.AllocKindDeallocate
	case strings.Contains(lower, "realloc"):
		return model.AllocKindRealloc
	default:
		return model.AllocKindAllocate
	}
}
