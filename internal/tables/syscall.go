package tables

import (
	"bytes"

	"github.com/tracepulse/tracepulse/internal/model"
	"github.com/tracepulse/tracepulse/internal/xmlrows"
)

// ParseSystemCalls parses the syscall export table. Wait-time components are
// optional in the export schema and default to zero when absent, in which case
// downstream wait-state classification degrades to the CPU-bound fallback.
func ParseSystemCalls(data []byte) ([]model.SystemCall, error) {
	rows, err := xmlrows.NewReader(bytes.NewReader(data), "syscall").ReadAll()
	if err != nil {
		return nil, err
	}

	calls := make([]model.SystemCall, 0, len(rows))
	for _, row := range rows {
		tsText := row.First("start-time")
		if tsText == "" {
			tsText = row.First("event-time")
		}
		if tsText == "" {
			continue
		}
		name := row.First("syscall")
		if name == "" {
			name = row.First("call-name")
		}
		calls = append(calls, model.SystemCall{
			TimestampSeconds: parseTimestamp(tsText),
			ThreadID:         parseInt64(row.First("tid")),
			CallName:         name,
			DurationSeconds:  ParseDurationText(row.First("duration")),
			WaitTimeSeconds:  ParseDurationText(row.First("wait-time")),
			ReturnValue:      row.First("return-value"),
		})
	}
	return calls, nil
}
