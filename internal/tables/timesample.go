package tables

import (
	"bytes"

	"github.com/tracepulse/tracepulse/internal/model"
	"github.com/tracepulse/tracepulse/internal/xmlrows"
)

// ParseTimeSamples parses the time-profile export table into CPU samples.
// Missing thread ids and weights default to zero rather than failing the row.
func ParseTimeSamples(data []byte) ([]model.TimeProfilerSample, error) {
	rows, err := xmlrows.NewReader(bytes.NewReader(data), "time-profile").ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]model.TimeProfilerSample, 0, len(rows))
	for _, row := range rows {
		tsText := row.First("sample-time")
		if tsText == "" {
			tsText = row.First("event-time")
		}
		if tsText == "" {
			continue
		}
		samples = append(samples, model.TimeProfilerSample{
			TimestampSeconds: parseTimestamp(tsText),
			ThreadID:         parseInt64(row.First("tid")),
			ThreadState:      row.First("thread-state"),
			SampleType:       row.First("sample-type"),
			Weight:           ParseDurationText(row.First("weight")),
		})
	}
	return samples, nil
}
