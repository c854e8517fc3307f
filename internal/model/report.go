package model

import "time"

// Report is the persisted analysis shape. Round-tripping it through JSON
// serialization reproduces an equivalent object field-for-field.
type Report struct {
	Metadata        ReportMetadata `json:"metadata"`
	Actions         []Action       `json:"actions"`
	Effects         []Effect       `json:"effects"`
	StateChanges    []StateChange  `json:"stateChanges"`
	Metrics         Metrics        `json:"metrics"`
	ComplexityScore int            `json:"complexityScore"`
	Recommendations []string       `json:"recommendations"`
}

// ReportMetadata describes where an analysis came from and when it ran.
type ReportMetadata struct {
	Name       string     `json:"name"`
	TracePath  string     `json:"tracePath"`
	AnalyzedAt time.Time  `json:"analyzedAt"`
	StoredAt   *time.Time `json:"storedAt,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Device     string     `json:"device,omitempty"`
	TraceStart string     `json:"traceStart,omitempty"`
}

// FeatureStats aggregates action metrics for one feature.
type FeatureStats struct {
	Feature       string   `json:"feature"`
	ActionCount   int      `json:"actionCount"`
	SlowCount     int      `json:"slowCount"`
	TotalSeconds  float64  `json:"totalSeconds"`
	MaxSeconds    float64  `json:"maxSeconds"`
	TopWaitStates []string `json:"topWaitStates,omitempty"`
}

// Metrics holds the derived timing distribution for one analysis.
type Metrics struct {
	TotalActions      int            `json:"totalActions"`
	SlowActions       int            `json:"slowActions"`
	TotalEffects      int            `json:"totalEffects"`
	LongEffects       int            `json:"longEffects"`
	TotalStateChanges int            `json:"totalStateChanges"`
	AvgActionSeconds  float64        `json:"avgActionSeconds"`
	P50ActionSeconds  float64        `json:"p50ActionSeconds"`
	P95ActionSeconds  float64        `json:"p95ActionSeconds"`
	MaxActionSeconds  float64        `json:"maxActionSeconds"`
	NetAllocBytes     int64          `json:"netAllocationBytes"`
	PerFeature        []FeatureStats `json:"perFeature,omitempty"`
}
