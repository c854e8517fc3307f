package model

// MarkerKind distinguishes the three signpost event shapes.
type MarkerKind string

const (
	KindBegin   MarkerKind = "Begin"
	KindEnd     MarkerKind = "End"
	KindInstant MarkerKind = "Instant"
)

// Marker represents one exported signpost row.
// It is the canonical input type for domain-event extraction: created once per
// parsed XML row, immutable, consumed by the extractor and discarded.
type Marker struct {
	ID               string // synthetic, stable across a Begin/End pair
	TimestampSeconds float64
	Subsystem        string
	Category         string
	Name             string
	Message          string // free-text payload, space-joined metadata fields
	Kind             MarkerKind
}

// CPUStateSample is one entry of an action/effect CPU-state histogram.
type CPUStateSample struct {
	Label           string  `json:"label"`
	PercentOfWindow float64 `json:"percentOfWindow"`
}

// Action is a reconstructed application action with a feature identity
// and duration. Enrichment fields are populated only for slow actions.
type Action struct {
	FeatureName      string           `json:"featureName"`
	ActionName       string           `json:"actionName"`
	TimestampSeconds float64          `json:"timestampSeconds"`
	DurationSeconds  float64          `json:"durationSeconds"` // 0 for instantaneous
	RawMetadata      string           `json:"rawMetadata,omitempty"`
	CPUStateSamples  []CPUStateSample `json:"cpuStateSamples,omitempty"`
	DominantWait     string           `json:"dominantWaitState,omitempty"`
	NetAllocBytes    int64            `json:"netAllocationBytes"`
}

// IsSlow reports whether the action exceeds the 60 fps frame budget.
// The comparison is strictly greater-than: exactly 16 ms is not slow.
func (a Action) IsSlow() bool {
	return a.DurationSeconds > SlowActionThreshold
}

// Effect is a reconstructed long-running side effect.
type Effect struct {
	Name            string           `json:"name"`
	FeatureName     string           `json:"featureName"`
	StartSeconds    float64          `json:"startSeconds"`
	EndSeconds      float64          `json:"endSeconds"`
	CPUStateSamples []CPUStateSample `json:"cpuStateSamples,omitempty"`
	DominantWait    string           `json:"dominantWaitState,omitempty"`
	NetAllocBytes   int64            `json:"netAllocationBytes"`
}

// DurationSeconds returns the effect's duration derived from its endpoints.
func (e Effect) DurationSeconds() float64 {
	return e.EndSeconds - e.StartSeconds
}

// IsLongRunning reports whether the effect exceeds the 500 ms budget,
// strictly greater-than.
func (e Effect) IsLongRunning() bool {
	return e.DurationSeconds() > LongEffectThreshold
}

// StateChange is an observed mutation of cross-feature state, parsed from a
// best-effort "property: old -> new" text grammar.
type StateChange struct {
	FeatureName      string  `json:"featureName"`
	TimestampSeconds float64 `json:"timestampSeconds"`
	PropertyName     string  `json:"propertyName"`
	OldValue         string  `json:"oldValue,omitempty"`
	NewValue         string  `json:"newValue,omitempty"`
}

// TimeProfilerSample is one auxiliary CPU-sample row.
type TimeProfilerSample struct {
	TimestampSeconds float64
	ThreadID         int64
	ThreadState      string // free text, e.g. "Running", "Blocked"
	SampleType       string
	Weight           float64
}

// SystemCall is one auxiliary syscall row.
type SystemCall struct {
	TimestampSeconds float64
	ThreadID         int64
	CallName         string
	DurationSeconds  float64
	WaitTimeSeconds  float64
	ReturnValue      string
}

// AllocationKind distinguishes allocation event types.
type AllocationKind string

const (
	AllocKindAllocate   AllocationKind = "Allocate"
	AllocKindDeallocate AllocationKind = "Deallocate"
	AllocKindRealloc    AllocationKind = "Reallocate"
)

// AllocationEvent is one auxiliary memory row.
type AllocationEvent struct {
	TimestampSeconds float64
	Address          string
	SizeBytes        int64
	Kind             AllocationKind
}
