package model

// Load-bearing thresholds shared across extraction, enrichment and reporting.
const (
	// SlowActionThreshold is the 60 fps frame budget in seconds. Actions with
	// a duration strictly greater than this are slow.
	SlowActionThreshold = 0.016

	// LongEffectThreshold marks effects as long-running when their duration is
	// strictly greater than this, in seconds.
	LongEffectThreshold = 0.5

	// MinEffectDuration is the floor applied to instant-derived effects so no
	// effect ever reports exactly zero duration. A display convenience, not a
	// real measurement.
	MinEffectDuration = 0.000001

	// WaitTimeFloor is the minimum total in-window syscall wait time, in
	// seconds, before a window is considered I/O-bound rather than CPU-bound.
	WaitTimeFloor = 0.001
)
