package model

// Enrichable gives the metrics aggregation helper uniform read access to the
// enrichment facets shared by Action and Effect. Core extraction and
// correlation operate on the concrete types directly.
type Enrichable interface {
	Feature() string
	CPUStates() []CPUStateSample
	WaitState() string
	AllocationDelta() int64
}

// Feature implements Enrichable.
func (a Action) Feature() string { return a.FeatureName }

// CPUStates implements Enrichable.
func (a Action) CPUStates() []CPUStateSample { return a.CPUStateSamples }

// WaitState implements Enrichable.
func (a Action) WaitState() string { return a.DominantWait }

// AllocationDelta implements Enrichable.
func (a Action) AllocationDelta() int64 { return a.NetAllocBytes }

// Feature implements Enrichable.
func (e Effect) Feature() string { return e.FeatureName }

// CPUStates implements Enrichable.
func (e Effect) CPUStates() []CPUStateSample { return e.CPUStateSamples }

// WaitState implements Enrichable.
func (e Effect) WaitState() string { return e.DominantWait }

// AllocationDelta implements Enrichable.
func (e Effect) AllocationDelta() int64 { return e.NetAllocBytes }
