package analyze

import "fmt"

// Kind distinguishes the fatal error taxonomy so callers can assert on the
// error kind, not just its presence.
type Kind int

const (
	// KindTraceMissing: the trace path does not exist.
	KindTraceMissing Kind = iota + 1
	// KindExportFailed: the signpost export process exited non-zero.
	KindExportFailed
	// KindParseFailed: the signpost table was not well-formed XML.
	KindParseFailed
	// KindNoRelevantMarkers: signposts parsed but none passed domain
	// classification. Distinct from a trace that could not be read at all.
	KindNoRelevantMarkers
)

// Error is a fatal analysis error. Non-fatal ambiguities never surface here;
// they are absorbed locally with documented defaults.
type Error struct {
	Kind     Kind
	Table    string // failing table, when applicable
	ExitCode int    // export tool exit code, when applicable
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analyze: %s: %v", e.Message, e.Err)
	}
	return "analyze: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
