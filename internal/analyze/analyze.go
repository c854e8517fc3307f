// Package analyze sequences the full trace analysis pipeline: export, parse,
// extract, filter, enrich, and package into a report.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tracepulse/tracepulse/internal/enrich"
	"github.com/tracepulse/tracepulse/internal/extract"
	"github.com/tracepulse/tracepulse/internal/model"
	"github.com/tracepulse/tracepulse/internal/tables"
	"github.com/tracepulse/tracepulse/internal/xctrace"
)

// Source describes one trace to analyze. Runner defaults to the real export
// binary; tests substitute a fake.
type Source struct {
	TracePath string
	Runner    xctrace.Runner
	Schemas   xctrace.Schemas
}

// Parse runs the whole pipeline for one trace. Fatal conditions surface as a
// typed *Error; everything else degrades to best-effort partial data.
func Parse(ctx context.Context, src Source, filters Filters) (*model.Report, error) {
	if _, err := os.Stat(src.TracePath); err != nil {
		return nil, &Error{
			Kind:    KindTraceMissing,
			Message: fmt.Sprintf("trace file %s does not exist", src.TracePath),
			Err:     err,
		}
	}
	runner := src.Runner
	if runner == nil {
		runner = xctrace.NewCommandRunner("")
	}
	schemas := src.Schemas
	if schemas == (xctrace.Schemas{}) {
		schemas = xctrace.DefaultSchemas()
	}

	md := xctrace.FetchMetadata(ctx, runner, src.TracePath)

	export, err := xctrace.ExportAll(ctx, runner, src.TracePath, schemas)
	if err != nil {
		var exportErr *xctrace.ExportError
		if errors.As(err, &exportErr) {
			return nil, &Error{
				Kind:     KindExportFailed,
				Table:    exportErr.Schema,
				ExitCode: exportErr.ExitCode,
				Message:  fmt.Sprintf("signpost export failed with exit code %d", exportErr.ExitCode),
				Err:      err,
			}
		}
		return nil, &Error{Kind: KindExportFailed, Message: "signpost export failed", Err: err}
	}

	markers, err := tables.ParseSignposts(export.Signpost)
	if err != nil {
		return nil, &Error{
			Kind:    KindParseFailed,
			Table:   schemas.Signpost,
			Message: fmt.Sprintf("signpost table is not parseable: %v", err),
			Err:     err,
		}
	}

	series := parseAuxiliary(export)

	relevant := extract.Relevant(markers)
	if len(relevant) == 0 {
		msg := fmt.Sprintf("trace contains %d signpost markers but none match application instrumentation", len(markers))
		if filters.Feature != "" {
			msg += fmt.Sprintf(" (feature filter %q was requested)", filters.Feature)
		}
		return nil, &Error{Kind: KindNoRelevantMarkers, Message: msg}
	}

	result := filters.Apply(extract.Extract(relevant))

	actions := enrich.Actions(result.Actions, series)
	effects := enrich.Effects(result.Effects, series)

	metrics := computeMetrics(actions, effects, result.StateChanges)

	return &model.Report{
		Metadata: model.ReportMetadata{
			Name:       strings.TrimSuffix(filepath.Base(src.TracePath), filepath.Ext(src.TracePath)),
			TracePath:  src.TracePath,
			AnalyzedAt: time.Now().UTC(),
			Device:     md.Device,
			TraceStart: md.StartDate,
		},
		Actions:         actions,
		Effects:         effects,
		StateChanges:    result.StateChanges,
		Metrics:         metrics,
		ComplexityScore: complexityScore(metrics),
		Recommendations: recommendations(actions, effects, metrics),
	}, nil
}

// parseAuxiliary parses the three auxiliary tables, each independently
// best-effort: a malformed document degrades to an absent series.
func parseAuxiliary(export *xctrace.Export) enrich.Series {
	var series enrich.Series
	var err error

	if export.TimeProfile != nil {
		if series.Samples, err = tables.ParseTimeSamples(export.TimeProfile); err != nil {
			log.Printf("analyze: time-profile table unusable, skipping enrichment source: %v", err)
			series.Samples = nil
		}
	}
	if export.Syscall != nil {
		if series.Syscalls, err = tables.ParseSystemCalls(export.Syscall); err != nil {
			log.Printf("analyze: syscall table unusable, skipping enrichment source: %v", err)
			series.Syscalls = nil
		}
	}
	if export.Allocation != nil {
		if series.Allocations, err = tables.ParseAllocations(export.Allocation); err != nil {
			log.Printf("analyze: allocation table unusable, skipping enrichment source: %v", err)
			series.Allocations = nil
		}
	}
	return series
}
