package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tracepulse/tracepulse/internal/model"
)

// Markdown renders the report as a markdown document suitable for CI
// artifacts and pull request comments.
func Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Trace Analysis: %s\n\n", report.Metadata.Name)

	fmt.Fprintf(&b, "- **Trace:** `%s`\n", report.Metadata.TracePath)
	fmt.Fprintf(&b, "- **Analyzed:** %s\n", report.Metadata.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	if report.Metadata.Device != "" {
		fmt.Fprintf(&b, "- **Device:** %s\n", report.Metadata.Device)
	}
	if len(report.Metadata.Tags) > 0 {
		fmt.Fprintf(&b, "- **Tags:** %s\n", strings.Join(report.Metadata.Tags, ", "))
	}
	fmt.Fprintf(&b, "- **Complexity score:** %d/100\n\n", report.ComplexityScore)

	m := report.Metrics
	b.WriteString("## Metrics\n\n")
	b.WriteString("| metric | value |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(&b, "| Actions | %d |\n", m.TotalActions)
	fmt.Fprintf(&b, "| Slow actions (>16 ms) | %d |\n", m.SlowActions)
	fmt.Fprintf(&b, "| Effects | %d |\n", m.TotalEffects)
	fmt.Fprintf(&b, "| Long-running effects (>500 ms) | %d |\n", m.LongEffects)
	fmt.Fprintf(&b, "| State changes | %d |\n", m.TotalStateChanges)
	fmt.Fprintf(&b, "| Avg action duration | %s |\n", formatSeconds(m.AvgActionSeconds))
	fmt.Fprintf(&b, "| p50 action duration | %s |\n", formatSeconds(m.P50ActionSeconds))
	fmt.Fprintf(&b, "| p95 action duration | %s |\n", formatSeconds(m.P95ActionSeconds))
	fmt.Fprintf(&b, "| Max action duration | %s |\n", formatSeconds(m.MaxActionSeconds))
	if m.NetAllocBytes != 0 {
		fmt.Fprintf(&b, "| Net allocations | %s |\n", formatAllocBytes(m.NetAllocBytes))
	}
	b.WriteString("\n")

	if len(m.PerFeature) > 0 {
		b.WriteString("## Per-Feature Breakdown\n\n")
		b.WriteString("| feature | actions | slow | total time | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, fs := range m.PerFeature {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %s |\n",
				fs.Feature, fs.ActionCount, fs.SlowCount,
				formatSeconds(fs.TotalSeconds), formatSeconds(fs.MaxSeconds))
		}
		b.WriteString("\n")
	}

	if slow := slowActions(report.Actions); len(slow) > 0 {
		b.WriteString("## Slow Actions\n\n")
		b.WriteString("| action | duration | wait state | net alloc |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, a := range slow {
			fmt.Fprintf(&b, "| %s.%s | %s | %s | %s |\n",
				a.FeatureName, a.ActionName, formatSeconds(a.DurationSeconds),
				orDash(a.DominantWait), allocCell(a.NetAllocBytes))
		}
		b.WriteString("\n")
	}

	if long := longEffects(report.Effects); len(long) > 0 {
		b.WriteString("## Long-Running Effects\n\n")
		b.WriteString("| effect | duration | wait state |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, e := range long {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				e.Name, formatSeconds(e.DurationSeconds()), orDash(e.DominantWait))
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// slowActions returns the slow subset, slowest first.
func slowActions(actions []model.Action) []model.Action {
	var out []model.Action
	for _, a := range actions {
		if a.IsSlow() {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationSeconds > out[j].DurationSeconds
	})
	return out
}

// longEffects returns the long-running subset, longest first.
func longEffects(effects []model.Effect) []model.Effect {
	var out []model.Effect
	for _, e := range effects {
		if e.IsLongRunning() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationSeconds() > out[j].DurationSeconds()
	})
	return out
}

// formatSeconds picks a readable unit for a duration in seconds.
func formatSeconds(s float64) string {
	switch {
	case s >= 1:
		return fmt.Sprintf("%.2f s", s)
	case s >= 0.001:
		return fmt.Sprintf("%.1f ms", s*1000)
	default:
		return fmt.Sprintf("%.0f µs", s*1e6)
	}
}

// formatAllocBytes renders a signed allocation delta with a unit suffix.
func formatAllocBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

func allocCell(n int64) string {
	if n == 0 {
		return "-"
	}
	return formatAllocBytes(n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
