package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracepulse/tracepulse/internal/model"
)

var (
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleCyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleBold   = lipgloss.NewStyle().Bold(true)
)

// Terminal renders a styled summary of the report for interactive use.
func Terminal(report *model.Report) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, styleCyan.Bold(true).Render("  "+report.Metadata.Name))
	lines = append(lines, styleDim.Render("  "+report.Metadata.TracePath))
	if report.Metadata.Device != "" {
		lines = append(lines, styleDim.Render("  "+report.Metadata.Device))
	}
	lines = append(lines, "")

	m := report.Metrics
	lines = append(lines, styleBold.Render("  Metrics"))
	lines = append(lines, statLine("Actions", fmt.Sprintf("%d", m.TotalActions)))
	lines = append(lines, statLine("Slow actions", countColor(m.SlowActions).Render(fmt.Sprintf("%d", m.SlowActions))))
	lines = append(lines, statLine("Effects", fmt.Sprintf("%d", m.TotalEffects)))
	lines = append(lines, statLine("Long effects", countColor(m.LongEffects).Render(fmt.Sprintf("%d", m.LongEffects))))
	lines = append(lines, statLine("State changes", fmt.Sprintf("%d", m.TotalStateChanges)))
	lines = append(lines, statLine("Avg action", formatSeconds(m.AvgActionSeconds)))
	lines = append(lines, statLine("p95 action", formatSeconds(m.P95ActionSeconds)))
	lines = append(lines, statLine("Max action", formatSeconds(m.MaxActionSeconds)))
	if m.NetAllocBytes != 0 {
		lines = append(lines, statLine("Net alloc", formatAllocBytes(m.NetAllocBytes)))
	}
	lines = append(lines, "")

	score := report.ComplexityScore
	lines = append(lines, statLine("Complexity", scoreColor(score).Render(fmt.Sprintf("%d/100", score))))
	lines = append(lines, "")

	if slow := slowActions(report.Actions); len(slow) > 0 {
		lines = append(lines, styleBold.Render("  Slow actions"))
		for _, a := range slow {
			entry := fmt.Sprintf("  %s %s.%s %s",
				styleRed.Render("▲"),
				a.FeatureName, a.ActionName,
				styleYellow.Render(formatSeconds(a.DurationSeconds)))
			if a.DominantWait != "" && a.DominantWait != "cpu" {
				entry += styleDim.Render(" waiting on " + a.DominantWait)
			}
			lines = append(lines, entry)
		}
		lines = append(lines, "")
	}

	if long := longEffects(report.Effects); len(long) > 0 {
		lines = append(lines, styleBold.Render("  Long-running effects"))
		for _, e := range long {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				styleYellow.Render("●"),
				e.Name,
				styleYellow.Render(formatSeconds(e.DurationSeconds()))))
		}
		lines = append(lines, "")
	}

	if len(report.Recommendations) > 0 {
		lines = append(lines, styleBold.Render("  Recommendations"))
		for _, rec := range report.Recommendations {
			lines = append(lines, "  "+styleGreen.Render("→")+" "+rec)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func statLine(label, value string) string {
	return fmt.Sprintf("  %s %s", styleDim.Render(fmt.Sprintf("%-14s", label)), value)
}

func countColor(n int) lipgloss.Style {
	if n > 0 {
		return styleYellow
	}
	return styleGreen
}

func scoreColor(score int) lipgloss.Style {
	switch {
	case score >= 60:
		return styleRed
	case score >= 30:
		return styleYellow
	default:
		return styleGreen
	}
}
