// Package render turns an analysis report into its output formats.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tracepulse/tracepulse/internal/model"
)

// Format identifies one of the supported output formats.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name from a flag or config value.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatTerminal:
		return FormatTerminal, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("render: unknown format %q (want terminal, json, yaml or markdown)", name)
}

// Render serializes the report in the requested format.
func Render(report *model.Report, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return JSON(report)
	case FormatYAML:
		return YAML(report)
	case FormatMarkdown:
		return Markdown(report), nil
	case FormatTerminal:
		return Terminal(report), nil
	}
	return "", fmt.Errorf("render: unknown format %q", format)
}

// JSON returns the indented JSON form of the report.
func JSON(report *model.Report) (string, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render: encoding json: %w", err)
	}
	return string(out) + "\n", nil
}

// YAML returns the YAML form of the report. The report is passed through its
// JSON representation first so both formats expose identical key names.
func YAML(report *model.Report) (string, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("render: encoding yaml: %w", err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", fmt.Errorf("render: encoding yaml: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("render: encoding yaml: %w", err)
	}
	return string(out), nil
}
