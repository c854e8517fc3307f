// Package xctrace invokes the external trace export tool and collects its XML
// output per data table.
package xctrace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the export tool looked up on PATH when no explicit path is
// configured.
const DefaultBinary = "xctrace"

// Schemas holds the table-schema selector strings. The exact names are a
// versioned contract with the export tool and have changed across its
// releases, so they are configuration rather than constants.
type Schemas struct {
	Signpost    string `mapstructure:"signpost"`
	TimeProfile string `mapstructure:"time-profile"`
	Syscall     string `mapstructure:"syscall"`
	Allocation  string `mapstructure:"allocation"`
}

// DefaultSchemas returns the selector names of the currently supported tool
// version.
func DefaultSchemas() Schemas {
	return Schemas{
		Signpost:    "os-signpost",
		TimeProfile: "time-profile",
		Syscall:     "syscall",
		Allocation:  "allocations",
	}
}

// ExportError reports a failed export invocation, carrying the tool's exit
// code for the caller's error taxonomy.
type ExportError struct {
	Schema   string
	ExitCode int
	Stderr   string
}

func (e *ExportError) Error() string {
	msg := fmt.Sprintf("xctrace: exporting %s table failed with exit code %d", e.Schema, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Runner abstracts the export tool invocation so tests can substitute canned
// XML streams.
type Runner interface {
	// Export returns the raw XML bytes for one table schema.
	Export(ctx context.Context, tracePath, schema string) ([]byte, error)
	// TOC returns the trace table of contents used for best-effort metadata.
	TOC(ctx context.Context, tracePath string) ([]byte, error)
}

// CommandRunner runs the real export binary. The adapter is stateless per
// invocation, so one runner is safe to use from concurrent exports.
type CommandRunner struct {
	Binary string
}

// NewCommandRunner creates a runner for the given binary path, defaulting to
// the tool on PATH.
func NewCommandRunner(binary string) *CommandRunner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &CommandRunner{Binary: binary}
}

// Export implements Runner.
func (r *CommandRunner) Export(ctx context.Context, tracePath, schema string) ([]byte, error) {
	xpath := fmt.Sprintf(`/trace-toc/run[1]/data/table[@schema="%s"]`, schema)
	return r.run(ctx, schema, "export", "--input", tracePath, "--xpath", xpath)
}

// TOC implements Runner.
func (r *CommandRunner) TOC(ctx context.Context, tracePath string) ([]byte, error) {
	return r.run(ctx, "toc", "export", "--input", tracePath, "--toc")
}

func (r *CommandRunner) run(ctx context.Context, schema string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExportError{
				Schema:   schema,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("xctrace: running %s export: %w", schema, err)
	}
	return stdout.Bytes(), nil
}
