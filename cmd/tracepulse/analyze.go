package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tracepulse/tracepulse/internal/analyze"
	"github.com/tracepulse/tracepulse/internal/history"
	"github.com/tracepulse/tracepulse/internal/render"
	"github.com/tracepulse/tracepulse/internal/xctrace"
)

// runAnalyze parses one trace file and prints (and optionally stores) the
// resulting report.
func runAnalyze(cfg appConfig, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	feature := fs.String("feature", "", "keep only actions of this feature")
	action := fs.String("action", "", "keep only actions whose name contains this substring")
	minDuration := fs.Float64("min-duration", 0, "keep only actions at or above this duration in seconds")
	slowOnly := fs.Bool("slow-only", false, "keep only actions over the 16 ms frame budget")
	format := fs.String("format", cfg.OutputFormat, "output format: terminal, json, yaml or markdown")
	save := fs.Bool("save", false, "store the report in the analysis history")
	name := fs.String("name", "", "name to store the analysis under (default: trace file name)")
	tags := fs.String("tags", "", "comma-separated tags stored with the analysis")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tracepulse analyze <trace-file> [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("analyze: expected exactly one trace file, got %d", fs.NArg())
	}

	outFormat, err := render.ParseFormat(*format)
	if err != nil {
		return err
	}

	src := analyze.Source{
		TracePath: fs.Arg(0),
		Runner:    xctrace.NewCommandRunner(cfg.XCTraceBinary),
		Schemas:   cfg.Schemas,
	}
	filters := analyze.Filters{
		Feature:            *feature,
		ActionSubstring:    *action,
		MinDurationSeconds: *minDuration,
		SlowOnly:           *slowOnly,
	}

	report, err := analyze.Parse(context.Background(), src, filters)
	if err != nil {
		return err
	}

	if *name != "" {
		report.Metadata.Name = *name
	}
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				report.Metadata.Tags = append(report.Metadata.Tags, tag)
			}
		}
	}

	if *save {
		store, err := history.NewStore(cfg.DBPath, cfg.QueryTimeout)
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		defer store.Close()
		if err := store.Save(report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved analysis %q\n", report.Metadata.Name)
	}

	out, err := render.Render(report, outFormat)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
