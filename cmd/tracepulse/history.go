package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracepulse/tracepulse/internal/history"
	"github.com/tracepulse/tracepulse/internal/render"
)

// runHistory dispatches the history subcommands over the analysis store.
func runHistory(cfg appConfig, args []string) error {
	store, err := history.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		return historyList(store, args[1:])
	case "search":
		if len(args) < 2 {
			return fmt.Errorf("history search: missing search term")
		}
		summaries, err := store.Search(args[1])
		if err != nil {
			return err
		}
		printSummaries(summaries)
		return nil
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("history show: missing analysis name")
		}
		return historyShow(store, cfg, args[1:])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("history delete: missing analysis name")
		}
		if err := store.Delete(args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted analysis %q\n", args[1])
		return nil
	}
	return fmt.Errorf("unknown history command %q (want list, search, show or delete)", args[0])
}

func historyList(store *history.Store, args []string) error {
	fs := flag.NewFlagSet("history list", flag.ExitOnError)
	limit := fs.Int("limit", defaultHistoryLimit, "maximum number of analyses to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summaries, err := store.List(*limit)
	if err != nil {
		return err
	}
	printSummaries(summaries)
	return nil
}

func historyShow(store *history.Store, cfg appConfig, args []string) error {
	fs := flag.NewFlagSet("history show", flag.ExitOnError)
	format := fs.String("format", cfg.OutputFormat, "output format: terminal, json, yaml or markdown")
	name := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	outFormat, err := render.ParseFormat(*format)
	if err != nil {
		return err
	}
	report, err := store.Get(name)
	if err != nil {
		return err
	}
	out, err := render.Render(report, outFormat)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func printSummaries(summaries []history.Summary) {
	if len(summaries) == 0 {
		fmt.Println("No stored analyses.")
		return
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	bold := lipgloss.NewStyle().Bold(true)

	fmt.Println(bold.Render(fmt.Sprintf("%-24s %-20s %7s %7s %6s  %s",
		"NAME", "STORED", "ACTIONS", "SLOW", "SCORE", "DEVICE")))
	for _, sum := range summaries {
		fmt.Printf("%-24s %-20s %7d %7d %6d  %s\n",
			sum.Name,
			sum.StoredAt.Local().Format("2006-01-02 15:04:05"),
			sum.ActionCount,
			sum.SlowCount,
			sum.ComplexityScore,
			dim.Render(sum.Device))
	}
}
