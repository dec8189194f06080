package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/timer"
	"github.com/hperssn/intervals/internal/tui"
)

func main() {
	var cfg domain.WorkoutConfig
	flag.IntVar(&cfg.Sets, "sets", 3, "number of sets")
	flag.IntVar(&cfg.Reps, "reps", 5, "reps per set")
	flag.IntVar(&cfg.RepWorkTime, "work", 30, "work seconds per rep")
	flag.IntVar(&cfg.InterRepRest, "rep-rest", 10, "rest seconds between reps")
	flag.IntVar(&cfg.InterSetRest, "set-rest", 90, "rest seconds between sets")
	quiet := flag.Bool("quiet", false, "no terminal bell at step boundaries")
	flag.Parse()

	opts := tui.Options{Bell: os.Stdout}
	if *quiet {
		opts.Bell = nil
	}

	model, err := tui.NewModel(cfg, opts)
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			for _, f := range cfgErr.Fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", f.Field, f.Message)
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	if m, ok := final.(tui.Model); ok && m.Snapshot().State == timer.StateComplete {
		fmt.Printf("Workout complete: %s\n", domain.FormatClock(domain.TotalSeconds(cfg)))
	}
}
