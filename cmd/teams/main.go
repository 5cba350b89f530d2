package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jdtull-uark/teams-core/internal/collector"
	"github.com/jdtull-uark/teams-core/internal/config"
	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/logbook"
	"github.com/jdtull-uark/teams-core/internal/sim"
	"github.com/jdtull-uark/teams-core/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration (defaults built in)")
	writeConfig := flag.String("write-config", "", "write the default configuration to this path and exit")
	headless := flag.Bool("headless", false, "run without the dashboard")
	ticks := flag.Int("ticks", 0, "override the configured tick count")
	seed := flag.Int64("seed", 0, "override the configured RNG seed")
	record := flag.String("record", "", "override the SQLite recording path")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.WriteDefault(*writeConfig); err != nil {
			die("%v", err)
		}
		fmt.Printf("wrote default configuration to %s\n", *writeConfig)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			die("%v", err)
		}
	}
	if *ticks > 0 {
		cfg.Ticks = *ticks
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *record != "" {
		cfg.Record.Path = *record
	}

	sinks := events.Multi{}
	var book *logbook.Logbook
	if cfg.Log.Path != "" {
		var err error
		book, err = logbook.New(cfg.Log.Path)
		if err != nil {
			die("open logbook: %v", err)
		}
		sinks = append(sinks, book)
	}
	router := events.NewRouter(events.RouterWithLogger(book))
	sinks = append(sinks, router)

	coll := collector.New()
	opts := []sim.Option{
		sim.WithEventSink(sinks),
		sim.WithObserver(coll),
	}
	if *headless {
		opts = append(opts, sim.WithObserver(progressObserver(progressEvery, cfg.Ticks, os.Stdout)))
	}
	model, err := sim.New(cfg, opts...)
	if err != nil {
		die("%v", err)
	}

	if *headless {
		model.Run()
	} else {
		if err := tui.Run(model, cfg, router.Subscribe()); err != nil {
			die("dashboard: %v", err)
		}
	}

	summary := coll.Summarize()
	fmt.Printf("ran %d ticks: %d tasks completed, mean knowledge %.2f, mean safety %.3f (min %.3f, max %.3f)\n",
		model.Tick(), summary.FinalCompleted, summary.FinalKnowledge,
		summary.MeanPerceived, summary.MinPerceived, summary.MaxPerceived)
	if book != nil {
		fmt.Printf("log written to %s\n", book.Path())
	}

	if cfg.Record.Path != "" {
		if err := collector.Record(coll, cfg.Record.Path); err != nil {
			die("%v", err)
		}
		fmt.Printf("recorded run to %s\n", cfg.Record.Path)
	}
}

const progressEvery = 10

// progressObserver prints a progress line every `every` ticks during a
// headless run.
func progressObserver(every, total int, w io.Writer) sim.ObserverFunc {
	return func(ms sim.ModelSnapshot, _ []sim.AgentSnapshot) {
		if ms.Tick == 0 || ms.Tick%every != 0 {
			return
		}
		fmt.Fprintf(w, "tick %d/%d: %d/%d tasks completed, mean knowledge %.2f, mean safety %.3f\n",
			ms.Tick, total, ms.TasksCompleted, ms.TasksTotal, ms.MeanKnowledge, ms.MeanPerceived)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "teams: "+format+"\n", args...)
	os.Exit(1)
}
