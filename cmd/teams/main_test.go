package main

import (
	"strings"
	"testing"

	"github.com/jdtull-uark/teams-core/internal/sim"
)

func TestProgressObserverCadence(t *testing.T) {
	var out strings.Builder
	obs := progressObserver(10, 100, &out)

	// The setup snapshot and off-interval ticks stay silent.
	obs.Observe(sim.ModelSnapshot{Tick: 0, TasksTotal: 3}, nil)
	obs.Observe(sim.ModelSnapshot{Tick: 7, TasksTotal: 3}, nil)
	if out.Len() != 0 {
		t.Fatalf("premature output: %q", out.String())
	}

	obs.Observe(sim.ModelSnapshot{Tick: 10, TasksCompleted: 1, TasksTotal: 3, MeanKnowledge: 1.5, MeanPerceived: 0.52}, nil)
	got := out.String()
	if !strings.Contains(got, "tick 10/100") || !strings.Contains(got, "1/3 tasks completed") {
		t.Fatalf("progress line = %q", got)
	}

	obs.Observe(sim.ModelSnapshot{Tick: 20, TasksCompleted: 2, TasksTotal: 3}, nil)
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Fatalf("line count = %d, want 2", lines)
	}
}
