package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdtull-uark/teams-core/internal/config"
	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/sim"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Engineers = 3
	cfg.Grid = config.GridConfig{Width: 5, Height: 5}
	cfg.InitialTasks = 2
	cfg.Ticks = 10
	cfg.Seed = 3
	model, err := sim.New(cfg)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return NewApp(model, cfg, events.Subscription{})
}

func TestStepMsgAdvancesModel(t *testing.T) {
	app := newTestApp(t)
	before := app.model.Tick()
	app.Update(stepMsg(time.Now()))
	if got := app.model.Tick(); got != before+1 {
		t.Fatalf("tick = %d, want %d", got, before+1)
	}
}

func TestPauseBlocksStepping(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !app.paused {
		t.Fatal("space did not pause")
	}
	before := app.model.Tick()
	app.Update(stepMsg(time.Now()))
	if app.model.Tick() != before {
		t.Fatal("paused app still stepped")
	}
	// Manual single-step works while paused.
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if app.model.Tick() != before+1 {
		t.Fatal("manual step did not advance")
	}
}

func TestAgentSelectionBounds(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if app.selected != 0 {
		t.Fatalf("selection underflowed to %d", app.selected)
	}
	for i := 0; i < 10; i++ {
		app.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if app.selected != 2 {
		t.Fatalf("selection = %d, want clamped 2", app.selected)
	}
}

func TestViewShowsRunState(t *testing.T) {
	app := newTestApp(t)
	view := app.View()
	if !strings.Contains(view, "running") {
		t.Fatalf("view missing run state:\n%s", view)
	}
	app.pushFeed(events.Event{Tick: 1, Agent: 0, Name: events.TaskStarted})
	if !strings.Contains(app.View(), "TASK_STARTED") {
		t.Fatal("view missing feed entry")
	}
}

func TestFeedBounded(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < feedCapacity+50; i++ {
		app.pushFeed(events.Event{Tick: i, Agent: 0, Name: events.WorkOnSubTask})
	}
	if len(app.feed) != feedCapacity {
		t.Fatalf("feed length = %d, want %d", len(app.feed), feedCapacity)
	}
}
