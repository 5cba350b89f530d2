package logbook

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdtull-uark/teams-core/internal/events"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	got := FormatEvent(events.Event{
		Tick:  3,
		Agent: 2,
		Name:  events.TaskStarted,
		Details: map[string]any{
			"task_name": "api",
			"task_id":   "t-1",
		},
	})
	want := "[Tick 003] Agent 2 - TASK_STARTED | task_id: t-1, task_name: api"
	if got != want {
		t.Fatalf("formatted = %q, want %q", got, want)
	}
}

func TestFormatEventModelActor(t *testing.T) {
	got := FormatEvent(events.Event{Tick: 12, Agent: events.ModelAgent, Name: events.AllTasksCompleted})
	want := "[Tick 012] MODEL - ALL_TASKS_COMPLETED"
	if got != want {
		t.Fatalf("formatted = %q, want %q", got, want)
	}
}

func TestEmitWritesEventLine(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, "run.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Emit(events.Event{Tick: 1, Agent: 0, Name: events.KnowledgeLearned,
		Details: map[string]any{"concept": "K004"}})
	lines := book.Tail(1)
	if len(lines) != 1 {
		t.Fatalf("tail = %v", lines)
	}
	if !strings.Contains(lines[0], "KNOWLEDGE_LEARNED | concept: K004") {
		t.Fatalf("line = %q", lines[0])
	}
}
