package collector

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jdtull-uark/teams-core/internal/grid"
	"github.com/jdtull-uark/teams-core/internal/sim"
)

func seed(c *Collector) {
	c.Observe(sim.ModelSnapshot{Tick: 0, TasksBacklog: 2, TasksTotal: 2, MeanPerceived: 0.4},
		[]sim.AgentSnapshot{{ID: 0, Position: grid.Position{X: 1, Y: 1}, Perceived: 0.4}})
	c.Observe(sim.ModelSnapshot{Tick: 1, TasksActive: 2, TasksTotal: 2, MeanPerceived: 0.6, MeanKnowledge: 1.5},
		[]sim.AgentSnapshot{{ID: 0, Position: grid.Position{X: 2, Y: 1}, Perceived: 0.6, KnowledgeSize: 2, Interactions: 3}})
	c.Observe(sim.ModelSnapshot{Tick: 2, TasksCompleted: 2, TasksTotal: 2, MeanPerceived: 0.5, MeanKnowledge: 2, AllDone: true},
		[]sim.AgentSnapshot{{ID: 0, Position: grid.Position{X: 2, Y: 2}, Perceived: 0.5, KnowledgeSize: 2, Interactions: 4}})
}

func TestSummarize(t *testing.T) {
	c := New()
	if got := c.Summarize(); got != (Summary{}) {
		t.Fatalf("empty summary = %+v", got)
	}
	seed(c)
	s := c.Summarize()
	if s.Ticks != 3 || s.FinalCompleted != 2 || s.FinalKnowledge != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.MinPerceived != 0.4 || s.MaxPerceived != 0.6 || s.MeanPerceived != 0.5 {
		t.Fatalf("perceived stats = %+v", s)
	}
}

func TestObserveCopiesAgentRows(t *testing.T) {
	c := New()
	rows := []sim.AgentSnapshot{{ID: 0, Perceived: 0.4}}
	c.Observe(sim.ModelSnapshot{}, rows)
	rows[0].Perceived = 99
	if got := c.AgentSeries()[0][0].Perceived; got != 0.4 {
		t.Fatalf("collector aliased caller slice, perceived = %v", got)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	c := New()
	seed(c)
	path := filepath.Join(t.TempDir(), "run.db")
	if err := Record(c, path); err != nil {
		t.Fatalf("record: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var modelRows, agentRows int
	if err := db.QueryRow("SELECT COUNT(*) FROM model_ticks").Scan(&modelRows); err != nil {
		t.Fatalf("count model_ticks: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM agent_ticks").Scan(&agentRows); err != nil {
		t.Fatalf("count agent_ticks: %v", err)
	}
	if modelRows != 3 || agentRows != 3 {
		t.Fatalf("rows = %d/%d, want 3/3", modelRows, agentRows)
	}

	var done int
	var knowledge float64
	if err := db.QueryRow("SELECT all_done, mean_knowledge FROM model_ticks WHERE tick = 2").
		Scan(&done, &knowledge); err != nil {
		t.Fatalf("select final tick: %v", err)
	}
	if done != 1 || knowledge != 2 {
		t.Fatalf("final tick row = done %d knowledge %v", done, knowledge)
	}
}
