package sim

import (
	"github.com/jdtull-uark/teams-core/internal/grid"
	"github.com/jdtull-uark/teams-core/internal/task"
)

// ModelSnapshot is the read-only model-level view published each tick.
type ModelSnapshot struct {
	Tick           int
	TasksBacklog   int
	TasksActive    int
	TasksCompleted int
	TasksBlocked   int
	TasksTotal     int
	MeanPerceived  float64
	MeanKnowledge  float64
	AllDone        bool
}

// AgentSnapshot is the read-only per-agent view published each tick.
type AgentSnapshot struct {
	ID               int
	Position         grid.Position
	Perceived        float64
	Contributed      float64
	KnowledgeSize    int
	CurrentTask      string
	CurrentSubTask   string
	SeekingKnowledge bool
	SeekingAgent     bool
	Interactions     int
}

// Observer consumes snapshots after setup and after every tick. It
// must not mutate model state.
type Observer interface {
	Observe(model ModelSnapshot, agents []AgentSnapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ModelSnapshot, []AgentSnapshot)

func (f ObserverFunc) Observe(model ModelSnapshot, agents []AgentSnapshot) {
	f(model, agents)
}

// Snapshot assembles the current model and agent views.
func (m *Model) Snapshot() (ModelSnapshot, []AgentSnapshot) {
	ms := ModelSnapshot{
		Tick:       m.tick,
		TasksTotal: len(m.tasks),
		AllDone:    m.AllDone(),
	}
	for _, t := range m.tasks {
		switch t.Status {
		case task.StatusBacklog:
			ms.TasksBacklog++
		case task.StatusInProgress:
			ms.TasksActive++
		case task.StatusCompleted:
			ms.TasksCompleted++
		case task.StatusBlocked:
			ms.TasksBlocked++
		}
	}

	agents := make([]AgentSnapshot, len(m.agents))
	for i, a := range m.agents {
		pos, _ := m.grid.PositionOf(a.id)
		as := AgentSnapshot{
			ID:               a.id,
			Position:         pos,
			Perceived:        a.psych.Perceived,
			Contributed:      a.psych.Contributed,
			KnowledgeSize:    a.know.KnownCount(),
			SeekingKnowledge: a.tracker.SeekingKnowledge(),
			SeekingAgent:     a.tracker.SeekingAgent(),
			Interactions:     a.history.Count(),
		}
		if t := a.tracker.CurrentTask(); t != nil {
			as.CurrentTask = t.ID
		}
		if s := a.tracker.CurrentSubTask(); s != nil {
			as.CurrentSubTask = s.ID
		}
		agents[i] = as
		ms.MeanPerceived += a.psych.Perceived
		ms.MeanKnowledge += float64(a.know.KnownCount())
	}
	if len(m.agents) > 0 {
		ms.MeanPerceived /= float64(len(m.agents))
		ms.MeanKnowledge /= float64(len(m.agents))
	}
	return ms, agents
}

func (m *Model) observe() {
	if len(m.observers) == 0 {
		return
	}
	ms, agents := m.Snapshot()
	for _, obs := range m.observers {
		obs.Observe(ms, agents)
	}
}
