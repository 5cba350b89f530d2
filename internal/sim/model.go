// Package sim wires the engineers, the grid, the interaction protocol
// and the task registry into a tick-based model. Everything runs on one
// goroutine: each tick activates every agent once in a freshly
// shuffled order, then publishes a read-only snapshot to the attached
// observers.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jdtull-uark/teams-core/internal/config"
	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/grid"
	"github.com/jdtull-uark/teams-core/internal/interaction"
	"github.com/jdtull-uark/teams-core/internal/knowledge"
	"github.com/jdtull-uark/teams-core/internal/psych"
	"github.com/jdtull-uark/teams-core/internal/task"
)

// Option configures a Model at construction.
type Option func(*Model)

// WithEventSink attaches the sink every simulation event flows to.
func WithEventSink(sink events.Sink) Option {
	return func(m *Model) {
		if sink != nil {
			m.events = sink
		}
	}
}

// WithObserver attaches a data-collection observer. Observers receive
// a snapshot after setup and after every tick and must not mutate
// model state.
func WithObserver(obs Observer) Option {
	return func(m *Model) {
		if obs != nil {
			m.observers = append(m.observers, obs)
		}
	}
}

// Model is the simulation: an arena of agents indexed by id, the grid
// they move on, and the single RNG stream every random draw comes from.
type Model struct {
	cfg       config.Config
	rng       *rand.Rand
	grid      *grid.Grid
	agents    []*Agent
	tasks     []*task.Task
	protocol  *interaction.Protocol
	events    events.Sink
	observers []Observer
	vocab     []knowledge.Concept

	// psychSafety is the model-level scalar the threshold rule reads.
	// It is set from config and never updated during a run.
	psychSafety float64
	rule        psych.ThresholdRule

	tick     int
	doneSeen bool
}

// New builds and seeds a model. Configuration problems fail here, never
// mid-run. A zero seed draws one from the clock.
func New(cfg config.Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g, err := grid.New(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	m := &Model{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(seed)),
		grid:        g,
		events:      events.Discard,
		vocab:       knowledge.Vocabulary(cfg.KnowledgeSpace),
		psychSafety: cfg.InitialPsychSafety,
		rule:        psych.ThresholdRule{Threshold: cfg.PsychSafetyThreshold},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.protocol = interaction.NewProtocol(m.rng, m.events)

	for id := 0; id < cfg.Engineers; id++ {
		a := newAgent(id, m.rng, m.events)
		m.agents = append(m.agents, a)
		pos := grid.Position{X: m.rng.Intn(cfg.Grid.Width), Y: m.rng.Intn(cfg.Grid.Height)}
		if err := m.grid.Place(id, pos); err != nil {
			return nil, fmt.Errorf("sim: place agent %d: %w", id, err)
		}
	}
	for i := 0; i < cfg.InitialTasks; i++ {
		t := m.generateTask(i)
		m.tasks = append(m.tasks, t)
		m.agents[i%len(m.agents)].Tracker().Assign(t)
	}
	m.observe()
	return m, nil
}

// generateTask builds one task with randomized subtasks, dependencies
// and concept requirements.
func (m *Model) generateTask(n int) *task.Task {
	t := task.New(fmt.Sprintf("task-%d", n+1), 1+m.rng.Intn(10))
	count := 2 + m.rng.Intn(4)
	for j := 0; j < count; j++ {
		var deps []string
		if j > 0 && m.rng.Intn(2) == 0 {
			deps = []string{t.SubTasks[m.rng.Intn(j)].ID}
		}
		var required []knowledge.Concept
		want := m.rng.Intn(3)
		if want > len(m.vocab) {
			want = len(m.vocab)
		}
		if want > 0 {
			perm := m.rng.Perm(len(m.vocab))
			for _, idx := range perm[:want] {
				required = append(required, m.vocab[idx])
			}
		}
		sub := task.NewSubTask(fmt.Sprintf("task-%d.%d", n+1, j+1),
			1+m.rng.Intn(10), deps, required)
		t.SubTasks = append(t.SubTasks, sub)
	}
	return t
}

// Agent returns the agent with the given id, or nil.
func (m *Model) Agent(id int) *Agent {
	if id < 0 || id >= len(m.agents) {
		return nil
	}
	return m.agents[id]
}

// Agents returns the arena in id order.
func (m *Model) Agents() []*Agent { return m.agents }

// Tasks returns every task created at setup.
func (m *Model) Tasks() []*task.Task { return m.tasks }

// Grid returns the spatial index.
func (m *Model) Grid() *grid.Grid { return m.grid }

// Tick returns the number of completed ticks.
func (m *Model) Tick() int { return m.tick }

// Vocabulary returns the run's knowledge space.
func (m *Model) Vocabulary() []knowledge.Concept { return m.vocab }

// SafetyMet reports the threshold rule's verdict on the model-level
// safety scalar.
func (m *Model) SafetyMet() bool { return m.rule.Evaluate(m.psychSafety) }

// AllDone reports whether every task has completed.
func (m *Model) AllDone() bool {
	if len(m.tasks) == 0 {
		return false
	}
	for _, t := range m.tasks {
		if t.Status != task.StatusCompleted {
			return false
		}
	}
	return true
}

// Step advances the model one tick: shuffle the activation order, run
// every agent's work, interaction and movement phases in sequence, then
// snapshot.
func (m *Model) Step() {
	m.tick++
	for _, idx := range m.rng.Perm(len(m.agents)) {
		m.activate(m.agents[idx])
	}
	if m.AllDone() && !m.doneSeen {
		m.doneSeen = true
		m.events.Emit(events.Event{
			Tick:  m.tick,
			Agent: events.ModelAgent,
			Name:  events.AllTasksCompleted,
			Details: map[string]any{
				"tasks": len(m.tasks),
			},
		})
	}
	m.observe()
}

// Run steps the model for the configured tick count, stopping early
// when every task is done and the config asks for that.
func (m *Model) Run() {
	for i := 0; i < m.cfg.Ticks; i++ {
		m.Step()
		if m.cfg.StopWhenDone && m.AllDone() {
			return
		}
	}
}

func (m *Model) activate(a *Agent) {
	a.Tracker().Work(m.tick)
	m.tryInteraction(a)
	m.move(a)
}

// tryInteraction picks at most one exchange for the activated agent:
// a help request when a seek target is adjacent, else a knowledge
// request when studying, else plain collaboration while working.
func (m *Model) tryInteraction(a *Agent) {
	neighbors := m.grid.Neighbors(a.id)
	if len(neighbors) == 0 {
		return
	}
	tr := a.Tracker()
	if tr.SeekingAgent() {
		targets := make(map[int]bool, len(tr.SeekTargets()))
		for _, id := range tr.SeekTargets() {
			targets[id] = true
		}
		for _, id := range neighbors {
			if targets[id] {
				m.protocol.Initiate(m.tick, a, m.Agent(id),
					interaction.HelpRequest{Concepts: tr.MissingConcepts()}, interaction.Details{})
				return
			}
		}
	}
	if tr.SeekingKnowledge() {
		pick := neighbors[m.rng.Intn(len(neighbors))]
		m.protocol.Initiate(m.tick, a, m.Agent(pick),
			interaction.KnowledgeRequest{Concepts: tr.MissingConcepts()}, interaction.Details{})
		return
	}
	if tr.CurrentSubTask() != nil {
		pick := neighbors[m.rng.Intn(len(neighbors))]
		m.protocol.Initiate(m.tick, a, m.Agent(pick),
			interaction.Collaboration{}, interaction.Details{})
	}
}

// move walks the agent toward its closest seek target when it is alone
// and blocked on a collaborator, and takes a random step otherwise. A
// successful directed move consumes the tick's movement.
func (m *Model) move(a *Agent) {
	tr := a.Tracker()
	if len(m.grid.Neighbors(a.id)) == 0 &&
		tr.SeekingAgent() && len(tr.SeekTargets()) > 0 && tr.CurrentSubTask() != nil {
		if target, ok := m.grid.ClosestOf(a.id, tr.SeekTargets()); ok {
			if pos, placed := m.grid.PositionOf(target); placed && m.grid.StepToward(a.id, pos) {
				return
			}
		}
	}
	m.grid.RandomStep(a.id, m.rng)
}
