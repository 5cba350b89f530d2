package sim

import (
	"math/rand"

	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/interaction"
	"github.com/jdtull-uark/teams-core/internal/knowledge"
	"github.com/jdtull-uark/teams-core/internal/psych"
	"github.com/jdtull-uark/teams-core/internal/task"
)

// Traits are an engineer's fixed scalar characteristics, drawn once at
// creation and immutable for the run.
type Traits struct {
	LearningRate       float64
	WorkEfficiency     float64
	CommunicationSkill float64
	Motivation         float64
	Availability       float64
}

func randomTraits(rng *rand.Rand) Traits {
	u := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	return Traits{
		LearningRate:       u(0.01, 0.1),
		WorkEfficiency:     u(0.5, 1.5),
		CommunicationSkill: u(0.1, 1.0),
		Motivation:         u(0.1, 1.0),
		Availability:       u(0.5, 1.0),
	}
}

// Agent is one engineer. Cross-agent references are integer ids
// resolved through the model's arena; agents never hold pointers to
// each other.
type Agent struct {
	id      int
	traits  Traits
	psych   *psych.State
	know    *knowledge.Manager
	tracker *task.Tracker
	history *interaction.History
}

func newAgent(id int, rng *rand.Rand, sink events.Sink) *Agent {
	u := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	traits := randomTraits(rng)
	km := knowledge.NewManager(id, traits.LearningRate, traits.WorkEfficiency,
		knowledge.NewNetwork(), knowledge.RandUniform(rng), sink)
	return &Agent{
		id:     id,
		traits: traits,
		psych: &psych.State{
			Perceived:   u(0, 1),
			Contributed: u(-1, 1),
		},
		know:    km,
		tracker: task.NewTracker(id, traits.WorkEfficiency, km, sink),
		history: interaction.NewHistory(),
	}
}

// ID returns the agent's arena index.
func (a *Agent) ID() int { return a.id }

// Traits returns the agent's fixed characteristics.
func (a *Agent) Traits() Traits { return a.traits }

// Psych returns the agent's psychological safety state.
func (a *Agent) Psych() *psych.State { return a.psych }

// Knowledge returns the agent's knowledge manager.
func (a *Agent) Knowledge() *knowledge.Manager { return a.know }

// Tracker returns the agent's task tracker.
func (a *Agent) Tracker() *task.Tracker { return a.tracker }

// History returns the agent's interaction history.
func (a *Agent) History() *interaction.History { return a.history }
