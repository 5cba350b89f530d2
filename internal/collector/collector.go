// Package collector accumulates per-tick simulation snapshots into
// in-memory time series and can persist a finished run to SQLite.
package collector

import (
	"math"

	"github.com/jdtull-uark/teams-core/internal/sim"
)

// Collector stores every snapshot it observes. It implements
// sim.Observer and never mutates what it is handed.
type Collector struct {
	model  []sim.ModelSnapshot
	agents [][]sim.AgentSnapshot
}

// New returns an empty collector.
func New() *Collector { return &Collector{} }

// Observe appends one tick's snapshots.
func (c *Collector) Observe(model sim.ModelSnapshot, agents []sim.AgentSnapshot) {
	c.model = append(c.model, model)
	copied := make([]sim.AgentSnapshot, len(agents))
	copy(copied, agents)
	c.agents = append(c.agents, copied)
}

// ModelSeries returns the model-level rows in tick order.
func (c *Collector) ModelSeries() []sim.ModelSnapshot { return c.model }

// AgentSeries returns the per-agent rows in tick order.
func (c *Collector) AgentSeries() [][]sim.AgentSnapshot { return c.agents }

// Ticks returns the number of observed snapshots, the setup snapshot
// included.
func (c *Collector) Ticks() int { return len(c.model) }

// Summary describes one model-level series.
type Summary struct {
	Ticks          int
	FinalCompleted int
	FinalKnowledge float64
	MinPerceived   float64
	MaxPerceived   float64
	MeanPerceived  float64
}

// Summarize reduces the collected model series to headline numbers.
func (c *Collector) Summarize() Summary {
	s := Summary{
		Ticks:        len(c.model),
		MinPerceived: math.Inf(1),
		MaxPerceived: math.Inf(-1),
	}
	if len(c.model) == 0 {
		return Summary{}
	}
	last := c.model[len(c.model)-1]
	s.FinalCompleted = last.TasksCompleted
	s.FinalKnowledge = last.MeanKnowledge
	for _, row := range c.model {
		if row.MeanPerceived < s.MinPerceived {
			s.MinPerceived = row.MeanPerceived
		}
		if row.MeanPerceived > s.MaxPerceived {
			s.MaxPerceived = row.MeanPerceived
		}
		s.MeanPerceived += row.MeanPerceived
	}
	s.MeanPerceived /= float64(len(c.model))
	return s
}
