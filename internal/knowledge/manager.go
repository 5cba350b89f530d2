package knowledge

import (
	"math/rand"
	"sort"

	"github.com/jdtull-uark/teams-core/internal/events"
)

// Uniform draws a value in [lo, hi). Managers take one at construction
// so tests can pin the learning roll; RandUniform adapts the model's
// shared RNG stream.
type Uniform func(lo, hi float64) float64

// RandUniform derives a Uniform from rng.
func RandUniform(rng *rand.Rand) Uniform {
	return func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}
}

// Manager owns one agent's learned concepts and learning-in-progress
// state, and consults the agent's belief Network for peer lookups.
// Self-study through LearnConcept is the only path that grows the
// learned set besides a received share; the learned set never shrinks.
type Manager struct {
	agentID        int
	learningRate   float64
	workEfficiency float64

	learned  map[Concept]struct{}
	progress map[Concept]float64
	network  *Network

	uniform Uniform
	events  events.Sink
}

// NewManager builds a manager for agentID with the agent's fixed
// traits. A nil sink discards events.
func NewManager(agentID int, learningRate, workEfficiency float64, network *Network, uniform Uniform, sink events.Sink) *Manager {
	if sink == nil {
		sink = events.Discard
	}
	return &Manager{
		agentID:        agentID,
		learningRate:   learningRate,
		workEfficiency: workEfficiency,
		learned:        map[Concept]struct{}{},
		progress:       map[Concept]float64{},
		network:        network,
		uniform:        uniform,
		events:         sink,
	}
}

// Network exposes the agent's belief table.
func (m *Manager) Network() *Network {
	return m.network
}

// Knows reports whether concept is in the learned set.
func (m *Manager) Knows(concept Concept) bool {
	_, ok := m.learned[concept]
	return ok
}

// KnownCount returns the size of the learned set.
func (m *Manager) KnownCount() int {
	return len(m.learned)
}

// KnownConcepts returns the learned set in lexical order.
func (m *Manager) KnownConcepts() []Concept {
	concepts := make([]Concept, 0, len(m.learned))
	for c := range m.learned {
		concepts = append(concepts, c)
	}
	sort.Slice(concepts, func(i, j int) bool { return concepts[i] < concepts[j] })
	return concepts
}

// HasAll reports whether every required concept is learned.
func (m *Manager) HasAll(required []Concept) bool {
	for _, c := range required {
		if !m.Knows(c) {
			return false
		}
	}
	return true
}

// Missing returns the required concepts not yet learned, in the
// required slice's order.
func (m *Manager) Missing(required []Concept) []Concept {
	var missing []Concept
	for _, c := range required {
		if !m.Knows(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// LearnConcept advances self-study on concept by
// learning_rate × work_efficiency × U(0.5, 1.5) and reports whether the
// concept crossed into the learned set this call. Already-known
// concepts return false immediately.
func (m *Manager) LearnConcept(tick int, concept Concept) bool {
	if m.Knows(concept) {
		return false
	}
	m.progress[concept] += m.learningRate * m.workEfficiency * m.uniform(0.5, 1.5)
	if m.progress[concept] < 1.0 {
		return false
	}
	m.learned[concept] = struct{}{}
	delete(m.progress, concept)
	m.events.Emit(events.Event{
		Tick:    tick,
		Agent:   m.agentID,
		Name:    events.KnowledgeLearned,
		Details: map[string]any{"concept": string(concept)},
	})
	return true
}

// LearningProgress returns the partial progress on concept, or 0 if no
// study has started (or the concept is already learned).
func (m *Manager) LearningProgress(concept Concept) float64 {
	return m.progress[concept]
}

// ReceiveShared accepts a concept shared by senderID. The learned set
// gains the concept if it is new; the belief that the sender knows the
// concept is recorded unconditionally, even on a repeat share.
func (m *Manager) ReceiveShared(tick int, senderID int, concept Concept) {
	if !m.Knows(concept) {
		m.learned[concept] = struct{}{}
		delete(m.progress, concept)
		m.events.Emit(events.Event{
			Tick:  tick,
			Agent: m.agentID,
			Name:  events.KnowledgeShareReceived,
			Details: map[string]any{
				"sender_id": senderID,
				"concept":   string(concept),
			},
		})
	}
	m.network.Add(senderID, concept)
}

// Shareable filters requested down to the concepts this agent actually
// knows.
func (m *Manager) Shareable(requested []Concept) []Concept {
	var known []Concept
	for _, c := range requested {
		if m.Knows(c) {
			known = append(known, c)
		}
	}
	return known
}

// AgentsWithNeeded returns the de-duplicated union, over every required
// concept still missing, of peers believed to know that concept. Ids
// come back in ascending order.
func (m *Manager) AgentsWithNeeded(required []Concept) []int {
	seen := map[int]struct{}{}
	var ids []int
	for _, c := range m.Missing(required) {
		for _, id := range m.network.AgentsWith(c) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
