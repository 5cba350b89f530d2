// Package knowledge models what an engineer knows, what they are in the
// middle of learning, and what they believe their peers know. Concepts
// are opaque identifiers from a fixed vocabulary generated at model
// setup; there is no semantic content behind them.
package knowledge

import (
	"fmt"
	"sort"
)

// Concept is one opaque unit of knowledge.
type Concept string

// Vocabulary generates the fixed knowledge space for a run: "K001",
// "K002", ... up to size entries.
func Vocabulary(size int) []Concept {
	vocab := make([]Concept, 0, size)
	for i := 1; i <= size; i++ {
		vocab = append(vocab, Concept(fmt.Sprintf("K%03d", i)))
	}
	return vocab
}

// Network is one agent's belief table about which peers know which
// concepts. It is a belief state: entries may be stale or incomplete
// and are never invalidated during a run.
type Network struct {
	beliefs map[int]map[Concept]struct{}
}

// NewNetwork returns an empty belief table.
func NewNetwork() *Network {
	return &Network{beliefs: map[int]map[Concept]struct{}{}}
}

// Add records the belief that agentID knows concept. Adding the same
// pair twice is a no-op.
func (n *Network) Add(agentID int, concept Concept) {
	set := n.beliefs[agentID]
	if set == nil {
		set = map[Concept]struct{}{}
		n.beliefs[agentID] = set
	}
	set[concept] = struct{}{}
}

// Believes reports whether agentID is believed to know concept.
func (n *Network) Believes(agentID int, concept Concept) bool {
	_, ok := n.beliefs[agentID][concept]
	return ok
}

// AnyoneKnows reports whether any peer is believed to know concept.
func (n *Network) AnyoneKnows(concept Concept) bool {
	for _, set := range n.beliefs {
		if _, ok := set[concept]; ok {
			return true
		}
	}
	return false
}

// AgentsWith returns the ids of every peer believed to know concept,
// in ascending id order.
func (n *Network) AgentsWith(concept Concept) []int {
	var ids []int
	for id, set := range n.beliefs {
		if _, ok := set[concept]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// AgentKnowledge returns a copy of everything agentID is believed to
// know, in lexical order.
func (n *Network) AgentKnowledge(agentID int) []Concept {
	set := n.beliefs[agentID]
	if len(set) == 0 {
		return nil
	}
	concepts := make([]Concept, 0, len(set))
	for c := range set {
		concepts = append(concepts, c)
	}
	sort.Slice(concepts, func(i, j int) bool { return concepts[i] < concepts[j] })
	return concepts
}

// Size returns how many peers have at least one belief entry.
func (n *Network) Size() int {
	return len(n.beliefs)
}

// TotalEntries returns the number of (peer, concept) belief pairs.
func (n *Network) TotalEntries() int {
	total := 0
	for _, set := range n.beliefs {
		total += len(set)
	}
	return total
}
