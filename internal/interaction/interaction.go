// Package interaction implements the pairwise exchange protocol
// between engineers: collaboration, help and knowledge requests,
// knowledge shares, and feedback, together with the per-agent history
// the data collection reads.
package interaction

import (
	"github.com/jdtull-uark/teams-core/internal/knowledge"
	"github.com/jdtull-uark/teams-core/internal/psych"
)

// Kind names an interaction variant.
type Kind string

const (
	KindCollaboration    Kind = "collaboration"
	KindHelpRequest      Kind = "help_request"
	KindKnowledgeRequest Kind = "knowledge_request"
	KindKnowledgeShare   Kind = "knowledge_share"
	KindFeedback         Kind = "feedback"
)

// Payload carries the variant-specific content of an exchange.
type Payload interface {
	Kind() Kind
}

// Collaboration is a contentless work exchange between peers.
type Collaboration struct{}

func (Collaboration) Kind() Kind { return KindCollaboration }

// HelpRequest asks a peer for help with unlearned concepts.
type HelpRequest struct {
	Concepts []knowledge.Concept
}

func (HelpRequest) Kind() Kind { return KindHelpRequest }

// KnowledgeRequest asks a peer whether it can supply concepts.
type KnowledgeRequest struct {
	Concepts []knowledge.Concept
}

func (KnowledgeRequest) Kind() Kind { return KindKnowledgeRequest }

// KnowledgeShare transfers one concept to the recipient.
type KnowledgeShare struct {
	Concept knowledge.Concept
}

func (KnowledgeShare) Kind() Kind { return KindKnowledgeShare }

// Feedback is a contentless evaluation exchange.
type Feedback struct{}

func (Feedback) Kind() Kind { return KindFeedback }

// Details holds the sampled parameters of one exchange.
type Details struct {
	Duration       float64 // ticks worth of conversation, U(1,5)
	SenderSpeaking float64 // initiator's share of the talking, U(0.05,0.95)
}

// Record is one history entry. Concepts is populated for the variants
// that carry knowledge content.
type Record struct {
	Tick      int
	Kind      Kind
	Initiator int
	Recipient int
	Details   Details
	Concepts  []knowledge.Concept
}

// History accumulates an agent's interaction records and counters.
type History struct {
	records      []Record
	helpMade     int
	helpReceived int
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

// Append stores one record.
func (h *History) Append(r Record) { h.records = append(h.records, r) }

// Records returns the stored records in append order.
func (h *History) Records() []Record { return h.records }

// Count returns the number of recorded exchanges.
func (h *History) Count() int { return len(h.records) }

// HelpRequestsMade returns how many help requests this agent sent.
func (h *History) HelpRequestsMade() int { return h.helpMade }

// HelpRequestsReceived returns how many help requests this agent got.
func (h *History) HelpRequestsReceived() int { return h.helpReceived }

// Party is the view of an agent the protocol needs.
type Party interface {
	ID() int
	Knowledge() *knowledge.Manager
	Psych() *psych.State
	History() *History
}
