package interaction

import (
	"math/rand"

	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/knowledge"
)

// Protocol executes exchanges synchronously: the recipient's side runs
// inline before the initiator's turn continues, so a single exchange
// can cascade into follow-up exchanges within the same tick.
type Protocol struct {
	rng    *rand.Rand
	events events.Sink
}

// NewProtocol builds a protocol drawing exchange parameters from rng.
func NewProtocol(rng *rand.Rand, sink events.Sink) *Protocol {
	if sink == nil {
		sink = events.Discard
	}
	return &Protocol{rng: rng, events: sink}
}

// Initiate runs one exchange from initiator to recipient. A nil
// recipient fails the exchange without side effects beyond an event.
// Zero-valued details are sampled from the protocol's distributions.
func (p *Protocol) Initiate(tick int, initiator, recipient Party, payload Payload, details Details) bool {
	if recipient == nil {
		p.events.Emit(events.Event{
			Tick:  tick,
			Agent: initiator.ID(),
			Name:  events.InteractionFailed,
			Details: map[string]any{
				"kind": string(payload.Kind()),
			},
		})
		return false
	}
	if details.Duration == 0 {
		details.Duration = 1 + p.rng.Float64()*4
	}
	if details.SenderSpeaking == 0 {
		details.SenderSpeaking = 0.05 + p.rng.Float64()*0.9
	}

	rec := Record{
		Tick:      tick,
		Kind:      payload.Kind(),
		Initiator: initiator.ID(),
		Recipient: recipient.ID(),
		Details:   details,
		Concepts:  payloadConcepts(payload),
	}

	p.events.Emit(events.Event{
		Tick:  tick,
		Agent: initiator.ID(),
		Name:  events.InteractionInitiated,
		Details: map[string]any{
			"kind":    string(payload.Kind()),
			"partner": recipient.ID(),
		},
	})

	// Initiator side. Each party's perceived safety moves with the
	// partner's contributed safety weighted by its own speaking time.
	initiator.History().Append(rec)
	initiator.Psych().Observe(recipient.Psych().Contributed, details.SenderSpeaking*details.Duration)
	p.processInitiator(tick, initiator, recipient, payload)

	// Recipient side, inline.
	p.events.Emit(events.Event{
		Tick:  tick,
		Agent: recipient.ID(),
		Name:  events.InteractionReceived,
		Details: map[string]any{
			"kind":    string(payload.Kind()),
			"partner": initiator.ID(),
		},
	})
	recipient.History().Append(rec)
	recipient.Psych().Observe(initiator.Psych().Contributed, (1-details.SenderSpeaking)*details.Duration)
	p.processRecipient(tick, initiator, recipient, payload)
	return true
}

func payloadConcepts(payload Payload) []knowledge.Concept {
	switch pl := payload.(type) {
	case HelpRequest:
		return pl.Concepts
	case KnowledgeRequest:
		return pl.Concepts
	case KnowledgeShare:
		return []knowledge.Concept{pl.Concept}
	}
	return nil
}

func (p *Protocol) processInitiator(tick int, initiator, recipient Party, payload Payload) {
	switch pl := payload.(type) {
	case HelpRequest:
		initiator.History().helpMade++
		// A help request is answered by probing the helper's knowledge.
		p.Initiate(tick, initiator, recipient, KnowledgeRequest{Concepts: pl.Concepts}, Details{})
	}
}

func (p *Protocol) processRecipient(tick int, initiator, recipient Party, payload Payload) {
	switch pl := payload.(type) {
	case HelpRequest:
		recipient.History().helpReceived++
	case KnowledgeRequest:
		p.answerKnowledgeRequest(tick, initiator, recipient, pl.Concepts)
	case KnowledgeShare:
		recipient.Knowledge().ReceiveShared(tick, initiator.ID(), pl.Concept)
	}
}

// answerKnowledgeRequest resolves each requested concept in place: a
// known concept is shared back, a concept the responder has only heard
// about is answered by pointing the requester at those agents, and an
// unknown concept falls back to advertising something the responder
// does know.
func (p *Protocol) answerKnowledgeRequest(tick int, requester, responder Party, concepts []knowledge.Concept) {
	for _, concept := range concepts {
		if responder.Knowledge().Knows(concept) {
			p.Initiate(tick, responder, requester, KnowledgeShare{Concept: concept}, Details{})
			continue
		}
		if holders := responder.Knowledge().Network().AgentsWith(concept); len(holders) > 0 {
			for _, id := range holders {
				if id != requester.ID() {
					requester.Knowledge().Network().Add(id, concept)
				}
			}
			continue
		}
		// Nothing relevant: advertise one concept the responder does
		// hold so the requester's picture of the team still grows.
		known := responder.Knowledge().KnownConcepts()
		if len(known) > 0 {
			pick := known[p.rng.Intn(len(known))]
			requester.Knowledge().Network().Add(responder.ID(), pick)
		}
	}
}
