package interaction

import (
	"math/rand"
	"testing"

	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/knowledge"
	"github.com/jdtull-uark/teams-core/internal/psych"
)

type testParty struct {
	id   int
	km   *knowledge.Manager
	ps   *psych.State
	hist *History
}

func (p *testParty) ID() int                       { return p.id }
func (p *testParty) Knowledge() *knowledge.Manager { return p.km }
func (p *testParty) Psych() *psych.State           { return p.ps }
func (p *testParty) History() *History             { return p.hist }

func unit(lo, hi float64) float64 { return 1.0 }

func newParty(id int, known ...knowledge.Concept) *testParty {
	km := knowledge.NewManager(id, 1.0, 1.0, knowledge.NewNetwork(), unit, events.Discard)
	for _, c := range known {
		km.LearnConcept(0, c)
	}
	return &testParty{
		id:   id,
		km:   km,
		ps:   &psych.State{Perceived: 0.5, Contributed: 0.5},
		hist: NewHistory(),
	}
}

type recordingSink struct {
	events []events.Event
}

func (r *recordingSink) Emit(ev events.Event) { r.events = append(r.events, ev) }

func newProtocol(sink events.Sink) *Protocol {
	return NewProtocol(rand.New(rand.NewSource(1)), sink)
}

func TestInitiateNilRecipientFails(t *testing.T) {
	sink := &recordingSink{}
	p := newProtocol(sink)
	a := newParty(0)

	if p.Initiate(3, a, nil, Collaboration{}, Details{}) {
		t.Fatal("exchange with nil recipient succeeded")
	}
	if a.hist.Count() != 0 {
		t.Fatal("failed exchange recorded in history")
	}
	if len(sink.events) != 1 || sink.events[0].Name != events.InteractionFailed {
		t.Fatalf("events = %v, want single %s", sink.events, events.InteractionFailed)
	}
}

func TestCollaborationTouchesBothSides(t *testing.T) {
	p := newProtocol(events.Discard)
	a := newParty(0)
	b := newParty(1)

	if !p.Initiate(0, a, b, Collaboration{}, Details{Duration: 2, SenderSpeaking: 0.5}) {
		t.Fatal("collaboration failed")
	}
	if a.hist.Count() != 1 || b.hist.Count() != 1 {
		t.Fatalf("history counts %d/%d, want 1/1", a.hist.Count(), b.hist.Count())
	}
	rec := a.hist.Records()[0]
	if rec.Kind != KindCollaboration || rec.Initiator != 0 || rec.Recipient != 1 {
		t.Fatalf("record = %+v", rec)
	}
	// Positive partner contributed safety raises perceived safety.
	if a.ps.Perceived <= 0.5 || b.ps.Perceived <= 0.5 {
		t.Fatalf("perceived safety %v/%v did not rise", a.ps.Perceived, b.ps.Perceived)
	}
}

func TestHelpRequestCascadesToShare(t *testing.T) {
	sink := &recordingSink{}
	p := newProtocol(sink)
	a := newParty(0)
	b := newParty(1, "K001")

	if !p.Initiate(0, a, b, HelpRequest{Concepts: []knowledge.Concept{"K001"}}, Details{}) {
		t.Fatal("help request failed")
	}
	if a.hist.HelpRequestsMade() != 1 {
		t.Fatalf("help requests made = %d, want 1", a.hist.HelpRequestsMade())
	}
	if b.hist.HelpRequestsReceived() != 1 {
		t.Fatalf("help requests received = %d, want 1", b.hist.HelpRequestsReceived())
	}
	// The cascade probes the helper, who shares the known concept back.
	if !a.km.Knows("K001") {
		t.Fatal("requester did not learn the shared concept")
	}
	kinds := map[Kind]int{}
	for _, rec := range a.hist.Records() {
		kinds[rec.Kind]++
	}
	for _, want := range []Kind{KindHelpRequest, KindKnowledgeRequest, KindKnowledgeShare} {
		if kinds[want] == 0 {
			t.Fatalf("cascade missing %s, got %v", want, kinds)
		}
	}
	first := a.hist.Records()[0]
	if len(first.Concepts) != 1 || first.Concepts[0] != "K001" {
		t.Fatalf("help request record concepts = %v, want [K001]", first.Concepts)
	}
}

func TestKnowledgeRequestPropagatesBeliefs(t *testing.T) {
	p := newProtocol(events.Discard)
	a := newParty(0)
	b := newParty(1)
	// b only knows who holds the concept, not the concept itself.
	b.km.Network().Add(7, "K002")

	p.Initiate(0, a, b, KnowledgeRequest{Concepts: []knowledge.Concept{"K002"}}, Details{})

	if a.km.Knows("K002") {
		t.Fatal("requester learned a concept nobody shared")
	}
	if !a.km.Network().Believes(7, "K002") {
		t.Fatal("third-party belief not propagated to requester")
	}
}

func TestKnowledgeRequestFallbackAdvertisesResponder(t *testing.T) {
	p := newProtocol(events.Discard)
	a := newParty(0)
	b := newParty(1, "K009")

	p.Initiate(0, a, b, KnowledgeRequest{Concepts: []knowledge.Concept{"K002"}}, Details{})

	if a.km.Knows("K002") || a.km.Knows("K009") {
		t.Fatal("fallback transferred a concept instead of a belief")
	}
	if !a.km.Network().Believes(1, "K009") {
		t.Fatal("fallback did not advertise the responder's knowledge")
	}
}
