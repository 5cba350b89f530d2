// Package events defines the named, tick-stamped events the simulation
// core emits at every state transition, plus the sinks that consume
// them. The core always emits; whether anything listens is up to the
// run wiring.
package events

// Names of every event the simulation emits. Collaborators subscribe by
// matching on these.
const (
	TaskStarted             = "task_started"
	TaskCompleted           = "task_completed"
	TaskCompletionFailed    = "task_completion_failed"
	SubTaskStarted          = "subtask_started"
	SubTaskCompleted        = "subtask_completed"
	SubTaskCompletionFailed = "subtask_completion_failed"
	AllTasksCompleted       = "all_tasks_completed"
	WorkOnSubTask           = "work_on_subtask"
	KnowledgeLearned        = "knowledge_learned"
	KnowledgeShareReceived  = "knowledge_share_received"
	InteractionInitiated    = "interaction_initiated"
	InteractionReceived     = "interaction_received"
	InteractionFailed       = "interaction_failed_no_recipient"
)

// ModelAgent is the Agent value for model-level events that are not
// attributable to a single engineer.
const ModelAgent = -1

// Event is one discrete, named occurrence inside the simulation.
type Event struct {
	Tick    int
	Agent   int
	Name    string
	Details map[string]any
}

// Sink consumes events synchronously, on the simulation goroutine.
// Implementations must not mutate simulation state.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	if f != nil {
		f(e)
	}
}

// Discard drops every event. Used when no collaborator is attached.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans a single emission out to several sinks in order.
type Multi []Sink

// Emit delivers e to each sink in order.
func (m Multi) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}
