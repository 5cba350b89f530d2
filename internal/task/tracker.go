package task

import (
	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/knowledge"
)

// Tracker drives one engineer's task pipeline: it picks the next task
// and subtask, advances progress each tick, records completions, and
// owns the seeking flags the movement and interaction layers consult.
type Tracker struct {
	agentID        int
	workEfficiency float64
	knowledge      *knowledge.Manager
	events         events.Sink

	assigned   []*Task
	current    *Task
	currentSub *SubTask

	completedTasks  []string
	completedSubs   []string
	completedSubSet map[string]struct{}
	allDone         bool

	seekingKnowledge bool
	seekingAgent     bool
	seekTargets      []int
}

// NewTracker builds an idle tracker for one engineer.
func NewTracker(agentID int, workEfficiency float64, km *knowledge.Manager, sink events.Sink) *Tracker {
	if sink == nil {
		sink = events.Discard
	}
	return &Tracker{
		agentID:         agentID,
		workEfficiency:  workEfficiency,
		knowledge:       km,
		events:          sink,
		completedSubSet: make(map[string]struct{}),
	}
}

// Assign hands the tracker a task and stamps the engineer as owner.
func (t *Tracker) Assign(task *Task) {
	task.Assign(t.agentID)
	t.assigned = append(t.assigned, task)
	t.allDone = false
}

// AssignedTasks returns the tasks in assignment order.
func (t *Tracker) AssignedTasks() []*Task { return t.assigned }

// CurrentTask returns the active task, or nil when idle.
func (t *Tracker) CurrentTask() *Task { return t.current }

// CurrentSubTask returns the active subtask, or nil.
func (t *Tracker) CurrentSubTask() *SubTask { return t.currentSub }

// AllTasksCompleted reports whether every assigned task is done.
func (t *Tracker) AllTasksCompleted() bool { return t.allDone }

// CompletedTasks returns completed task ids in completion order.
func (t *Tracker) CompletedTasks() []string { return t.completedTasks }

// CompletedSubTasks returns completed subtask ids in completion order.
func (t *Tracker) CompletedSubTasks() []string { return t.completedSubs }

// SeekingKnowledge reports whether the engineer is blocked on concepts
// it has not learned yet.
func (t *Tracker) SeekingKnowledge() bool { return t.seekingKnowledge }

// SeekingAgent reports whether at least one needed concept is believed
// to be held by another engineer.
func (t *Tracker) SeekingAgent() bool { return t.seekingAgent }

// SeekTargets returns the agent ids believed to hold needed concepts.
func (t *Tracker) SeekTargets() []int { return t.seekTargets }

// MissingConcepts returns the current subtask's unlearned requirements.
func (t *Tracker) MissingConcepts() []knowledge.Concept {
	if t.currentSub == nil {
		return nil
	}
	return t.knowledge.Missing(t.currentSub.Required)
}

// Work advances the pipeline by one tick: select a task if idle, select
// a startable subtask, then either make progress or study the missing
// concepts.
func (t *Tracker) Work(tick int) {
	if t.current == nil {
		if !t.startNextTask(tick) {
			return
		}
	}
	if t.currentSub == nil {
		t.currentSub = t.nextSubTask(tick)
		if t.currentSub == nil {
			// No startable subtask; the task may already be finishable.
			t.checkTaskCompletion(tick)
			return
		}
	}
	t.workOnCurrent(tick)
}

func (t *Tracker) startNextTask(tick int) bool {
	for _, task := range t.assigned {
		if task.Status != StatusBacklog {
			continue
		}
		if err := task.Start(tick); err != nil {
			continue
		}
		t.current = task
		t.events.Emit(events.Event{
			Tick:  tick,
			Agent: t.agentID,
			Name:  events.TaskStarted,
			Details: map[string]any{
				"task_id":   task.ID,
				"task_name": task.Name,
			},
		})
		return true
	}
	return false
}

// nextSubTask prefers a subtask already in progress, then the first
// unstarted subtask in declaration order whose dependencies are met.
func (t *Tracker) nextSubTask(tick int) *SubTask {
	for _, sub := range t.current.SubTasks {
		if sub.Status == SubTaskInProgress {
			return sub
		}
	}
	for _, sub := range t.current.SubTasks {
		if sub.Status != SubTaskNotStarted {
			continue
		}
		if err := sub.Start(t.completedSubSet, tick); err != nil {
			continue
		}
		t.events.Emit(events.Event{
			Tick:  tick,
			Agent: t.agentID,
			Name:  events.SubTaskStarted,
			Details: map[string]any{
				"subtask_id":   sub.ID,
				"subtask_name": sub.Name,
				"task_id":      t.current.ID,
			},
		})
		return sub
	}
	return nil
}

func (t *Tracker) workOnCurrent(tick int) {
	sub := t.currentSub
	if !t.knowledge.HasAll(sub.Required) {
		t.attemptLearning(tick)
		return
	}
	t.seekingKnowledge = false
	t.seekingAgent = false
	t.seekTargets = nil

	sub.Progress += t.workEfficiency * 0.1
	t.events.Emit(events.Event{
		Tick:  tick,
		Agent: t.agentID,
		Name:  events.WorkOnSubTask,
		Details: map[string]any{
			"subtask_id": sub.ID,
			"progress":   sub.Progress,
		},
	})
	if sub.Progress >= 1.0 {
		t.completeCurrent(tick)
	}
}

func (t *Tracker) completeCurrent(tick int) {
	sub := t.currentSub
	if err := sub.Complete(); err != nil {
		t.events.Emit(events.Event{
			Tick:  tick,
			Agent: t.agentID,
			Name:  events.SubTaskCompletionFailed,
			Details: map[string]any{
				"subtask_id": sub.ID,
				"error":      err.Error(),
			},
		})
		return
	}
	t.completedSubs = append(t.completedSubs, sub.ID)
	t.completedSubSet[sub.ID] = struct{}{}
	t.currentSub = nil
	t.seekingKnowledge = false
	t.seekingAgent = false
	t.seekTargets = nil
	t.events.Emit(events.Event{
		Tick:  tick,
		Agent: t.agentID,
		Name:  events.SubTaskCompleted,
		Details: map[string]any{
			"subtask_id":   sub.ID,
			"subtask_name": sub.Name,
			"task_id":      t.current.ID,
		},
	})
	t.checkTaskCompletion(tick)
}

func (t *Tracker) checkTaskCompletion(tick int) {
	task := t.current
	if task == nil || !task.SubTasksDone() {
		return
	}
	if err := task.Complete(); err != nil {
		t.events.Emit(events.Event{
			Tick:  tick,
			Agent: t.agentID,
			Name:  events.TaskCompletionFailed,
			Details: map[string]any{
				"task_id": task.ID,
				"error":   err.Error(),
			},
		})
		return
	}
	t.completedTasks = append(t.completedTasks, task.ID)
	t.current = nil
	t.events.Emit(events.Event{
		Tick:  tick,
		Agent: t.agentID,
		Name:  events.TaskCompleted,
		Details: map[string]any{
			"task_id":   task.ID,
			"task_name": task.Name,
		},
	})
	for _, assigned := range t.assigned {
		if assigned.Status != StatusCompleted {
			return
		}
	}
	t.allDone = true
	t.events.Emit(events.Event{
		Tick:  tick,
		Agent: t.agentID,
		Name:  events.AllTasksCompleted,
		Details: map[string]any{
			"tasks_completed": len(t.completedTasks),
		},
	})
}

// attemptLearning studies every missing concept this tick and raises
// the seeking flags, recording which agents are believed to hold the
// needed concepts.
func (t *Tracker) attemptLearning(tick int) {
	missing := t.knowledge.Missing(t.currentSub.Required)
	if len(missing) == 0 {
		return
	}
	t.seekingKnowledge = true
	net := t.knowledge.Network()
	for _, concept := range missing {
		if net.AnyoneKnows(concept) {
			t.seekingAgent = true
		}
	}
	if t.seekingAgent {
		t.seekTargets = t.knowledge.AgentsWithNeeded(t.currentSub.Required)
	}
	for _, concept := range missing {
		t.knowledge.LearnConcept(tick, concept)
	}
}
