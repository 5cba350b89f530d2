// Package task models the work entities of the simulation: tasks owned
// exclusively by one engineer, each decomposed into subtasks gated by
// intra-task dependencies, plus the per-agent Tracker that drives their
// lifecycle tick by tick.
package task

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jdtull-uark/teams-core/internal/knowledge"
)

// Status is a task lifecycle state.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// SubTaskStatus is a subtask lifecycle state.
type SubTaskStatus string

const (
	SubTaskNotStarted SubTaskStatus = "not_started"
	SubTaskInProgress SubTaskStatus = "in_progress"
	SubTaskCompleted  SubTaskStatus = "completed"
	SubTaskBlocked    SubTaskStatus = "blocked"
)

// Unassigned marks a task with no owner yet.
const Unassigned = -1

// InvalidTransitionError reports a lifecycle operation applied in a
// state that does not permit it.
type InvalidTransitionError struct {
	Entity string // "task" or "subtask"
	ID     string
	Op     string
	Status string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("task: cannot %s %s %s: %s", e.Op, e.Entity, e.ID, e.Reason)
	}
	return fmt.Sprintf("task: cannot %s %s %s with status %s", e.Op, e.Entity, e.ID, e.Status)
}

// Task is a unit of assigned work decomposed into subtasks. A task is
// owned by exactly one engineer and never shared.
type Task struct {
	ID         string
	Name       string
	Status     Status
	AssignedTo int
	Difficulty int
	SubTasks   []*SubTask
	StartTime  int
}

// New creates a backlog task with a fresh id.
func New(name string, difficulty int) *Task {
	return &Task{
		ID:         uuid.NewString(),
		Name:       name,
		Status:     StatusBacklog,
		AssignedTo: Unassigned,
		Difficulty: difficulty,
		StartTime:  -1,
	}
}

// Assign records the owning engineer.
func (t *Task) Assign(agentID int) {
	t.AssignedTo = agentID
}

// Start moves the task from backlog to in-progress, recording the tick.
func (t *Task) Start(tick int) error {
	if t.Status != StatusBacklog {
		return &InvalidTransitionError{Entity: "task", ID: t.ID, Op: "start", Status: string(t.Status)}
	}
	t.Status = StatusInProgress
	t.StartTime = tick
	return nil
}

// Complete moves an in-progress task to completed.
func (t *Task) Complete() error {
	if t.Status != StatusInProgress {
		return &InvalidTransitionError{Entity: "task", ID: t.ID, Op: "complete", Status: string(t.Status)}
	}
	t.Status = StatusCompleted
	return nil
}

// Pause returns an in-progress task to the backlog.
func (t *Task) Pause() error {
	if t.Status != StatusInProgress {
		return &InvalidTransitionError{Entity: "task", ID: t.ID, Op: "pause", Status: string(t.Status)}
	}
	t.Status = StatusBacklog
	return nil
}

// Progress derives task progress from completed subtasks. A task with
// no subtasks reports 0.
func (t *Task) Progress() float64 {
	if len(t.SubTasks) == 0 {
		return 0.0
	}
	completed := 0
	for _, sub := range t.SubTasks {
		if sub.Status == SubTaskCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(t.SubTasks))
}

// SubTasksDone reports whether every subtask is completed. A task with
// no subtasks counts as done the moment it is worked.
func (t *Task) SubTasksDone() bool {
	for _, sub := range t.SubTasks {
		if sub.Status != SubTaskCompleted {
			return false
		}
	}
	return true
}

// SubTask is one dependency-gated slice of a task.
type SubTask struct {
	ID           string
	Name         string
	Status       SubTaskStatus
	Dependencies []string
	Required     []knowledge.Concept
	Difficulty   int
	Progress     float64
	StartTime    int
}

// NewSubTask creates an unstarted subtask with a fresh id.
func NewSubTask(name string, difficulty int, deps []string, required []knowledge.Concept) *SubTask {
	return &SubTask{
		ID:           uuid.NewString(),
		Name:         name,
		Status:       SubTaskNotStarted,
		Dependencies: deps,
		Required:     required,
		Difficulty:   difficulty,
		StartTime:    -1,
	}
}

// CanStart reports whether every dependency id is present in the
// owner's completed set.
func (s *SubTask) CanStart(completed map[string]struct{}) bool {
	for _, dep := range s.Dependencies {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}

// Start activates the subtask, recording the tick. It fails unless the
// subtask is unstarted and every dependency is in completed.
func (s *SubTask) Start(completed map[string]struct{}, tick int) error {
	if !s.CanStart(completed) {
		return &InvalidTransitionError{Entity: "subtask", ID: s.ID, Op: "start", Status: string(s.Status), Reason: "dependencies not met"}
	}
	if s.Status != SubTaskNotStarted {
		return &InvalidTransitionError{Entity: "subtask", ID: s.ID, Op: "start", Status: string(s.Status)}
	}
	s.Status = SubTaskInProgress
	s.StartTime = tick
	return nil
}

// Complete marks an in-progress subtask finished and pins progress at 1.
func (s *SubTask) Complete() error {
	if s.Status != SubTaskInProgress {
		return &InvalidTransitionError{Entity: "subtask", ID: s.ID, Op: "complete", Status: string(s.Status)}
	}
	s.Status = SubTaskCompleted
	s.Progress = 1.0
	return nil
}

// Pause reverses an in-progress subtask back to unstarted.
func (s *SubTask) Pause() error {
	if s.Status != SubTaskInProgress {
		return &InvalidTransitionError{Entity: "subtask", ID: s.ID, Op: "pause", Status: string(s.Status)}
	}
	s.Status = SubTaskNotStarted
	return nil
}

// IsComplete reports whether the subtask is finished.
func (s *SubTask) IsComplete() bool {
	return s.Status == SubTaskCompleted
}
