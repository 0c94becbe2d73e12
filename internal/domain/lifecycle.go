package domain

import (
	"fmt"
	"time"
)

type TaskAction string

const (
	ActionStart    TaskAction = "start"
	ActionComplete TaskAction = "complete"
	ActionCancel   TaskAction = "cancel"
	ActionRevert   TaskAction = "revert"
)

var AllTaskActions = []TaskAction{ActionStart, ActionComplete, ActionCancel, ActionRevert}

type transitionRule struct {
	from  map[TaskState]bool
	to    TaskState
	event string
}

// taskTransitions is the complete lifecycle. Completed appears in no from-set,
// which makes it terminal.
var taskTransitions = map[TaskAction]transitionRule{
	ActionStart: {
		from:  map[TaskState]bool{TaskNotStarted: true},
		to:    TaskInProgress,
		event: EventTaskStarted,
	},
	ActionComplete: {
		from:  map[TaskState]bool{TaskInProgress: true},
		to:    TaskCompleted,
		event: EventTaskCompleted,
	},
	ActionCancel: {
		from:  map[TaskState]bool{TaskNotStarted: true, TaskInProgress: true, TaskCancelled: true},
		to:    TaskCancelled,
		event: EventTaskCancelled,
	},
	ActionRevert: {
		from:  map[TaskState]bool{TaskNotStarted: true, TaskInProgress: true, TaskCancelled: true},
		to:    TaskNotStarted,
		event: EventTaskReverted,
	},
}

// CanTransition reports whether action is allowed from state, ignoring the
// relation guard.
func CanTransition(state TaskState, action TaskAction) bool {
	rule, ok := taskTransitions[action]
	return ok && rule.from[state]
}

// ParseTaskAction converts user input into a TaskAction.
func ParseTaskAction(s string) (TaskAction, error) {
	a := TaskAction(s)
	if _, ok := taskTransitions[a]; !ok {
		return "", &ValidationError{Fields: []FieldError{{Field: "action", Message: fmt.Sprintf("unknown task action %q", s)}}}
	}
	return a, nil
}

// Apply runs action against the task. On failure the task is unchanged.
func (t *Task) Apply(action TaskAction, now time.Time) error {
	rule, ok := taskTransitions[action]
	if !ok {
		return &ValidationError{Fields: []FieldError{{Field: "action", Message: fmt.Sprintf("unknown task action %q", action)}}}
	}
	if !rule.from[t.State] {
		return &TransitionError{From: t.State, To: rule.to}
	}
	if action == ActionComplete && !CanComplete(t) {
		return BusinessRulef("task %q has %d outgoing blocking relation(s)", t.Title, len(t.BlockingRelations()))
	}

	from := t.State
	t.State = rule.to
	t.touch(now)
	t.record(TaskLifecycleEvent{
		Name:       rule.event,
		TaskID:     t.ID,
		AssigneeID: t.AssigneeID,
		UseCaseID:  t.UseCaseID,
		Title:      t.Title,
		TaskType:   t.Type,
		From:       from,
		To:         rule.to,
		At:         now,
	})
	return nil
}

func (t *Task) Start(now time.Time) error    { return t.Apply(ActionStart, now) }
func (t *Task) Complete(now time.Time) error { return t.Apply(ActionComplete, now) }
func (t *Task) Cancel(now time.Time) error   { return t.Apply(ActionCancel, now) }
func (t *Task) Revert(now time.Time) error   { return t.Apply(ActionRevert, now) }
