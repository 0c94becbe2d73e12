package domain

import (
	"strings"
	"time"
)

// Task is the unit of work under a use case. State changes go through the
// transition table in lifecycle.go; relations are owned by the source task.
type Task struct {
	Entity
	UseCaseID      string
	CreatorID      string
	AssigneeID     string
	Title          string
	Description    string
	ImportantNotes string
	StartedDate    time.Time
	DueDate        *time.Time
	Type           TaskType
	State          TaskState

	relations []TaskRelation
}

type NewTaskParams struct {
	CreatorID      string
	Title          string
	Description    string
	ImportantNotes string
	Type           TaskType
	StartedDate    time.Time
	DueDate        *time.Time
}

// NewTask creates a NotStarted task assigned to its creator. The use case
// must be active.
func NewTask(useCase *UseCase, p NewTaskParams, l TextLimits, now time.Time) (*Task, error) {
	started := p.StartedDate
	if started.IsZero() {
		started = now
	}

	var v validator
	v.required("creator_id", p.CreatorID)
	v.title(p.Title, l)
	v.maxLen("description", p.Description, l.DescriptionMax)
	v.maxLen("important_notes", p.ImportantNotes, l.NotesMax)
	if !ValidTaskTypes[string(p.Type)] {
		v.add("type", "unknown task type %q", p.Type)
	}
	if p.DueDate != nil && p.DueDate.Before(started) {
		v.add("due_date", "must not be before started date")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if !useCase.IsActive {
		return nil, BusinessRulef("cannot add a task to archived use case %q", useCase.Title)
	}

	return &Task{
		Entity:         newEntity(now),
		UseCaseID:      useCase.ID,
		CreatorID:      p.CreatorID,
		AssigneeID:     p.CreatorID,
		Title:          p.Title,
		Description:    p.Description,
		ImportantNotes: p.ImportantNotes,
		StartedDate:    started,
		DueDate:        p.DueDate,
		Type:           p.Type,
		State:          TaskNotStarted,
	}, nil
}

// AssignTo reassigns the task in any state. The state is left as is.
func (t *Task) AssignTo(assigneeID, assignerID string, now time.Time) error {
	if strings.TrimSpace(assigneeID) == "" {
		return &ValidationError{Fields: []FieldError{{Field: "assignee_id", Message: "is required"}}}
	}
	t.AssigneeID = assigneeID
	t.touch(now)
	t.record(TaskAssigned{
		TaskID:     t.ID,
		UseCaseID:  t.UseCaseID,
		Title:      t.Title,
		TaskType:   t.Type,
		AssigneeID: assigneeID,
		AssignerID: assignerID,
		DueDate:    t.DueDate,
		At:         now,
	})
	return nil
}

// UpdateDueDate sets or clears the due date. A due date before StartedDate
// is rejected.
func (t *Task) UpdateDueDate(due *time.Time, now time.Time) error {
	if due != nil && due.Before(t.StartedDate) {
		return &ValidationError{Fields: []FieldError{{Field: "due_date", Message: "must not be before started date"}}}
	}
	t.DueDate = due
	t.touch(now)
	return nil
}

// IsOverdue is computed on demand and never stored.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.State != TaskCompleted
}
