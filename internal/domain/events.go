package domain

import "time"

// Event names as written to the outbox and published downstream.
const (
	EventTaskStarted          = "task.started"
	EventTaskCompleted        = "task.completed"
	EventTaskCancelled        = "task.cancelled"
	EventTaskReverted         = "task.reverted"
	EventTaskAssigned         = "task.assigned"
	EventProjectStatusChanged = "project.status_changed"
	EventModuleStatusChanged  = "module.status_changed"
	EventUseCaseStatusChanged = "usecase.status_changed"
	EventMemberRoleChanged    = "project.member_role_changed"
)

// Event is an immutable record of something that happened to an aggregate.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// TaskLifecycleEvent is emitted for every successful task state transition.
type TaskLifecycleEvent struct {
	Name       string    `json:"name"`
	TaskID     string    `json:"task_id"`
	AssigneeID string    `json:"assignee_id"`
	UseCaseID  string    `json:"use_case_id"`
	Title      string    `json:"title"`
	TaskType   TaskType  `json:"task_type"`
	From       TaskState `json:"from"`
	To         TaskState `json:"to"`
	At         time.Time `json:"occurred_at"`
}

func (e TaskLifecycleEvent) EventName() string     { return e.Name }
func (e TaskLifecycleEvent) AggregateID() string   { return e.TaskID }
func (e TaskLifecycleEvent) OccurredAt() time.Time { return e.At }

type TaskAssigned struct {
	TaskID     string     `json:"task_id"`
	UseCaseID  string     `json:"use_case_id"`
	Title      string     `json:"title"`
	TaskType   TaskType   `json:"task_type"`
	AssigneeID string     `json:"assignee_id"`
	AssignerID string     `json:"assigner_id"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	At         time.Time  `json:"occurred_at"`
}

func (e TaskAssigned) EventName() string     { return EventTaskAssigned }
func (e TaskAssigned) AggregateID() string   { return e.TaskID }
func (e TaskAssigned) OccurredAt() time.Time { return e.At }

type ProjectStatusChanged struct {
	ProjectID string    `json:"project_id"`
	CreatorID string    `json:"creator_id"`
	Title     string    `json:"title"`
	WasActive bool      `json:"was_active"`
	IsActive  bool      `json:"is_active"`
	At        time.Time `json:"occurred_at"`
}

func (e ProjectStatusChanged) EventName() string     { return EventProjectStatusChanged }
func (e ProjectStatusChanged) AggregateID() string   { return e.ProjectID }
func (e ProjectStatusChanged) OccurredAt() time.Time { return e.At }

// ModuleStatusChanged.CascadedUseCases is filled in by whoever runs the
// use-case cascade; the module itself does not know the count.
type ModuleStatusChanged struct {
	ModuleID         string    `json:"module_id"`
	ProjectID        string    `json:"project_id"`
	Title            string    `json:"title"`
	IsActive         bool      `json:"is_active"`
	CascadedUseCases int64     `json:"cascaded_use_cases"`
	At               time.Time `json:"occurred_at"`
}

func (e ModuleStatusChanged) EventName() string     { return EventModuleStatusChanged }
func (e ModuleStatusChanged) AggregateID() string   { return e.ModuleID }
func (e ModuleStatusChanged) OccurredAt() time.Time { return e.At }

type UseCaseStatusChanged struct {
	UseCaseID string    `json:"use_case_id"`
	ModuleID  string    `json:"module_id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	At        time.Time `json:"occurred_at"`
}

func (e UseCaseStatusChanged) EventName() string     { return EventUseCaseStatusChanged }
func (e UseCaseStatusChanged) AggregateID() string   { return e.UseCaseID }
func (e UseCaseStatusChanged) OccurredAt() time.Time { return e.At }

type MemberRoleChanged struct {
	ProjectID string      `json:"project_id"`
	UserID    string      `json:"user_id"`
	From      ProjectRole `json:"from"`
	To        ProjectRole `json:"to"`
	ChangedBy string      `json:"changed_by"`
	At        time.Time   `json:"occurred_at"`
}

func (e MemberRoleChanged) EventName() string     { return EventMemberRoleChanged }
func (e MemberRoleChanged) AggregateID() string   { return e.ProjectID }
func (e MemberRoleChanged) OccurredAt() time.Time { return e.At }
