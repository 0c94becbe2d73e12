package testutil

import (
	"time"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/google/uuid"
)

// FixtureNow is the creation time stamped on every fixture.
var FixtureNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// DefaultUser is the creator of fixtures unless overridden.
const DefaultUser = "alice"

func newEntity() domain.Entity {
	return domain.Entity{ID: uuid.New().String(), CreatedAt: FixtureNow, UpdatedAt: FixtureNow}
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectArchived() ProjectOption {
	return func(p *domain.Project) {
		p.IsActive = false
	}
}

func WithProjectCreator(id string) ProjectOption {
	return func(p *domain.Project) {
		p.CreatorID = id
	}
}

func NewTestProject(title string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		Entity:      newEntity(),
		CreatorID:   DefaultUser,
		Title:       title,
		StartedDate: FixtureNow,
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Module options
type ModuleOption func(*domain.Module)

func WithModuleArchived() ModuleOption {
	return func(m *domain.Module) {
		m.IsActive = false
	}
}

func NewTestModule(projectID, title string, opts ...ModuleOption) *domain.Module {
	m := &domain.Module{
		Entity:      newEntity(),
		ProjectID:   projectID,
		CreatorID:   DefaultUser,
		Title:       title,
		StartedDate: FixtureNow,
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UseCase options
type UseCaseOption func(*domain.UseCase)

func WithUseCaseArchived() UseCaseOption {
	return func(u *domain.UseCase) {
		u.IsActive = false
	}
}

func WithImportantNotes(notes string) UseCaseOption {
	return func(u *domain.UseCase) {
		u.ImportantNotes = notes
	}
}

func NewTestUseCase(moduleID, title string, opts ...UseCaseOption) *domain.UseCase {
	u := &domain.UseCase{
		Entity:      newEntity(),
		ModuleID:    moduleID,
		CreatorID:   DefaultUser,
		Title:       title,
		StartedDate: FixtureNow,
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskState(s domain.TaskState) TaskOption {
	return func(t *domain.Task) {
		t.State = s
	}
}

func WithTaskType(tt domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = tt
	}
}

func WithAssignee(id string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = id
	}
}

func WithTaskCreator(id string) TaskOption {
	return func(t *domain.Task) {
		t.CreatorID = id
		t.AssigneeID = id
	}
}

func WithStartedDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartedDate = d
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func NewTestTask(useCaseID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		Entity:      newEntity(),
		UseCaseID:   useCaseID,
		CreatorID:   DefaultUser,
		AssigneeID:  DefaultUser,
		Title:       title,
		StartedDate: FixtureNow,
		Type:        domain.TaskFeature,
		State:       domain.TaskNotStarted,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestRelation(sourceID, targetID string, typ domain.RelationType) domain.TaskRelation {
	return domain.TaskRelation{
		ID:           uuid.New().String(),
		SourceTaskID: sourceID,
		TargetTaskID: targetID,
		Type:         typ,
		CreatedAt:    FixtureNow,
	}
}
