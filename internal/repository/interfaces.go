package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/strata/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type ModuleRepo interface {
	Create(ctx context.Context, m *domain.Module) error
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	ListByProject(ctx context.Context, projectID string, includeArchived bool) ([]*domain.Module, error)
	Update(ctx context.Context, m *domain.Module) error
}

type UseCaseRepo interface {
	Create(ctx context.Context, u *domain.UseCase) error
	GetByID(ctx context.Context, id string) (*domain.UseCase, error)
	ListByModule(ctx context.Context, moduleID string, includeArchived bool) ([]*domain.UseCase, error)
	Update(ctx context.Context, u *domain.UseCase) error
	// ArchiveByModuleID archives every still-active use case of the module
	// in one statement and returns how many rows flipped.
	ArchiveByModuleID(ctx context.Context, moduleID string, now time.Time) (int64, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	// GetByID returns the task with its outgoing relations loaded.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUseCase(ctx context.Context, useCaseID string) ([]*domain.Task, error)
	// ListOverdueCandidates returns unfinished tasks of the use case with a
	// due date before now. Callers still apply Task.IsOverdue.
	ListOverdueCandidates(ctx context.Context, useCaseID string, now time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
}

type TaskRelationRepo interface {
	Create(ctx context.Context, r domain.TaskRelation) error
	Delete(ctx context.Context, id string) error
	ListBySource(ctx context.Context, taskID string) ([]domain.TaskRelation, error)
	ListByTarget(ctx context.Context, taskID string) ([]domain.TaskRelation, error)
}

type MemberRepo interface {
	Add(ctx context.Context, m domain.ProjectMember) error
	Remove(ctx context.Context, projectID, userID string) error
	Get(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectMember, error)
	UpdateRole(ctx context.Context, projectID, userID string, role domain.ProjectRole) error
	CountByRole(ctx context.Context, projectID string, role domain.ProjectRole) (int, error)
}

// OutboxEvent is a stored domain event awaiting or past publication.
type OutboxEvent struct {
	ID          string
	Name        string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
	PublishedAt *time.Time
}

type EventOutbox interface {
	Append(ctx context.Context, events ...domain.Event) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
}
