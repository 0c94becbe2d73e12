package service

import (
	"context"
	"time"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

// MembershipGate decides whether a user may mutate a resource. Role
// resolution lives behind this interface; services only consume the answer.
// Roles are read through members, the caller's tx-scoped repo, so the check
// and the mutation it guards see the same data.
type MembershipGate interface {
	CanEditProject(ctx context.Context, members repository.MemberRepo, userID string, project *domain.Project) (bool, error)
	CanEditModule(ctx context.Context, members repository.MemberRepo, userID string, module *domain.Module, project *domain.Project) (bool, error)
	CanEditUseCase(ctx context.Context, members repository.MemberRepo, userID string, useCase *domain.UseCase, project *domain.Project) (bool, error)
	CanEditTask(ctx context.Context, members repository.MemberRepo, userID string, task *domain.Task, project *domain.Project) (bool, error)
	// CanManageMembers guards role changes; plain members are refused.
	CanManageMembers(ctx context.Context, members repository.MemberRepo, userID string, project *domain.Project) (bool, error)
}

// StatusChangeResult reports what an activate/archive command did.
// Changed is false for idempotent no-ops.
type StatusChangeResult struct {
	Changed          bool
	CascadedUseCases int64
}

// HierarchyService owns activation and archival across Project > Module > UseCase.
// Archiving a module archives its use cases in the same transaction.
type HierarchyService interface {
	ActivateProject(ctx context.Context, actor, projectID string) (StatusChangeResult, error)
	ArchiveProject(ctx context.Context, actor, projectID string) (StatusChangeResult, error)
	ActivateModule(ctx context.Context, actor, moduleID string) (StatusChangeResult, error)
	ArchiveModule(ctx context.Context, actor, moduleID string) (StatusChangeResult, error)
	ActivateUseCase(ctx context.Context, actor, useCaseID string) (StatusChangeResult, error)
	ArchiveUseCase(ctx context.Context, actor, useCaseID string) (StatusChangeResult, error)
}

type ProjectService interface {
	Create(ctx context.Context, actor string, p domain.NewProjectParams) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	AddMember(ctx context.Context, actor, projectID, userID string, role domain.ProjectRole) error
	RemoveMember(ctx context.Context, actor, projectID, userID string) error
	ListMembers(ctx context.Context, projectID string) ([]domain.ProjectMember, error)
	UpdateDetails(ctx context.Context, actor, projectID string, d domain.Details) (*domain.Project, error)
	// UpdateMemberRole never grants owner and never demotes the last owner.
	UpdateMemberRole(ctx context.Context, actor, projectID, userID string, role domain.ProjectRole) error
}

type ModuleService interface {
	Create(ctx context.Context, actor, projectID string, p domain.NewModuleParams) (*domain.Module, error)
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	ListByProject(ctx context.Context, projectID string, includeArchived bool) ([]*domain.Module, error)
	UpdateDetails(ctx context.Context, actor, moduleID string, d domain.Details) (*domain.Module, error)
}

type UseCaseService interface {
	Create(ctx context.Context, actor, moduleID string, p domain.NewUseCaseParams) (*domain.UseCase, error)
	GetByID(ctx context.Context, id string) (*domain.UseCase, error)
	ListByModule(ctx context.Context, moduleID string, includeArchived bool) ([]*domain.UseCase, error)
	UpdateDetails(ctx context.Context, actor, useCaseID string, d domain.Details) (*domain.UseCase, error)
}

// TaskService runs lifecycle commands. Every successful mutation appends its
// domain events to the outbox in the same transaction.
type TaskService interface {
	Create(ctx context.Context, actor, useCaseID string, p domain.NewTaskParams) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUseCase(ctx context.Context, useCaseID string) ([]*domain.Task, error)
	Transition(ctx context.Context, actor, taskID string, action domain.TaskAction) (*domain.Task, error)
	Assign(ctx context.Context, actor, taskID, assigneeID string) (*domain.Task, error)
	// AssignAndStart assigns a project member and starts the task in one
	// transaction. Nothing is written when either step fails.
	AssignAndStart(ctx context.Context, actor, taskID, assigneeID string) (*domain.Task, error)
	UpdateDueDate(ctx context.Context, actor, taskID string, due *time.Time) (*domain.Task, error)
	UpdateDetails(ctx context.Context, actor, taskID string, d domain.Details) (*domain.Task, error)
	ListOverdue(ctx context.Context, useCaseID string, now time.Time) ([]*domain.Task, error)
}

// RelationService mutates the outgoing edges of a source task.
type RelationService interface {
	Add(ctx context.Context, actor, sourceTaskID, targetTaskID string, typ domain.RelationType) (domain.TaskRelation, error)
	// Remove reports false when the source task has no edge with that id.
	Remove(ctx context.Context, actor, sourceTaskID, relationID string) (bool, error)
	ListOutgoing(ctx context.Context, taskID string) ([]domain.TaskRelation, error)
	ListIncoming(ctx context.Context, taskID string) ([]domain.TaskRelation, error)
}
