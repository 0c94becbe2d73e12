package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

type taskService struct {
	reads    *repository.Repos
	uow      db.UnitOfWork
	gate     MembershipGate
	limits   domain.Limits
	now      func() time.Time
	observer UseCaseObserver
}

func NewTaskService(reads *repository.Repos, uow db.UnitOfWork, gate MembershipGate, limits domain.Limits, observers ...UseCaseObserver) TaskService {
	return &taskService{
		reads:    reads,
		uow:      uow,
		gate:     gate,
		limits:   limits,
		now:      nowUTC,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, actor, useCaseID string, params domain.NewTaskParams) (t *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "use_case_id": useCaseID}
	defer func() {
		if t != nil {
			fields["task_id"] = t.ID
		}
		observe(ctx, s.observer, "create-task", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadUseCaseChain(ctx, r, useCaseID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditUseCase(ctx, r.Members, actor, a.useCase, a.project)); err != nil {
			return err
		}
		params.CreatorID = actor
		t, err = domain.NewTask(a.useCase, params, s.limits.Task, s.now())
		if err != nil {
			return err
		}
		return r.Tasks.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.reads.Tasks.GetByID(ctx, id)
}

func (s *taskService) ListByUseCase(ctx context.Context, useCaseID string) ([]*domain.Task, error) {
	if _, err := s.reads.UseCases.GetByID(ctx, useCaseID); err != nil {
		return nil, err
	}
	return s.reads.Tasks.ListByUseCase(ctx, useCaseID)
}

// Transition applies a lifecycle action. Complete consults the task's own
// outgoing Blocks edges, loaded with the task inside the transaction.
func (s *taskService) Transition(ctx context.Context, actor, taskID string, action domain.TaskAction) (t *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "task_id": taskID, "action": string(action)}
	defer func() {
		if t != nil {
			fields["to"] = string(t.State)
		}
		observe(ctx, s.observer, "task-"+string(action), startedAt, fields, err)
	}()

	return s.mutate(ctx, actor, taskID, func(task *domain.Task, now time.Time) error {
		fields["from"] = string(task.State)
		return task.Apply(action, now)
	})
}

func (s *taskService) Assign(ctx context.Context, actor, taskID, assigneeID string) (t *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "task_id": taskID, "assignee_id": assigneeID}
	defer func() { observe(ctx, s.observer, "assign-task", startedAt, fields, err) }()

	return s.mutate(ctx, actor, taskID, func(task *domain.Task, now time.Time) error {
		return task.AssignTo(assigneeID, actor, now)
	})
}

func (s *taskService) AssignAndStart(ctx context.Context, actor, taskID, assigneeID string) (t *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "task_id": taskID, "assignee_id": assigneeID}
	defer func() { observe(ctx, s.observer, "assign-and-start-task", startedAt, fields, err) }()

	return s.mutateInTx(ctx, actor, taskID, func(ctx context.Context, r *repository.Repos, a ancestry, now time.Time) error {
		if err := a.task.AssignTo(assigneeID, actor, now); err != nil {
			return err
		}
		if _, err := r.Members.Get(ctx, a.project.ID, assigneeID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.BusinessRulef("%s is not a member of project %q", assigneeID, a.project.Title)
			}
			return err
		}
		return a.task.Apply(domain.ActionStart, now)
	})
}

func (s *taskService) UpdateDueDate(ctx context.Context, actor, taskID string, due *time.Time) (t *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "task_id": taskID, "cleared": due == nil}
	defer func() { observe(ctx, s.observer, "update-task-due", startedAt, fields, err) }()

	return s.mutate(ctx, actor, taskID, func(task *domain.Task, now time.Time) error {
		return task.UpdateDueDate(due, now)
	})
}

func (s *taskService) UpdateDetails(ctx context.Context, actor, taskID string, d domain.Details) (t *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "task_id": taskID}
	defer func() { observe(ctx, s.observer, "update-task-details", startedAt, fields, err) }()

	return s.mutate(ctx, actor, taskID, func(task *domain.Task, now time.Time) error {
		return task.UpdateDetails(d, s.limits.Task, now)
	})
}

// ListOverdue evaluates IsOverdue at query time; nothing is cached.
func (s *taskService) ListOverdue(ctx context.Context, useCaseID string, now time.Time) ([]*domain.Task, error) {
	candidates, err := s.reads.Tasks.ListOverdueCandidates(ctx, useCaseID, now)
	if err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, t := range candidates {
		if t.IsOverdue(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

// mutate loads the task chain, asks the gate, applies fn and persists the
// task together with its events. Nothing is written when fn fails.
func (s *taskService) mutate(ctx context.Context, actor, taskID string, fn func(*domain.Task, time.Time) error) (*domain.Task, error) {
	return s.mutateInTx(ctx, actor, taskID, func(_ context.Context, _ *repository.Repos, a ancestry, now time.Time) error {
		return fn(a.task, now)
	})
}

// mutateInTx is mutate for callbacks that also read through the tx repos.
func (s *taskService) mutateInTx(ctx context.Context, actor, taskID string, fn func(context.Context, *repository.Repos, ancestry, time.Time) error) (*domain.Task, error) {
	var out *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadTaskChain(ctx, r, taskID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditTask(ctx, r.Members, actor, a.task, a.project)); err != nil {
			return err
		}
		if err := fn(ctx, r, a, s.now()); err != nil {
			return err
		}
		if err := r.Tasks.Update(ctx, a.task); err != nil {
			return err
		}
		if err := flushEvents(ctx, r.Events, a.task); err != nil {
			return err
		}
		out = a.task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
