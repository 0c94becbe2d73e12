package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

type relationService struct {
	reads    *repository.Repos
	uow      db.UnitOfWork
	gate     MembershipGate
	limits   domain.Limits
	now      func() time.Time
	observer UseCaseObserver
}

func NewRelationService(reads *repository.Repos, uow db.UnitOfWork, gate MembershipGate, limits domain.Limits, observers ...UseCaseObserver) RelationService {
	return &relationService{
		reads:    reads,
		uow:      uow,
		gate:     gate,
		limits:   limits,
		now:      nowUTC,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add creates an outgoing edge on the source task. Self-edges are refused
// here even though the aggregate tolerates them; cycles between distinct
// tasks are allowed.
func (s *relationService) Add(ctx context.Context, actor, sourceTaskID, targetTaskID string, typ domain.RelationType) (rel domain.TaskRelation, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"actor":          actor,
		"source_task_id": sourceTaskID,
		"target_task_id": targetTaskID,
		"relation_type":  string(typ),
	}
	defer func() {
		if rel.ID != "" {
			fields["relation_id"] = rel.ID
		}
		observe(ctx, s.observer, "add-relation", startedAt, fields, err)
	}()

	if sourceTaskID == targetTaskID {
		return domain.TaskRelation{}, domain.BusinessRulef("a task cannot relate to itself")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadTaskChain(ctx, r, sourceTaskID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditTask(ctx, r.Members, actor, a.task, a.project)); err != nil {
			return err
		}
		if _, err := r.Tasks.GetByID(ctx, targetTaskID); err != nil {
			return fmt.Errorf("target task: %w", err)
		}
		if limit := s.limits.TaskRelationsMax; limit > 0 && len(a.task.Relations()) >= limit {
			return domain.BusinessRulef("task already has the maximum of %d relations", limit)
		}

		now := s.now()
		rel, err = domain.NewTaskRelation(a.task.ID, targetTaskID, typ, now)
		if err != nil {
			return err
		}
		if err := a.task.AddRelation(rel, now); err != nil {
			return err
		}
		// The unique index still guards against a concurrent duplicate.
		if err := r.Relations.Create(ctx, rel); err != nil {
			return err
		}
		return r.Tasks.Update(ctx, a.task)
	})
	if err != nil {
		return domain.TaskRelation{}, err
	}
	return rel, nil
}

func (s *relationService) Remove(ctx context.Context, actor, sourceTaskID, relationID string) (removed bool, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "source_task_id": sourceTaskID, "relation_id": relationID}
	defer func() {
		fields["removed"] = removed
		observe(ctx, s.observer, "remove-relation", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadTaskChain(ctx, r, sourceTaskID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditTask(ctx, r.Members, actor, a.task, a.project)); err != nil {
			return err
		}
		// Only edges owned by the source task can be removed through it.
		if removed = a.task.RemoveRelation(relationID, s.now()); !removed {
			return nil
		}
		if err := r.Relations.Delete(ctx, relationID); err != nil {
			return err
		}
		return r.Tasks.Update(ctx, a.task)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *relationService) ListOutgoing(ctx context.Context, taskID string) ([]domain.TaskRelation, error) {
	if _, err := s.reads.Tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.reads.Relations.ListBySource(ctx, taskID)
}

// ListIncoming is read-only; incoming edges belong to their source tasks.
func (s *relationService) ListIncoming(ctx context.Context, taskID string) ([]domain.TaskRelation, error) {
	if _, err := s.reads.Tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.reads.Relations.ListByTarget(ctx, taskID)
}
