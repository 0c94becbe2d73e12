package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

type hierarchyService struct {
	uow      db.UnitOfWork
	gate     MembershipGate
	now      func() time.Time
	observer UseCaseObserver
}

func NewHierarchyService(uow db.UnitOfWork, gate MembershipGate, observers ...UseCaseObserver) HierarchyService {
	return &hierarchyService{
		uow:      uow,
		gate:     gate,
		now:      nowUTC,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *hierarchyService) ActivateProject(ctx context.Context, actor, projectID string) (res StatusChangeResult, err error) {
	return s.changeProject(ctx, "activate-project", actor, projectID, true)
}

// ArchiveProject does not cascade to modules.
func (s *hierarchyService) ArchiveProject(ctx context.Context, actor, projectID string) (res StatusChangeResult, err error) {
	return s.changeProject(ctx, "archive-project", actor, projectID, false)
}

func (s *hierarchyService) changeProject(ctx context.Context, name, actor, projectID string, activate bool) (res StatusChangeResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "actor": actor}
	defer func() {
		fields["changed"] = res.Changed
		observe(ctx, s.observer, name, startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		p, err := r.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditProject(ctx, r.Members, actor, p)); err != nil {
			return err
		}

		now := s.now()
		if activate {
			res.Changed = p.Activate(now)
		} else {
			res.Changed = p.Archive(now)
		}
		if !res.Changed {
			return nil
		}
		if err := r.Projects.Update(ctx, p); err != nil {
			return err
		}
		return flushEvents(ctx, r.Events, p)
	})
	if err != nil {
		return StatusChangeResult{}, err
	}
	return res, nil
}

func (s *hierarchyService) ActivateModule(ctx context.Context, actor, moduleID string) (res StatusChangeResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"module_id": moduleID, "actor": actor}
	defer func() {
		fields["changed"] = res.Changed
		observe(ctx, s.observer, "activate-module", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadModuleChain(ctx, r, moduleID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditModule(ctx, r.Members, actor, a.module, a.project)); err != nil {
			return err
		}

		res.Changed, err = a.module.Activate(a.project, s.now())
		if err != nil || !res.Changed {
			return err
		}
		if err := r.Modules.Update(ctx, a.module); err != nil {
			return err
		}
		return flushEvents(ctx, r.Events, a.module)
	})
	if err != nil {
		return StatusChangeResult{}, err
	}
	return res, nil
}

// ArchiveModule flips the module and then archives its still-active use cases
// with one bulk update. Both writes share the transaction, so a failed
// cascade leaves the module active.
func (s *hierarchyService) ArchiveModule(ctx context.Context, actor, moduleID string) (res StatusChangeResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"module_id": moduleID, "actor": actor}
	defer func() {
		fields["changed"] = res.Changed
		fields["cascaded_use_cases"] = res.CascadedUseCases
		observe(ctx, s.observer, "archive-module", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadModuleChain(ctx, r, moduleID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditModule(ctx, r.Members, actor, a.module, a.project)); err != nil {
			return err
		}

		now := s.now()
		if res.Changed = a.module.Archive(now); !res.Changed {
			return nil
		}
		if err := r.Modules.Update(ctx, a.module); err != nil {
			return err
		}
		n, err := r.UseCases.ArchiveByModuleID(ctx, a.module.ID, now)
		if err != nil {
			return fmt.Errorf("cascading archive to use cases: %w", err)
		}
		res.CascadedUseCases = n

		events := a.module.PullEvents()
		for i, ev := range events {
			if mc, ok := ev.(domain.ModuleStatusChanged); ok {
				mc.CascadedUseCases = n
				events[i] = mc
			}
		}
		return r.Events.Append(ctx, events...)
	})
	if err != nil {
		return StatusChangeResult{}, err
	}
	return res, nil
}

func (s *hierarchyService) ActivateUseCase(ctx context.Context, actor, useCaseID string) (res StatusChangeResult, err error) {
	return s.changeUseCase(ctx, "activate-usecase", actor, useCaseID, true)
}

func (s *hierarchyService) ArchiveUseCase(ctx context.Context, actor, useCaseID string) (res StatusChangeResult, err error) {
	return s.changeUseCase(ctx, "archive-usecase", actor, useCaseID, false)
}

func (s *hierarchyService) changeUseCase(ctx context.Context, name, actor, useCaseID string, activate bool) (res StatusChangeResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"use_case_id": useCaseID, "actor": actor}
	defer func() {
		fields["changed"] = res.Changed
		observe(ctx, s.observer, name, startedAt, fields, err)
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

		now := s.now()
		if activate {
			res.Changed, err = a.useCase.Activate(a.module, now)
			if err != nil {
				return err
			}
		} else {
			res.Changed = a.useCase.Archive(now)
		}
		if !res.Changed {
			return nil
		}
		if err := r.UseCases.Update(ctx, a.useCase); err != nil {
			return err
		}
		return flushEvents(ctx, r.Events, a.useCase)
	})
	if err != nil {
		return StatusChangeResult{}, err
	}
	return res, nil
}
