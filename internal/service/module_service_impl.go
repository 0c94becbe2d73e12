package service

import (
	"context"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

type moduleService struct {
	reads    *repository.Repos
	uow      db.UnitOfWork
	gate     MembershipGate
	limits   domain.Limits
	now      func() time.Time
	observer UseCaseObserver
}

func NewModuleService(reads *repository.Repos, uow db.UnitOfWork, gate MembershipGate, limits domain.Limits, observers ...UseCaseObserver) ModuleService {
	return &moduleService{
		reads:    reads,
		uow:      uow,
		gate:     gate,
		limits:   limits,
		now:      nowUTC,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *moduleService) Create(ctx context.Context, actor, projectID string, params domain.NewModuleParams) (m *domain.Module, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "project_id": projectID}
	defer func() {
		if m != nil {
			fields["module_id"] = m.ID
		}
		observe(ctx, s.observer, "create-module", startedAt, fields, err)
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
		params.CreatorID = actor
		m, err = domain.NewModule(p, params, s.limits.Module, s.now())
		if err != nil {
			return err
		}
		return r.Modules.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *moduleService) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	return s.reads.Modules.GetByID(ctx, id)
}

func (s *moduleService) ListByProject(ctx context.Context, projectID string, includeArchived bool) ([]*domain.Module, error) {
	if _, err := s.reads.Projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.reads.Modules.ListByProject(ctx, projectID, includeArchived)
}

// UpdateDetails is refused while the module's project is archived.
func (s *moduleService) UpdateDetails(ctx context.Context, actor, moduleID string, d domain.Details) (m *domain.Module, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "module_id": moduleID}
	defer func() { observe(ctx, s.observer, "update-module-details", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadModuleChain(ctx, r, moduleID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditModule(ctx, r.Members, actor, a.module, a.project)); err != nil {
			return err
		}
		if err := a.module.UpdateDetails(a.project, d, s.limits.Module, s.now()); err != nil {
			return err
		}
		m = a.module
		return r.Modules.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
