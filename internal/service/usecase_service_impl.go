package service

import (
	"context"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

type useCaseService struct {
	reads    *repository.Repos
	uow      db.UnitOfWork
	gate     MembershipGate
	limits   domain.Limits
	now      func() time.Time
	observer UseCaseObserver
}

func NewUseCaseService(reads *repository.Repos, uow db.UnitOfWork, gate MembershipGate, limits domain.Limits, observers ...UseCaseObserver) UseCaseService {
	return &useCaseService{
		reads:    reads,
		uow:      uow,
		gate:     gate,
		limits:   limits,
		now:      nowUTC,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *useCaseService) Create(ctx context.Context, actor, moduleID string, params domain.NewUseCaseParams) (u *domain.UseCase, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "module_id": moduleID}
	defer func() {
		if u != nil {
			fields["use_case_id"] = u.ID
		}
		observe(ctx, s.observer, "create-usecase", startedAt, fields, err)
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
		params.CreatorID = actor
		u, err = domain.NewUseCase(a.module, params, s.limits.UseCase, s.now())
		if err != nil {
			return err
		}
		return r.UseCases.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *useCaseService) GetByID(ctx context.Context, id string) (*domain.UseCase, error) {
	return s.reads.UseCases.GetByID(ctx, id)
}

func (s *useCaseService) ListByModule(ctx context.Context, moduleID string, includeArchived bool) ([]*domain.UseCase, error) {
	if _, err := s.reads.Modules.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}
	return s.reads.UseCases.ListByModule(ctx, moduleID, includeArchived)
}

// UpdateDetails is refused while the use case's module is archived.
func (s *useCaseService) UpdateDetails(ctx context.Context, actor, useCaseID string, d domain.Details) (u *domain.UseCase, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "use_case_id": useCaseID}
	defer func() { observe(ctx, s.observer, "update-usecase-details", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		a, err := loadUseCaseChain(ctx, r, useCaseID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditUseCase(ctx, r.Members, actor, a.useCase, a.project)); err != nil {
			return err
		}
		if err := a.useCase.UpdateDetails(a.module, d, s.limits.UseCase, s.now()); err != nil {
			return err
		}
		u = a.useCase
		return r.UseCases.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
