package service

import (
	"context"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

type projectService struct {
	reads    *repository.Repos
	uow      db.UnitOfWork
	gate     MembershipGate
	limits   domain.Limits
	now      func() time.Time
	observer UseCaseObserver
}

func NewProjectService(reads *repository.Repos, uow db.UnitOfWork, gate MembershipGate, limits domain.Limits, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		reads:    reads,
		uow:      uow,
		gate:     gate,
		limits:   limits,
		now:      nowUTC,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores the project and makes the actor its owner.
func (s *projectService) Create(ctx context.Context, actor string, params domain.NewProjectParams) (p *domain.Project, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor}
	defer func() {
		if p != nil {
			fields["project_id"] = p.ID
		}
		observe(ctx, s.observer, "create-project", startedAt, fields, err)
	}()

	now := s.now()
	params.CreatorID = actor
	p, err = domain.NewProject(params, s.limits.Project, now)
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		if err := r.Projects.Create(ctx, p); err != nil {
			return err
		}
		return r.Members.Add(ctx, domain.ProjectMember{
			ProjectID: p.ID,
			UserID:    actor,
			Role:      domain.RoleOwner,
			JoinedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.reads.Projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.reads.Projects.List(ctx, includeArchived)
}

func (s *projectService) AddMember(ctx context.Context, actor, projectID, userID string, role domain.ProjectRole) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "project_id": projectID, "user_id": userID, "role": string(role)}
	defer func() { observe(ctx, s.observer, "add-member", startedAt, fields, err) }()

	if userID == "" {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "user_id", Message: "is required"}}}
	}
	if !domain.ValidProjectRoles[string(role)] {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "role", Message: "unknown role " + string(role)}}}
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		p, err := r.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditProject(ctx, r.Members, actor, p)); err != nil {
			return err
		}
		return r.Members.Add(ctx, domain.ProjectMember{
			ProjectID: projectID,
			UserID:    userID,
			Role:      role,
			JoinedAt:  s.now(),
		})
	})
}

// RemoveMember refuses to remove the project creator.
func (s *projectService) RemoveMember(ctx context.Context, actor, projectID, userID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "project_id": projectID, "user_id": userID}
	defer func() { observe(ctx, s.observer, "remove-member", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		p, err := r.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditProject(ctx, r.Members, actor, p)); err != nil {
			return err
		}
		if userID == p.CreatorID {
			return domain.BusinessRulef("the project creator cannot be removed from the project")
		}
		return r.Members.Remove(ctx, projectID, userID)
	})
}

func (s *projectService) ListMembers(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	return s.reads.Members.ListByProject(ctx, projectID)
}

func (s *projectService) UpdateDetails(ctx context.Context, actor, projectID string, d domain.Details) (p *domain.Project, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "project_id": projectID}
	defer func() { observe(ctx, s.observer, "update-project-details", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		p, err = r.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanEditProject(ctx, r.Members, actor, p)); err != nil {
			return err
		}
		if err := p.UpdateDetails(d, s.limits.Project, s.now()); err != nil {
			return err
		}
		return r.Projects.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) UpdateMemberRole(ctx context.Context, actor, projectID, userID string, role domain.ProjectRole) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor": actor, "project_id": projectID, "user_id": userID, "role": string(role)}
	defer func() { observe(ctx, s.observer, "update-member-role", startedAt, fields, err) }()

	if !domain.ValidProjectRoles[string(role)] {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "role", Message: "unknown role " + string(role)}}}
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteRepos(tx)
		p, err := r.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := authorize(s.gate.CanManageMembers(ctx, r.Members, actor, p)); err != nil {
			return err
		}
		m, err := r.Members.Get(ctx, projectID, userID)
		if err != nil {
			return err
		}
		if role == domain.RoleOwner {
			return domain.BusinessRulef("the owner role is only granted when the project is created")
		}
		if m.Role == role {
			return nil
		}
		if m.Role == domain.RoleOwner {
			owners, err := r.Members.CountByRole(ctx, projectID, domain.RoleOwner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.BusinessRulef("the last owner's role cannot be changed")
			}
		}
		if err := r.Members.UpdateRole(ctx, projectID, userID, role); err != nil {
			return err
		}
		fields["from"] = string(m.Role)
		return r.Events.Append(ctx, domain.MemberRoleChanged{
			ProjectID: projectID,
			UserID:    userID,
			From:      m.Role,
			To:        role,
			ChangedBy: actor,
			At:        s.now(),
		})
	})
}
