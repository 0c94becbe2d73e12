// Package membership resolves project roles into edit decisions.
package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

// Gate answers edit questions from project_members. Admins may edit
// everything; owners and members may edit project content; a viewer may edit
// only tasks they created or are assigned to.
//
// Roles are read through the repo handed to each call. Services pass their
// tx-scoped repo, which keeps a single-connection pool from being re-entered.
type Gate struct {
	admins map[string]bool
}

func NewGate(admins ...string) *Gate {
	g := &Gate{admins: make(map[string]bool, len(admins))}
	for _, a := range admins {
		if a != "" {
			g.admins[a] = true
		}
	}
	return g
}

func (g *Gate) CanEditProject(ctx context.Context, members repository.MemberRepo, userID string, project *domain.Project) (bool, error) {
	if g.admins[userID] {
		return true, nil
	}
	m, err := lookup(ctx, members, project.ID, userID)
	if err != nil || m == nil {
		return false, err
	}
	return m.CanEdit(), nil
}

func (g *Gate) CanEditModule(ctx context.Context, members repository.MemberRepo, userID string, _ *domain.Module, project *domain.Project) (bool, error) {
	return g.CanEditProject(ctx, members, userID, project)
}

func (g *Gate) CanEditUseCase(ctx context.Context, members repository.MemberRepo, userID string, _ *domain.UseCase, project *domain.Project) (bool, error) {
	return g.CanEditProject(ctx, members, userID, project)
}

func (g *Gate) CanEditTask(ctx context.Context, members repository.MemberRepo, userID string, task *domain.Task, project *domain.Project) (bool, error) {
	if g.admins[userID] {
		return true, nil
	}
	m, err := lookup(ctx, members, project.ID, userID)
	if err != nil || m == nil {
		return false, err
	}
	if m.CanEdit() {
		return true, nil
	}
	return task.CreatorID == userID || task.AssigneeID == userID, nil
}

// CanManageMembers allows admins and project owners.
func (g *Gate) CanManageMembers(ctx context.Context, members repository.MemberRepo, userID string, project *domain.Project) (bool, error) {
	if g.admins[userID] {
		return true, nil
	}
	m, err := lookup(ctx, members, project.ID, userID)
	if err != nil || m == nil {
		return false, err
	}
	return m.Role == domain.RoleOwner, nil
}

// lookup returns nil without error when the user is not a member.
func lookup(ctx context.Context, members repository.MemberRepo, projectID, userID string) (*domain.ProjectMember, error) {
	if userID == "" {
		return nil, nil
	}
	m, err := members.Get(ctx, projectID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving membership: %w", err)
	}
	return m, nil
}
