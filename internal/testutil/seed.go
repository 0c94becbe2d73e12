package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

// Hierarchy is one persisted Project > Module > UseCase chain.
type Hierarchy struct {
	Project *domain.Project
	Module  *domain.Module
	UseCase *domain.UseCase
}

// SeedHierarchy persists an active project, module and use case, and makes
// the project creator an owner.
func SeedHierarchy(t *testing.T, database *sql.DB) Hierarchy {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewSQLiteRepos(database)

	h := Hierarchy{Project: NewTestProject("Shop")}
	h.Module = NewTestModule(h.Project.ID, "Payments")
	h.UseCase = NewTestUseCase(h.Module.ID, "Refund order")

	mustNoErr(t, repos.Projects.Create(ctx, h.Project))
	mustNoErr(t, repos.Members.Add(ctx, domain.ProjectMember{
		ProjectID: h.Project.ID, UserID: h.Project.CreatorID, Role: domain.RoleOwner, JoinedAt: FixtureNow,
	}))
	mustNoErr(t, repos.Modules.Create(ctx, h.Module))
	mustNoErr(t, repos.UseCases.Create(ctx, h.UseCase))
	return h
}

// SeedTask persists a task fixture under useCaseID.
func SeedTask(t *testing.T, database *sql.DB, useCaseID, title string, opts ...TaskOption) *domain.Task {
	t.Helper()
	task := NewTestTask(useCaseID, title, opts...)
	mustNoErr(t, repository.NewSQLiteTaskRepo(database).Create(context.Background(), task))
	return task
}

// SeedRelation persists an edge without going through the service rules.
func SeedRelation(t *testing.T, database *sql.DB, sourceID, targetID string, typ domain.RelationType) domain.TaskRelation {
	t.Helper()
	rel := NewTestRelation(sourceID, targetID, typ)
	mustNoErr(t, repository.NewSQLiteTaskRelationRepo(database).Create(context.Background(), rel))
	return rel
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("seeding fixture: %v", err)
	}
}
