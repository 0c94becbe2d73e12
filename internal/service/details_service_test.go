package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProjectUpdateDetails(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits, e.observer)

	_, err := svc.UpdateDetails(ctx, "alice", e.h.Project.ID, domain.Details{
		Title:       strPtr("Storefront"),
		Description: strPtr("Customer facing shop"),
	})
	require.NoError(t, err)
	assert.Equal(t, "update-project-details", e.observer.last().Name)

	stored, err := e.reads.Projects.GetByID(ctx, e.h.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Storefront", stored.Title)
	assert.Equal(t, "Customer facing shop", stored.Description)
	assert.True(t, stored.IsActive)

	_, err = svc.UpdateDetails(ctx, "alice", e.h.Project.ID, domain.Details{Title: strPtr(strings.Repeat("t", e.limits.Project.TitleMax+1))})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.UpdateDetails(ctx, "alice", "missing", domain.Details{Title: strPtr("Anything")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectUpdateDetails_UsesConfiguredLimits(t *testing.T) {
	e := newTestEnv(t)
	e.limits.Project.TitleMax = 5
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits)

	_, err := svc.UpdateDetails(context.Background(), "alice", e.h.Project.ID, domain.Details{Title: strPtr("Storefront")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Fields[0].Field)
}

func TestModuleUpdateDetails_ArchivedProject(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewModuleService(e.reads, e.uow, e.gate, e.limits)

	m, err := svc.UpdateDetails(ctx, "alice", e.h.Module.ID, domain.Details{Title: strPtr("Billing")})
	require.NoError(t, err)
	assert.Equal(t, "Billing", m.Title)

	_, err = e.hierarchy(e.uow).ArchiveProject(ctx, "alice", e.h.Project.ID)
	require.NoError(t, err)

	_, err = svc.UpdateDetails(ctx, "alice", e.h.Module.ID, domain.Details{Title: strPtr("Invoices")})
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))

	stored, err := e.reads.Modules.GetByID(ctx, e.h.Module.ID)
	require.NoError(t, err)
	assert.Equal(t, "Billing", stored.Title)
}

func TestUseCaseUpdateDetails(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewUseCaseService(e.reads, e.uow, e.gate, e.limits)

	_, err := svc.UpdateDetails(ctx, "alice", e.h.UseCase.ID, domain.Details{ImportantNotes: strPtr("refunds go through the ledger")})
	require.NoError(t, err)

	stored, err := e.reads.UseCases.GetByID(ctx, e.h.UseCase.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunds go through the ledger", stored.ImportantNotes)
	assert.Equal(t, "Refund order", stored.Title)

	_, err = e.hierarchy(e.uow).ArchiveModule(ctx, "alice", e.h.Module.ID)
	require.NoError(t, err)
	_, err = svc.UpdateDetails(ctx, "alice", e.h.UseCase.ID, domain.Details{Title: strPtr("Partial refund")})
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
}

func TestUpdateDetails_AccessDenied(t *testing.T) {
	e := newTestEnv(t)
	e.gate = testutil.NewDenyGate("mallory")
	ctx := context.Background()
	title := domain.Details{Title: strPtr("Hijacked")}

	_, err := NewProjectService(e.reads, e.uow, e.gate, e.limits).UpdateDetails(ctx, "mallory", e.h.Project.ID, title)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
	_, err = NewModuleService(e.reads, e.uow, e.gate, e.limits).UpdateDetails(ctx, "mallory", e.h.Module.ID, title)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
	_, err = NewUseCaseService(e.reads, e.uow, e.gate, e.limits).UpdateDetails(ctx, "mallory", e.h.UseCase.ID, title)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
	assert.Equal(t, []string{"project:mallory", "module:mallory", "usecase:mallory"}, e.gate.Calls)

	stored, err := e.reads.Projects.GetByID(ctx, e.h.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop", stored.Title)
}

func TestUpdateMemberRole(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits, e.observer)
	require.NoError(t, svc.AddMember(ctx, "alice", e.h.Project.ID, "bob", domain.RoleMember))

	require.NoError(t, svc.UpdateMemberRole(ctx, "alice", e.h.Project.ID, "bob", domain.RoleViewer))
	m, err := e.reads.Members.Get(ctx, e.h.Project.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, m.Role)
	assert.Equal(t, []string{"members:alice"}, e.gate.Calls[len(e.gate.Calls)-1:])

	var ev domain.MemberRoleChanged
	e.pendingPayload(t, domain.EventMemberRoleChanged, &ev)
	assert.Equal(t, domain.RoleMember, ev.From)
	assert.Equal(t, domain.RoleViewer, ev.To)
	assert.Equal(t, "alice", ev.ChangedBy)
}

func TestUpdateMemberRole_Rules(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits)
	require.NoError(t, svc.AddMember(ctx, "alice", e.h.Project.ID, "bob", domain.RoleMember))

	err := svc.UpdateMemberRole(ctx, "alice", e.h.Project.ID, "bob", domain.RoleOwner)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule), "owner is never granted here")

	err = svc.UpdateMemberRole(ctx, "alice", e.h.Project.ID, "alice", domain.RoleMember)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule), "last owner keeps the role")

	err = svc.UpdateMemberRole(ctx, "alice", e.h.Project.ID, "nobody", domain.RoleViewer)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = svc.UpdateMemberRole(ctx, "alice", e.h.Project.ID, "bob", "guest")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Empty(t, e.pendingEventNames(t))
}

func TestUpdateMemberRole_SecondOwnerCanBeDemoted(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits)
	require.NoError(t, svc.AddMember(ctx, "alice", e.h.Project.ID, "carol", domain.RoleOwner))

	require.NoError(t, svc.UpdateMemberRole(ctx, "alice", e.h.Project.ID, "carol", domain.RoleMember))
	n, err := e.reads.Members.CountByRole(ctx, e.h.Project.ID, domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
