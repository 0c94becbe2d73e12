package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreate_CreatorBecomesOwner(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits, e.observer)

	p, err := svc.Create(ctx, "carol", domain.NewProjectParams{Title: "Warehouse", Description: "Inventory"})
	require.NoError(t, err)
	assert.Equal(t, "carol", p.CreatorID)
	assert.True(t, p.IsActive)

	members, err := svc.ListMembers(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "carol", members[0].UserID)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
}

func TestProjectCreate_Validation(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits)

	_, err := svc.Create(context.Background(), "carol", domain.NewProjectParams{Title: "W"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	list, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, list, 1, "only the seeded project exists")
}

func TestProjectMembers(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewProjectService(e.reads, e.uow, e.gate, e.limits)

	require.NoError(t, svc.AddMember(ctx, "alice", e.h.Project.ID, "bob", domain.RoleMember))
	err := svc.AddMember(ctx, "alice", e.h.Project.ID, "bob", domain.RoleViewer)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	err = svc.AddMember(ctx, "alice", e.h.Project.ID, "dan", "guest")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	err = svc.RemoveMember(ctx, "alice", e.h.Project.ID, "alice")
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))

	require.NoError(t, svc.RemoveMember(ctx, "alice", e.h.Project.ID, "bob"))
	err = svc.RemoveMember(ctx, "alice", e.h.Project.ID, "bob")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestModuleAndUseCaseCreate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	modules := NewModuleService(e.reads, e.uow, e.gate, e.limits)
	useCases := NewUseCaseService(e.reads, e.uow, e.gate, e.limits)

	m, err := modules.Create(ctx, "alice", e.h.Project.ID, domain.NewModuleParams{Title: "Shipping"})
	require.NoError(t, err)
	assert.Equal(t, e.h.Project.ID, m.ProjectID)

	uc, err := useCases.Create(ctx, "alice", m.ID, domain.NewUseCaseParams{Title: "Track parcel", ImportantNotes: "carrier API is slow"})
	require.NoError(t, err)
	assert.Equal(t, m.ID, uc.ModuleID)

	list, err := useCases.ListByModule(ctx, m.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "carrier API is slow", list[0].ImportantNotes)

	_, err = e.hierarchy(e.uow).ArchiveModule(ctx, "alice", m.ID)
	require.NoError(t, err)
	_, err = useCases.Create(ctx, "alice", m.ID, domain.NewUseCaseParams{Title: "Return parcel"})
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))

	list, err = useCases.ListByModule(ctx, m.ID, false)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = modules.ListByProject(ctx, "missing", true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "archive-module", Success: true, Fields: map[string]any{"module_id": "m1"}})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "task-start", Err: domain.AccessDenied()})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "task-start", Err: errors.New("disk full")})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "use_case=archive-module")
	assert.Contains(t, out, "module_id=m1")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `error="disk full"`)

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, nil))
}
