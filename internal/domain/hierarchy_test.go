package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHierarchy(t *testing.T) (*Project, *Module, *UseCase) {
	t.Helper()
	l := DefaultLimits()
	p, err := NewProject(NewProjectParams{CreatorID: "alice", Title: "Shop"}, l.Project, testNow)
	require.NoError(t, err)
	m, err := NewModule(p, NewModuleParams{CreatorID: "alice", Title: "Payments"}, l.Module, testNow)
	require.NoError(t, err)
	uc, err := NewUseCase(m, NewUseCaseParams{CreatorID: "alice", Title: "Refund order"}, l.UseCase, testNow)
	require.NoError(t, err)
	return p, m, uc
}

func TestNewProject_Defaults(t *testing.T) {
	p, _, _ := newTestHierarchy(t)
	assert.True(t, p.IsActive)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, testNow, p.StartedDate)
	assert.Equal(t, testNow, p.UpdatedAt)
	assert.Nil(t, p.DeletedAt)
}

func TestNewProject_ValidationCollectsFields(t *testing.T) {
	_, err := NewProject(NewProjectParams{
		Title:       "ab",
		Description: strings.Repeat("x", 1001),
	}, DefaultLimits().Project, testNow)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := []string{}
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"creator_id", "title", "description"}, fields)
}

func TestProject_ArchiveActivate_Idempotent(t *testing.T) {
	p, _, _ := newTestHierarchy(t)

	assert.False(t, p.Activate(testNow), "already active")
	assert.Empty(t, p.PullEvents())

	assert.True(t, p.Archive(testNow))
	assert.False(t, p.Archive(testNow))
	events := p.PullEvents()
	require.Len(t, events, 1)
	ev := events[0].(ProjectStatusChanged)
	assert.True(t, ev.WasActive)
	assert.False(t, ev.IsActive)
	assert.Equal(t, "alice", ev.CreatorID)
}

func TestModuleActivate_ArchivedProjectFails(t *testing.T) {
	p, m, _ := newTestHierarchy(t)
	p.Archive(testNow)
	m.Archive(testNow)
	m.PullEvents()

	changed, err := m.Activate(p, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusinessRule))
	assert.Contains(t, err.Error(), "activate the project first")
	assert.False(t, changed)
	assert.False(t, m.IsActive)
	assert.Empty(t, m.PullEvents())
}

func TestModuleActivate_WrongProject(t *testing.T) {
	_, m, _ := newTestHierarchy(t)
	other := &Project{Entity: Entity{ID: "other"}, IsActive: true}
	_, err := m.Activate(other, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))
}

func TestModule_ArchiveThenActivate(t *testing.T) {
	p, m, _ := newTestHierarchy(t)

	assert.True(t, m.Archive(testNow))
	assert.False(t, m.Archive(testNow), "second archive is a no-op")

	changed, err := m.Activate(p, testNow)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.Activate(p, testNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, m.PullEvents(), 2)
}

func TestUseCaseActivate_RequiresActiveModule(t *testing.T) {
	_, m, uc := newTestHierarchy(t)
	m.Archive(testNow)
	uc.Archive(testNow)

	_, err := uc.Activate(m, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))
	assert.False(t, uc.IsActive)
}

func TestCreateUnderArchivedParent(t *testing.T) {
	l := DefaultLimits()
	p, m, uc := newTestHierarchy(t)

	p.Archive(testNow)
	_, err := NewModule(p, NewModuleParams{CreatorID: "alice", Title: "Search"}, l.Module, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))

	m.Archive(testNow)
	_, err = NewUseCase(m, NewUseCaseParams{CreatorID: "alice", Title: "Search"}, l.UseCase, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))

	uc.Archive(testNow)
	_, err = NewTask(uc, NewTaskParams{CreatorID: "alice", Title: "Index", Type: TaskFeature}, l.Task, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))
}
