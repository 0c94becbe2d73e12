package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCreate_Defaults(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	task, err := e.tasks().Create(ctx, "bob", e.h.UseCase.ID, domain.NewTaskParams{
		Title: "Validate refund amount",
		Type:  domain.TaskBug,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", task.CreatorID)
	assert.Equal(t, "bob", task.AssigneeID)
	assert.Equal(t, domain.TaskNotStarted, task.State)

	got, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, testNow, got.StartedDate)
}

func TestTaskCreate_DueBeforeStart(t *testing.T) {
	e := newTestEnv(t)
	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	_, err := e.tasks().Create(context.Background(), "alice", e.h.UseCase.ID, domain.NewTaskParams{
		Title:       "Backfill",
		Type:        domain.TaskFeature,
		StartedDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:     &due,
	})
	require.Error(t, err)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "due_date", ve.Fields[0].Field)
}

func TestTaskCreate_ArchivedUseCase(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, err := e.hierarchy(e.uow).ArchiveUseCase(ctx, "alice", e.h.UseCase.ID)
	require.NoError(t, err)

	_, err = e.tasks().Create(ctx, "alice", e.h.UseCase.ID, domain.NewTaskParams{Title: "Late", Type: domain.TaskTest})
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
}

func TestTransition_PersistsStateAndEvents(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Wire webhook")
	svc := e.tasks()

	got, err := svc.Transition(ctx, "alice", task.ID, domain.ActionStart)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, got.State)

	_, err = svc.Transition(ctx, "alice", task.ID, domain.ActionComplete)
	require.NoError(t, err)

	stored, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, stored.State)
	assert.Equal(t, testNow, stored.UpdatedAt)

	assert.Equal(t, []string{domain.EventTaskStarted, domain.EventTaskCompleted}, e.pendingEventNames(t))
	var ev domain.TaskLifecycleEvent
	e.pendingPayload(t, domain.EventTaskCompleted, &ev)
	assert.Equal(t, task.ID, ev.TaskID)
	assert.Equal(t, e.h.UseCase.ID, ev.UseCaseID)
	assert.Equal(t, "alice", ev.AssigneeID)
	assert.Equal(t, domain.TaskFeature, ev.TaskType)
	assert.Equal(t, domain.TaskInProgress, ev.From)
}

func TestTransition_InvalidLeavesTaskUnchanged(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Done already", testutil.WithTaskState(domain.TaskCompleted))

	for _, action := range domain.AllTaskActions {
		_, err := e.tasks().Transition(ctx, "alice", task.ID, action)
		require.Error(t, err, action)
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, domain.TaskCompleted, te.From)
	}

	stored, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, stored.State)
	assert.Equal(t, testutil.FixtureNow, stored.UpdatedAt)
	assert.Empty(t, e.pendingEventNames(t))

	ev := e.observer.last()
	assert.Equal(t, "task-revert", ev.Name)
	assert.False(t, ev.Success)
	assert.Equal(t, "completed", ev.Fields["from"])
}

func TestComplete_BlockedThenUnblocked(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1", testutil.WithTaskState(domain.TaskInProgress))
	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")

	rel, err := e.relations().Add(ctx, "alice", t1.ID, t2.ID, domain.RelationBlocks)
	require.NoError(t, err)

	_, err = e.tasks().Transition(ctx, "alice", t1.ID, domain.ActionComplete)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))

	stored, err := e.reads.Tasks.GetByID(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, stored.State)

	removed, err := e.relations().Remove(ctx, "alice", t1.ID, rel.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := e.tasks().Transition(ctx, "alice", t1.ID, domain.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, got.State)
}

func TestComplete_IncomingBlocksEdgeDoesNotGate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1", testutil.WithTaskState(domain.TaskInProgress))
	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")
	testutil.SeedRelation(t, e.db, t2.ID, t1.ID, domain.RelationBlocks)

	got, err := e.tasks().Transition(ctx, "alice", t1.ID, domain.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, got.State)
}

func TestAssign_EmitsEventAndKeepsState(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	due := testNow.Add(72 * time.Hour)
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Review", testutil.WithTaskState(domain.TaskInProgress), testutil.WithDueDate(due))

	got, err := e.tasks().Assign(ctx, "alice", task.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.AssigneeID)
	assert.Equal(t, domain.TaskInProgress, got.State)

	var ev domain.TaskAssigned
	e.pendingPayload(t, domain.EventTaskAssigned, &ev)
	assert.Equal(t, "bob", ev.AssigneeID)
	assert.Equal(t, "alice", ev.AssignerID)
	require.NotNil(t, ev.DueDate)
	assert.True(t, due.Equal(*ev.DueDate))

	_, err = e.tasks().Assign(ctx, "alice", task.ID, "")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateDueDate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Ship")

	early := testutil.FixtureNow.Add(-time.Hour)
	_, err := e.tasks().UpdateDueDate(ctx, "alice", task.ID, &early)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	later := testutil.FixtureNow.Add(24 * time.Hour)
	_, err = e.tasks().UpdateDueDate(ctx, "alice", task.ID, &later)
	require.NoError(t, err)

	stored, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DueDate)
	assert.True(t, later.Equal(*stored.DueDate))

	_, err = e.tasks().UpdateDueDate(ctx, "alice", task.ID, nil)
	require.NoError(t, err)
	stored, err = e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DueDate)
}

func TestUpdateDetails(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Draft")

	title := "Final"
	_, err := e.tasks().UpdateDetails(ctx, "alice", task.ID, domain.Details{Title: &title})
	require.NoError(t, err)

	stored, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", stored.Title)

	short := "x"
	_, err = e.tasks().UpdateDetails(ctx, "alice", task.ID, domain.Details{Title: &short})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListOverdue(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	past := testutil.FixtureNow.Add(24 * time.Hour)
	future := testutil.FixtureNow.Add(10 * 24 * time.Hour)
	now := testutil.FixtureNow.Add(48 * time.Hour)

	late := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Late", testutil.WithDueDate(past), testutil.WithTaskState(domain.TaskInProgress))
	testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Late but done", testutil.WithDueDate(past), testutil.WithTaskState(domain.TaskCompleted))
	testutil.SeedTask(t, e.db, e.h.UseCase.ID, "On time", testutil.WithDueDate(future))
	testutil.SeedTask(t, e.db, e.h.UseCase.ID, "No due date")

	overdue, err := e.tasks().ListOverdue(ctx, e.h.UseCase.ID, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}

func TestTask_AccessDenied(t *testing.T) {
	e := newTestEnv(t)
	e.gate = testutil.NewDenyGate("mallory")
	ctx := context.Background()
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Guarded")

	_, err := e.tasks().Transition(ctx, "mallory", task.ID, domain.ActionStart)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
	_, err = e.tasks().Create(ctx, "mallory", e.h.UseCase.ID, domain.NewTaskParams{Title: "Sneaky", Type: domain.TaskBug})
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))

	stored, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskNotStarted, stored.State)
}

func TestTask_NotFound(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.tasks().Transition(context.Background(), "alice", "nope", domain.ActionStart)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAssignAndStart(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.reads.Members.Add(ctx, domain.ProjectMember{
		ProjectID: e.h.Project.ID, UserID: "bob", Role: domain.RoleMember, JoinedAt: testNow,
	}))
	task := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Reconcile ledger")

	got, err := e.tasks().AssignAndStart(ctx, "alice", task.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.AssigneeID)
	assert.Equal(t, domain.TaskInProgress, got.State)

	stored, err := e.reads.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.AssigneeID)
	assert.Equal(t, domain.TaskInProgress, stored.State)
	assert.Equal(t, []string{domain.EventTaskAssigned, domain.EventTaskStarted}, e.pendingEventNames(t))
	assert.Equal(t, "assign-and-start-task", e.observer.last().Name)
}

func TestAssignAndStart_NothingWrittenOnFailure(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	fresh := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Fresh")
	running := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Running", testutil.WithTaskState(domain.TaskInProgress))

	_, err := e.tasks().AssignAndStart(ctx, "alice", fresh.ID, "stranger")
	assert.True(t, errors.Is(err, domain.ErrBusinessRule), "assignee must belong to the project")

	_, err = e.tasks().AssignAndStart(ctx, "alice", fresh.ID, " ")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = e.tasks().AssignAndStart(ctx, "alice", running.ID, "alice")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	for _, id := range []string{fresh.ID, running.ID} {
		stored, err := e.reads.Tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.AssigneeID)
	}
	stored, err := e.reads.Tasks.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskNotStarted, stored.State)
	assert.Empty(t, e.pendingEventNames(t))
}
