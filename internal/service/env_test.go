package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
	"github.com/alexanderramin/strata/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	reads    *repository.Repos
	gate     *testutil.RecordingGate
	limits   domain.Limits
	observer *recordingObserver
	h        testutil.Hierarchy
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		reads:    repository.NewSQLiteRepos(database),
		gate:     testutil.NewAllowAllGate(),
		limits:   domain.DefaultLimits(),
		observer: &recordingObserver{},
		h:        testutil.SeedHierarchy(t, database),
	}
}

func (e *testEnv) hierarchy(uow db.UnitOfWork) *hierarchyService {
	s := NewHierarchyService(uow, e.gate, e.observer).(*hierarchyService)
	s.now = func() time.Time { return testNow }
	return s
}

func (e *testEnv) tasks() *taskService {
	s := NewTaskService(e.reads, e.uow, e.gate, e.limits, e.observer).(*taskService)
	s.now = func() time.Time { return testNow }
	return s
}

func (e *testEnv) relations() *relationService {
	s := NewRelationService(e.reads, e.uow, e.gate, e.limits, e.observer).(*relationService)
	s.now = func() time.Time { return testNow }
	return s
}

// pendingEventNames returns outbox event names in append order.
func (e *testEnv) pendingEventNames(t *testing.T) []string {
	t.Helper()
	events, err := e.reads.Events.ListPending(context.Background(), 100)
	require.NoError(t, err)
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}

func (e *testEnv) pendingPayload(t *testing.T, name string, out any) {
	t.Helper()
	events, err := e.reads.Events.ListPending(context.Background(), 100)
	require.NoError(t, err)
	for _, ev := range events {
		if ev.Name == name {
			require.NoError(t, json.Unmarshal(ev.Payload, out))
			return
		}
	}
	t.Fatalf("no pending %s event", name)
}
