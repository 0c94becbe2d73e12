package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

// RecordingGate is a membership gate stub. Users listed in Deny are refused
// everything; Err, when set, is returned from every check.
type RecordingGate struct {
	Deny map[string]bool
	Err  error

	mu    sync.Mutex
	Calls []string
}

// NewAllowAllGate returns a gate that approves every user.
func NewAllowAllGate() *RecordingGate {
	return &RecordingGate{}
}

// NewDenyGate refuses the listed users.
func NewDenyGate(users ...string) *RecordingGate {
	g := &RecordingGate{Deny: map[string]bool{}}
	for _, u := range users {
		g.Deny[u] = true
	}
	return g
}

func (g *RecordingGate) decide(call, userID string) (bool, error) {
	g.mu.Lock()
	g.Calls = append(g.Calls, call+":"+userID)
	g.mu.Unlock()
	if g.Err != nil {
		return false, g.Err
	}
	return !g.Deny[userID], nil
}

func (g *RecordingGate) CanEditProject(_ context.Context, _ repository.MemberRepo, userID string, _ *domain.Project) (bool, error) {
	return g.decide("project", userID)
}

func (g *RecordingGate) CanEditModule(_ context.Context, _ repository.MemberRepo, userID string, _ *domain.Module, _ *domain.Project) (bool, error) {
	return g.decide("module", userID)
}

func (g *RecordingGate) CanEditUseCase(_ context.Context, _ repository.MemberRepo, userID string, _ *domain.UseCase, _ *domain.Project) (bool, error) {
	return g.decide("usecase", userID)
}

func (g *RecordingGate) CanEditTask(_ context.Context, _ repository.MemberRepo, userID string, _ *domain.Task, _ *domain.Project) (bool, error) {
	return g.decide("task", userID)
}

func (g *RecordingGate) CanManageMembers(_ context.Context, _ repository.MemberRepo, userID string, _ *domain.Project) (bool, error) {
	return g.decide("members", userID)
}
