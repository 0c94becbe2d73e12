package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/repository"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// ancestry is a loaded chain from some node up to its project. Only the
// levels at or above the starting node are set.
type ancestry struct {
	project *domain.Project
	module  *domain.Module
	useCase *domain.UseCase
	task    *domain.Task
}

func loadModuleChain(ctx context.Context, r *repository.Repos, moduleID string) (ancestry, error) {
	m, err := r.Modules.GetByID(ctx, moduleID)
	if err != nil {
		return ancestry{}, err
	}
	p, err := r.Projects.GetByID(ctx, m.ProjectID)
	if err != nil {
		return ancestry{}, fmt.Errorf("loading project of module %s: %w", moduleID, err)
	}
	return ancestry{project: p, module: m}, nil
}

func loadUseCaseChain(ctx context.Context, r *repository.Repos, useCaseID string) (ancestry, error) {
	u, err := r.UseCases.GetByID(ctx, useCaseID)
	if err != nil {
		return ancestry{}, err
	}
	a, err := loadModuleChain(ctx, r, u.ModuleID)
	if err != nil {
		return ancestry{}, fmt.Errorf("loading module of use case %s: %w", useCaseID, err)
	}
	a.useCase = u
	return a, nil
}

func loadTaskChain(ctx context.Context, r *repository.Repos, taskID string) (ancestry, error) {
	t, err := r.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return ancestry{}, err
	}
	a, err := loadUseCaseChain(ctx, r, t.UseCaseID)
	if err != nil {
		return ancestry{}, fmt.Errorf("loading use case of task %s: %w", taskID, err)
	}
	a.task = t
	return a, nil
}

// authorize converts a gate decision into domain.ErrAccessDenied.
func authorize(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("checking permissions: %w", err)
	}
	if !ok {
		return domain.AccessDenied()
	}
	return nil
}

// eventSource is implemented by every aggregate via domain.Entity.
type eventSource interface {
	PullEvents() []domain.Event
}

// flushEvents drains pending events of each aggregate into the outbox.
func flushEvents(ctx context.Context, outbox repository.EventOutbox, sources ...eventSource) error {
	var events []domain.Event
	for _, s := range sources {
		events = append(events, s.PullEvents()...)
	}
	if len(events) == 0 {
		return nil
	}
	return outbox.Append(ctx, events...)
}

// isDomainRejection reports whether err is an expected refusal rather than
// an infrastructure failure.
func isDomainRejection(err error) bool {
	for _, kind := range []error{
		domain.ErrValidation,
		domain.ErrInvalidTransition,
		domain.ErrBusinessRule,
		domain.ErrAccessDenied,
		domain.ErrNotFound,
		domain.ErrConflict,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
