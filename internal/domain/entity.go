package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity holds identity and audit fields shared by every aggregate.
// Events recorded by mutations are buffered until PullEvents drains them.
type Entity struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	events []Event
}

func newEntity(now time.Time) Entity {
	return Entity{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
}

func (e *Entity) touch(now time.Time) {
	e.UpdatedAt = now
}

func (e *Entity) record(ev Event) {
	e.events = append(e.events, ev)
}

// PullEvents returns the pending events and clears the buffer.
func (e *Entity) PullEvents() []Event {
	out := e.events
	e.events = nil
	return out
}

// IsDeleted reports whether the entity has been soft-deleted.
func (e *Entity) IsDeleted() bool {
	return e.DeletedAt != nil
}
