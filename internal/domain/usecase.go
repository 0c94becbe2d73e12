package domain

import "time"

type UseCase struct {
	Entity
	ModuleID       string
	CreatorID      string
	Title          string
	Description    string
	ImportantNotes string
	StartedDate    time.Time
	IsActive       bool
}

type NewUseCaseParams struct {
	CreatorID      string
	Title          string
	Description    string
	ImportantNotes string
	StartedDate    time.Time
}

// NewUseCase creates an active use case under module. The module must be active.
func NewUseCase(module *Module, p NewUseCaseParams, l TextLimits, now time.Time) (*UseCase, error) {
	var v validator
	v.required("creator_id", p.CreatorID)
	v.title(p.Title, l)
	v.maxLen("description", p.Description, l.DescriptionMax)
	v.maxLen("important_notes", p.ImportantNotes, l.NotesMax)
	if err := v.err(); err != nil {
		return nil, err
	}
	if !module.IsActive {
		return nil, BusinessRulef("cannot add a use case to archived module %q", module.Title)
	}
	started := p.StartedDate
	if started.IsZero() {
		started = now
	}
	return &UseCase{
		Entity:         newEntity(now),
		ModuleID:       module.ID,
		CreatorID:      p.CreatorID,
		Title:          p.Title,
		Description:    p.Description,
		ImportantNotes: p.ImportantNotes,
		StartedDate:    started,
		IsActive:       true,
	}, nil
}

// Activate fails while the owning module is archived, so a cascade cannot
// be undone one use case at a time.
func (u *UseCase) Activate(module *Module, now time.Time) (bool, error) {
	if module.ID != u.ModuleID {
		return false, BusinessRulef("use case %s does not belong to module %s", u.ID, module.ID)
	}
	if !module.IsActive {
		return false, BusinessRulef("archived module's use cases cannot be activated; activate the module first")
	}
	return u.setActive(true, now), nil
}

func (u *UseCase) Archive(now time.Time) bool {
	return u.setActive(false, now)
}

func (u *UseCase) setActive(active bool, now time.Time) bool {
	if u.IsActive == active {
		return false
	}
	u.IsActive = active
	u.touch(now)
	u.record(UseCaseStatusChanged{
		UseCaseID: u.ID,
		ModuleID:  u.ModuleID,
		Title:     u.Title,
		IsActive:  active,
		At:        now,
	})
	return true
}
