package domain

import "time"

// Project is the root of the hierarchy. Modules reference it by ID only.
type Project struct {
	Entity
	CreatorID   string
	Title       string
	Description string
	StartedDate time.Time
	IsActive    bool
}

type NewProjectParams struct {
	CreatorID   string
	Title       string
	Description string
	StartedDate time.Time
}

// NewProject validates input and returns an active project.
func NewProject(p NewProjectParams, l TextLimits, now time.Time) (*Project, error) {
	var v validator
	v.required("creator_id", p.CreatorID)
	v.title(p.Title, l)
	v.maxLen("description", p.Description, l.DescriptionMax)
	if err := v.err(); err != nil {
		return nil, err
	}
	started := p.StartedDate
	if started.IsZero() {
		started = now
	}
	return &Project{
		Entity:      newEntity(now),
		CreatorID:   p.CreatorID,
		Title:       p.Title,
		Description: p.Description,
		StartedDate: started,
		IsActive:    true,
	}, nil
}

// Activate reports whether the flag changed. Already-active projects are left untouched.
func (p *Project) Activate(now time.Time) bool {
	return p.setActive(true, now)
}

// Archive does not cascade to modules.
func (p *Project) Archive(now time.Time) bool {
	return p.setActive(false, now)
}

func (p *Project) setActive(active bool, now time.Time) bool {
	if p.IsActive == active {
		return false
	}
	prev := p.IsActive
	p.IsActive = active
	p.touch(now)
	p.record(ProjectStatusChanged{
		ProjectID: p.ID,
		CreatorID: p.CreatorID,
		Title:     p.Title,
		WasActive: prev,
		IsActive:  active,
		At:        now,
	})
	return true
}
