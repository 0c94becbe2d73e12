package domain

import "time"

type Module struct {
	Entity
	ProjectID   string
	CreatorID   string
	Title       string
	Description string
	StartedDate time.Time
	IsActive    bool
}

type NewModuleParams struct {
	CreatorID   string
	Title       string
	Description string
	StartedDate time.Time
}

// NewModule creates an active module under project. The project must be active.
func NewModule(project *Project, p NewModuleParams, l TextLimits, now time.Time) (*Module, error) {
	var v validator
	v.required("creator_id", p.CreatorID)
	v.title(p.Title, l)
	v.maxLen("description", p.Description, l.DescriptionMax)
	if err := v.err(); err != nil {
		return nil, err
	}
	if !project.IsActive {
		return nil, BusinessRulef("cannot add a module to archived project %q", project.Title)
	}
	started := p.StartedDate
	if started.IsZero() {
		started = now
	}
	return &Module{
		Entity:      newEntity(now),
		ProjectID:   project.ID,
		CreatorID:   p.CreatorID,
		Title:       p.Title,
		Description: p.Description,
		StartedDate: started,
		IsActive:    true,
	}, nil
}

// Activate fails while the owning project is archived. It reports whether the
// flag changed.
func (m *Module) Activate(project *Project, now time.Time) (bool, error) {
	if project.ID != m.ProjectID {
		return false, BusinessRulef("module %s does not belong to project %s", m.ID, project.ID)
	}
	if !project.IsActive {
		return false, BusinessRulef("archived project's modules cannot be activated; activate the project first")
	}
	return m.setActive(true, now), nil
}

// Archive flips only the module's own flag. Callers cascade to use cases
// when it returns true.
func (m *Module) Archive(now time.Time) bool {
	return m.setActive(false, now)
}

func (m *Module) setActive(active bool, now time.Time) bool {
	if m.IsActive == active {
		return false
	}
	m.IsActive = active
	m.touch(now)
	m.record(ModuleStatusChanged{
		ModuleID:  m.ID,
		ProjectID: m.ProjectID,
		Title:     m.Title,
		IsActive:  active,
		At:        now,
	})
	return true
}
