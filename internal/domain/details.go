package domain

import "time"

// Details carries optional text edits. Nil fields are left unchanged.
type Details struct {
	Title          *string
	Description    *string
	ImportantNotes *string
}

// validate checks every provided field before any is applied. Notes are
// refused for entity kinds that have no notes field.
func (d Details) validate(l TextLimits) error {
	var v validator
	if d.Title != nil {
		v.title(*d.Title, l)
	}
	if d.Description != nil {
		v.maxLen("description", *d.Description, l.DescriptionMax)
	}
	if d.ImportantNotes != nil {
		if l.NotesMax == 0 {
			v.add("important_notes", "is not supported")
		} else {
			v.maxLen("important_notes", *d.ImportantNotes, l.NotesMax)
		}
	}
	return v.err()
}

func (d Details) applyTo(title, description, notes *string) {
	if d.Title != nil {
		*title = *d.Title
	}
	if d.Description != nil {
		*description = *d.Description
	}
	if d.ImportantNotes != nil && notes != nil {
		*notes = *d.ImportantNotes
	}
}

// IsEmpty reports whether no field is set.
func (d Details) IsEmpty() bool {
	return d.Title == nil && d.Description == nil && d.ImportantNotes == nil
}

// UpdateDetails edits title and description. Archived projects may still be
// renamed.
func (p *Project) UpdateDetails(d Details, l TextLimits, now time.Time) error {
	if err := d.validate(l); err != nil {
		return err
	}
	d.applyTo(&p.Title, &p.Description, nil)
	p.touch(now)
	return nil
}

// UpdateDetails fails while the owning project is archived.
func (m *Module) UpdateDetails(project *Project, d Details, l TextLimits, now time.Time) error {
	if err := d.validate(l); err != nil {
		return err
	}
	if !project.IsActive {
		return BusinessRulef("modules of archived project %q cannot be edited", project.Title)
	}
	d.applyTo(&m.Title, &m.Description, nil)
	m.touch(now)
	return nil
}

// UpdateDetails fails while the owning module is archived.
func (u *UseCase) UpdateDetails(module *Module, d Details, l TextLimits, now time.Time) error {
	if err := d.validate(l); err != nil {
		return err
	}
	if !module.IsActive {
		return BusinessRulef("use cases of archived module %q cannot be edited", module.Title)
	}
	d.applyTo(&u.Title, &u.Description, &u.ImportantNotes)
	u.touch(now)
	return nil
}

// UpdateDetails is allowed in every state.
func (t *Task) UpdateDetails(d Details, l TextLimits, now time.Time) error {
	if err := d.validate(l); err != nil {
		return err
	}
	d.applyTo(&t.Title, &t.Description, &t.ImportantNotes)
	t.touch(now)
	return nil
}
