package domain

import "time"

// ProjectMember grants a user a role on one project.
type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
	JoinedAt  time.Time
}

// CanEdit reports whether the role may mutate project content.
func (m ProjectMember) CanEdit() bool {
	return m.Role == RoleOwner || m.Role == RoleMember
}
