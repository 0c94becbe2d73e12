package domain

import "fmt"

type TaskState string

const (
	TaskNotStarted TaskState = "not_started"
	TaskInProgress TaskState = "in_progress"
	TaskCompleted  TaskState = "completed"
	TaskCancelled  TaskState = "cancelled"
)

// AllTaskStates lists every task state in lifecycle order.
var AllTaskStates = []TaskState{TaskNotStarted, TaskInProgress, TaskCompleted, TaskCancelled}

func (s TaskState) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type TaskType string

const (
	TaskFeature       TaskType = "feature"
	TaskDocumentation TaskType = "documentation"
	TaskTest          TaskType = "test"
	TaskBug           TaskType = "bug"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[string]bool{
	"feature": true, "documentation": true, "test": true, "bug": true,
}

type RelationType string

const (
	RelationBlocks     RelationType = "blocks"
	RelationRelatesTo  RelationType = "relates_to"
	RelationFixes      RelationType = "fixes"
	RelationDuplicates RelationType = "duplicates"
)

// ValidRelationTypes is the canonical set of accepted relation type strings.
var ValidRelationTypes = map[string]bool{
	"blocks": true, "relates_to": true, "fixes": true, "duplicates": true,
}

type ProjectRole string

const (
	RoleOwner  ProjectRole = "owner"
	RoleMember ProjectRole = "member"
	RoleViewer ProjectRole = "viewer"
)

// ValidProjectRoles is the canonical set of accepted membership roles.
var ValidProjectRoles = map[string]bool{
	"owner": true, "member": true, "viewer": true,
}

// ParseTaskType converts user input into a TaskType.
func ParseTaskType(s string) (TaskType, error) {
	if !ValidTaskTypes[s] {
		return "", &ValidationError{Fields: []FieldError{{Field: "type", Message: fmt.Sprintf("unknown task type %q", s)}}}
	}
	return TaskType(s), nil
}

// ParseRelationType converts user input into a RelationType.
func ParseRelationType(s string) (RelationType, error) {
	if !ValidRelationTypes[s] {
		return "", &ValidationError{Fields: []FieldError{{Field: "relation_type", Message: fmt.Sprintf("unknown relation type %q", s)}}}
	}
	return RelationType(s), nil
}

// ParseProjectRole converts user input into a ProjectRole.
func ParseProjectRole(s string) (ProjectRole, error) {
	if !ValidProjectRoles[s] {
		return "", &ValidationError{Fields: []FieldError{{Field: "role", Message: fmt.Sprintf("unknown role %q", s)}}}
	}
	return ProjectRole(s), nil
}
