package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskRelation is a directed, typed edge owned by the source task.
type TaskRelation struct {
	ID           string
	SourceTaskID string
	TargetTaskID string
	Type         RelationType
	CreatedAt    time.Time
}

// NewTaskRelation validates the edge shape. Self-edges pass here; callers
// decide whether to allow them.
func NewTaskRelation(sourceID, targetID string, typ RelationType, now time.Time) (TaskRelation, error) {
	var v validator
	v.required("source_task_id", sourceID)
	v.required("target_task_id", targetID)
	if !ValidRelationTypes[string(typ)] {
		v.add("relation_type", "unknown relation type %q", typ)
	}
	if err := v.err(); err != nil {
		return TaskRelation{}, err
	}
	return TaskRelation{
		ID:           uuid.New().String(),
		SourceTaskID: sourceID,
		TargetTaskID: targetID,
		Type:         typ,
		CreatedAt:    now,
	}, nil
}

// CanComplete is the completion gate: the task must be in progress and own no
// outgoing Blocks edge. Incoming Blocks edges are not consulted.
func CanComplete(t *Task) bool {
	return t.State == TaskInProgress && len(t.BlockingRelations()) == 0
}

// Relations returns a copy of the task's outgoing edges.
func (t *Task) Relations() []TaskRelation {
	out := make([]TaskRelation, len(t.relations))
	copy(out, t.relations)
	return out
}

// LoadRelations hydrates outgoing edges from storage.
func (t *Task) LoadRelations(rels []TaskRelation) error {
	for _, r := range rels {
		if r.SourceTaskID != t.ID {
			return BusinessRulef("relation %s is not sourced at task %s", r.ID, t.ID)
		}
	}
	t.relations = append([]TaskRelation(nil), rels...)
	return nil
}

// AddRelation appends an edge this task owns. A second edge with the same
// target and type is a conflict.
func (t *Task) AddRelation(r TaskRelation, now time.Time) error {
	if r.SourceTaskID != t.ID {
		return BusinessRulef("relation is not for this task")
	}
	for _, existing := range t.relations {
		if existing.TargetTaskID == r.TargetTaskID && existing.Type == r.Type {
			return Conflictf("task already has a %s relation to %s", r.Type, r.TargetTaskID)
		}
	}
	t.relations = append(t.relations, r)
	t.touch(now)
	return nil
}

// RemoveRelation drops the edge with id. Unknown ids are ignored and
// reported as false.
func (t *Task) RemoveRelation(id string, now time.Time) bool {
	for i, r := range t.relations {
		if r.ID == id {
			t.relations = append(t.relations[:i:i], t.relations[i+1:]...)
			t.touch(now)
			return true
		}
	}
	return false
}

func (t *Task) BlockingRelations() []TaskRelation {
	return t.filterRelations(func(r TaskRelation) bool { return r.Type == RelationBlocks })
}

// DependentRelations returns every outgoing edge that is not Blocks.
func (t *Task) DependentRelations() []TaskRelation {
	return t.filterRelations(func(r TaskRelation) bool { return r.Type != RelationBlocks })
}

func (t *Task) filterRelations(keep func(TaskRelation) bool) []TaskRelation {
	var out []TaskRelation
	for _, r := range t.relations {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
