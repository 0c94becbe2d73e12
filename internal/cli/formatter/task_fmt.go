package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/strata/internal/domain"
)

func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	headers := []string{"ID", "TITLE", "TYPE", "STATE", "ASSIGNEE", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Title),
			TypeBadge(t.Type),
			TaskStatePill(t.State),
			t.AssigneeID,
			DueLabel(t.DueDate, t.IsOverdue(now), now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskDetail renders one task with its edges in both directions.
func FormatTaskDetail(t *domain.Task, incoming []domain.TaskRelation, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", Bold(t.Title), TypeBadge(t.Type), TaskStatePill(t.State)))
	b.WriteString(Dim(fmt.Sprintf("id %s  use case %s", t.ID, t.UseCaseID)) + "\n\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("CREATOR "), t.CreatorID))
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("ASSIGNEE"), t.AssigneeID))
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("STARTED "), t.StartedDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("DUE     "), DueLabel(t.DueDate, t.IsOverdue(now), now)))

	if t.Description != "" {
		b.WriteString("\n" + StyleFg.Render(t.Description) + "\n")
	}
	if t.ImportantNotes != "" {
		b.WriteString("\n" + StyleYellow.Render("! "+t.ImportantNotes) + "\n")
	}
	if blocking := t.BlockingRelations(); len(blocking) > 0 && t.State == domain.TaskInProgress {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("Cannot complete: %d blocking relation(s).", len(blocking))) + "\n")
	}

	if rels := t.Relations(); len(rels) > 0 || len(incoming) > 0 {
		b.WriteString("\n" + Header("Relations") + "\n")
		b.WriteString(FormatRelationList(rels, incoming))
	}
	return RenderBox("Task", b.String())
}

// FormatRelationList renders outgoing edges followed by incoming ones.
func FormatRelationList(outgoing, incoming []domain.TaskRelation) string {
	headers := []string{"ID", "DIRECTION", "TYPE", "OTHER TASK"}
	rows := make([][]string, 0, len(outgoing)+len(incoming))
	for _, r := range outgoing {
		rows = append(rows, []string{TruncID(r.ID), "→ out", relationLabel(r.Type), r.TargetTaskID})
	}
	for _, r := range incoming {
		rows = append(rows, []string{TruncID(r.ID), "← in", relationLabel(r.Type), r.SourceTaskID})
	}
	return RenderTable(headers, rows)
}

func relationLabel(t domain.RelationType) string {
	if t == domain.RelationBlocks {
		return StyleRed.Render(string(t))
	}
	return StyleBlue.Render(string(t))
}
