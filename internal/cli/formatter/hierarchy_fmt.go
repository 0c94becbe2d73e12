package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/service"
)

// ProjectTree holds everything the project show view renders.
type ProjectTree struct {
	Project    *domain.Project
	Modules    []*domain.Module
	UseCases   map[string][]*domain.UseCase // moduleID -> use cases
	TaskCounts map[string]int               // useCaseID -> task count
	Members    []domain.ProjectMember
}

func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "TITLE", "STATUS", "STARTED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			ActivePill(p.IsActive),
			p.StartedDate.Format("2006-01-02"),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

func FormatModuleList(modules []*domain.Module) string {
	headers := []string{"ID", "TITLE", "STATUS"}
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		rows = append(rows, []string{TruncID(m.ID), Bold(m.Title), ActivePill(m.IsActive)})
	}
	return RenderTable(headers, rows)
}

func FormatUseCaseList(useCases []*domain.UseCase) string {
	headers := []string{"ID", "TITLE", "STATUS", "NOTES"}
	rows := make([][]string, 0, len(useCases))
	for _, uc := range useCases {
		rows = append(rows, []string{TruncID(uc.ID), Bold(uc.Title), ActivePill(uc.IsActive), Dim(uc.ImportantNotes)})
	}
	return RenderTable(headers, rows)
}

// FormatProjectTree renders a project with its modules and use cases.
func FormatProjectTree(data ProjectTree) string {
	p := data.Project
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(p.Title), ActivePill(p.IsActive)))
	b.WriteString(Dim(fmt.Sprintf("id %s  creator %s  started %s", p.ID, p.CreatorID, p.StartedDate.Format("2006-01-02"))) + "\n")
	if p.Description != "" {
		b.WriteString("\n" + StyleFg.Render(p.Description) + "\n")
	}

	var items []TreeItem
	for i, m := range data.Modules {
		items = append(items, TreeItem{
			Title:    m.Title,
			Level:    1,
			IsLast:   i == len(data.Modules)-1,
			Archived: !m.IsActive,
			Detail:   TruncID(m.ID),
		})
		ucs := data.UseCases[m.ID]
		for j, uc := range ucs {
			items = append(items, TreeItem{
				Title:    uc.Title,
				Level:    2,
				IsLast:   j == len(ucs)-1,
				Archived: !uc.IsActive,
				Detail:   fmt.Sprintf("%d tasks", data.TaskCounts[uc.ID]),
			})
		}
	}
	if len(items) > 0 {
		b.WriteString("\n" + Header("Modules") + "\n")
		b.WriteString(RenderTree(items))
	}

	if len(data.Members) > 0 {
		b.WriteString("\n" + Header("Members") + "\n")
		b.WriteString(FormatMembers(data.Members))
	}
	return RenderBox("Project", b.String())
}

func FormatMembers(members []domain.ProjectMember) string {
	headers := []string{"USER", "ROLE", "JOINED"}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{Bold(m.UserID), StylePurple.Render(string(m.Role)), m.JoinedAt.Format("2006-01-02")})
	}
	return RenderTable(headers, rows)
}

// FormatStatusChange reports the outcome of an activate or archive command.
func FormatStatusChange(kind, title string, active bool, res service.StatusChangeResult) string {
	verb := "archived"
	if active {
		verb = "activated"
	}
	if !res.Changed {
		return Dim(fmt.Sprintf("%s %q already %s, nothing to do.", kind, title, verb))
	}
	msg := StyleGreen.Render(fmt.Sprintf("%s %q %s.", strings.ToUpper(kind[:1])+kind[1:], title, verb))
	if res.CascadedUseCases > 0 {
		msg += "\n" + StyleYellow.Render(fmt.Sprintf("%d use case(s) archived with it.", res.CascadedUseCases))
	}
	return msg
}
