package cli

import (
	"fmt"

	"github.com/alexanderramin/strata/internal/cli/formatter"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectEditCmd(app),
		newProjectActivateCmd(app),
		newProjectArchiveCmd(app),
		newProjectMemberCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var title, description, start string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project (you become its owner)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			params := domain.NewProjectParams{Title: title, Description: description}
			if start != "" {
				if params.StartedDate, err = parseDate("start date", start); err != nil {
					return err
				}
			}
			p, err := app.Projects.Create(cmd.Context(), user, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Title, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a project with its modules and use cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			data := formatter.ProjectTree{
				Project:    p,
				UseCases:   map[string][]*domain.UseCase{},
				TaskCounts: map[string]int{},
			}
			if data.Modules, err = app.Modules.ListByProject(ctx, p.ID, true); err != nil {
				return err
			}
			for _, m := range data.Modules {
				ucs, err := app.UseCases.ListByModule(ctx, m.ID, true)
				if err != nil {
					return err
				}
				data.UseCases[m.ID] = ucs
				for _, uc := range ucs {
					tasks, err := app.Tasks.ListByUseCase(ctx, uc.ID)
					if err != nil {
						return err
					}
					data.TaskCounts[uc.ID] = len(tasks)
				}
			}
			if data.Members, err = app.Projects.ListMembers(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectTree(data))
			return nil
		},
	}
}

func newProjectEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit project title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			d, err := detailsFromFlags(cmd)
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.UpdateDetails(ctx, user, projectID, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", p.Title)
			return nil
		},
	}
	addDetailFlags(cmd, false)
	return cmd
}

func newProjectActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate ID",
		Short: "Reactivate an archived project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectStatus(cmd, app, args[0], true)
		},
	}
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project (modules keep their own status)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectStatus(cmd, app, args[0], false)
		},
	}
}

func runProjectStatus(cmd *cobra.Command, app *App, input string, activate bool) error {
	ctx := cmd.Context()
	user, err := actor(cmd, app)
	if err != nil {
		return err
	}
	projectID, err := resolveProjectID(ctx, app, input)
	if err != nil {
		return err
	}
	change := app.Hierarchy.ArchiveProject
	if activate {
		change = app.Hierarchy.ActivateProject
	}
	res, err := change(ctx, user, projectID)
	if err != nil {
		return err
	}
	p, err := app.Projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusChange("project", p.Title, activate, res))
	return nil
}

func newProjectMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project members",
	}
	cmd.AddCommand(
		newProjectMemberAddCmd(app),
		newProjectMemberRemoveCmd(app),
		newProjectMemberRoleCmd(app),
		newProjectMemberListCmd(app),
	)
	return cmd
}

func newProjectMemberAddCmd(app *App) *cobra.Command {
	var roleStr string

	cmd := &cobra.Command{
		Use:   "add PROJECT USER",
		Short: "Add a member to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			role, err := domain.ParseProjectRole(roleStr)
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.AddMember(ctx, user, projectID, args[1], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", args[1], role)
			return nil
		},
	}
	cmd.Flags().StringVar(&roleStr, "role", string(domain.RoleMember), "Role (owner, member, viewer)")
	return cmd
}

func newProjectMemberRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT USER",
		Short: "Remove a member from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.RemoveMember(ctx, user, projectID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
			return nil
		},
	}
}

func newProjectMemberRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role PROJECT USER ROLE",
		Short: "Change a member's role (member or viewer; owners only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			role, err := domain.ParseProjectRole(args[2])
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.UpdateMemberRole(ctx, user, projectID, args[1], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[1], role)
			return nil
		},
	}
}

func newProjectMemberListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List project members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			members, err := app.Projects.ListMembers(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMembers(members))
			return nil
		},
	}
}
