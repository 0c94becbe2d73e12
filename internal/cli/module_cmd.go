package cli

import (
	"fmt"

	"github.com/alexanderramin/strata/internal/cli/formatter"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/spf13/cobra"
)

func newModuleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Manage modules within a project",
	}
	cmd.AddCommand(
		newModuleAddCmd(app),
		newModuleListCmd(app),
		newModuleEditCmd(app),
		newModuleActivateCmd(app),
		newModuleArchiveCmd(app),
	)
	return cmd
}

func newModuleAddCmd(app *App) *cobra.Command {
	var projectInput, title, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a module in an active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, projectInput)
			if err != nil {
				return err
			}
			m, err := app.Modules.Create(ctx, user, projectID, domain.NewModuleParams{Title: title, Description: description})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created module %s [%s]\n", m.Title, m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectInput, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&title, "title", "", "Module title")
	cmd.Flags().StringVar(&description, "description", "", "Module description")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newModuleListCmd(app *App) *cobra.Command {
	var projectInput string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List modules of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, projectInput)
			if err != nil {
				return err
			}
			modules, err := app.Modules.ListByProject(ctx, projectID, all)
			if err != nil {
				return err
			}
			if len(modules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No modules found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatModuleList(modules))
			return nil
		},
	}
	cmd.Flags().StringVar(&projectInput, "project", "", "Project ID or prefix")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived modules")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newModuleEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit module title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			d, err := detailsFromFlags(cmd)
			if err != nil {
				return err
			}
			m, err := app.Modules.UpdateDetails(cmd.Context(), user, args[0], d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated module %s\n", m.Title)
			return nil
		},
	}
	addDetailFlags(cmd, false)
	return cmd
}

func newModuleActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate ID",
		Short: "Reactivate a module (its use cases stay archived)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			m, err := app.Modules.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := app.Hierarchy.ActivateModule(ctx, user, m.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusChange("module", m.Title, true, res))
			return nil
		},
	}
}

func newModuleArchiveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a module and all of its use cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			m, err := app.Modules.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			if m.IsActive && !yes {
				active, err := app.UseCases.ListByModule(ctx, m.ID, false)
				if err != nil {
					return err
				}
				ok, err := app.confirm(
					fmt.Sprintf("Archive module %q?", m.Title),
					fmt.Sprintf("%d active use case(s) will be archived with it.", len(active)),
				)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			res, err := app.Hierarchy.ArchiveModule(ctx, user, m.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusChange("module", m.Title, false, res))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
