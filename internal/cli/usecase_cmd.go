package cli

import (
	"fmt"

	"github.com/alexanderramin/strata/internal/cli/formatter"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/spf13/cobra"
)

func newUseCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "usecase",
		Aliases: []string{"uc"},
		Short:   "Manage use cases within a module",
	}
	cmd.AddCommand(
		newUseCaseAddCmd(app),
		newUseCaseListCmd(app),
		newUseCaseEditCmd(app),
		newUseCaseStatusCmd(app, true),
		newUseCaseStatusCmd(app, false),
	)
	return cmd
}

func newUseCaseAddCmd(app *App) *cobra.Command {
	var moduleID, title, description, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a use case in an active module",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			uc, err := app.UseCases.Create(cmd.Context(), user, moduleID, domain.NewUseCaseParams{
				Title:          title,
				Description:    description,
				ImportantNotes: notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created use case %s [%s]\n", uc.Title, uc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleID, "module", "", "Module ID")
	cmd.Flags().StringVar(&title, "title", "", "Use case title")
	cmd.Flags().StringVar(&description, "description", "", "Use case description")
	cmd.Flags().StringVar(&notes, "notes", "", "Important notes")
	_ = cmd.MarkFlagRequired("module")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUseCaseListCmd(app *App) *cobra.Command {
	var moduleID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List use cases of a module",
		RunE: func(cmd *cobra.Command, args []string) error {
			ucs, err := app.UseCases.ListByModule(cmd.Context(), moduleID, all)
			if err != nil {
				return err
			}
			if len(ucs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No use cases found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUseCaseList(ucs))
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleID, "module", "", "Module ID")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived use cases")
	_ = cmd.MarkFlagRequired("module")
	return cmd
}

func newUseCaseEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit use case title, description or notes",
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
			uc, err := app.UseCases.UpdateDetails(cmd.Context(), user, args[0], d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated use case %s\n", uc.Title)
			return nil
		},
	}
	addDetailFlags(cmd, true)
	return cmd
}

func newUseCaseStatusCmd(app *App, activate bool) *cobra.Command {
	use, short := "archive ID", "Archive a use case"
	if activate {
		use, short = "activate ID", "Reactivate a use case (its module must be active)"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			uc, err := app.UseCases.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			change := app.Hierarchy.ArchiveUseCase
			if activate {
				change = app.Hierarchy.ActivateUseCase
			}
			res, err := change(ctx, user, uc.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusChange("use case", uc.Title, activate, res))
			return nil
		},
	}
}
