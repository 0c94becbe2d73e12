package cli

import (
	"fmt"

	"github.com/alexanderramin/strata/internal/cli/formatter"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/spf13/cobra"
)

var actionShort = map[domain.TaskAction]string{
	domain.ActionStart:    "Move a not-started task to in progress",
	domain.ActionComplete: "Complete an in-progress task with no blocking relations",
	domain.ActionCancel:   "Cancel a task that is not completed",
	domain.ActionRevert:   "Send a task that is not completed back to not started",
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and their lifecycle",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskAssignCmd(app),
		newTaskDueCmd(app),
		newTaskEditCmd(app),
		newTaskOverdueCmd(app),
	)
	for _, action := range domain.AllTaskActions {
		cmd.AddCommand(newTaskTransitionCmd(app, action))
	}
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var useCaseID, title, typeStr, description, notes, start, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task in an active use case",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			taskType, err := domain.ParseTaskType(typeStr)
			if err != nil {
				return err
			}
			params := domain.NewTaskParams{
				Title:          title,
				Description:    description,
				ImportantNotes: notes,
				Type:           taskType,
			}
			if start != "" {
				if params.StartedDate, err = parseDate("start date", start); err != nil {
					return err
				}
			}
			if params.DueDate, err = parseOptionalDate("due date", due); err != nil {
				return err
			}
			t, err := app.Tasks.Create(cmd.Context(), user, useCaseID, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s]\n", t.Title, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&useCaseID, "usecase", "", "Use case ID")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&typeStr, "type", string(domain.TaskFeature), "Type (feature, documentation, test, bug)")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&notes, "notes", "", "Important notes")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("usecase")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var useCaseID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks of a use case",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.ListByUseCase(cmd.Context(), useCaseID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&useCaseID, "usecase", "", "Use case ID")
	_ = cmd.MarkFlagRequired("usecase")
	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show task details and relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := app.Tasks.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			incoming, err := app.Relations.ListIncoming(ctx, t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, incoming, app.now()))
			return nil
		},
	}
}

func newTaskTransitionCmd(app *App, action domain.TaskAction) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " ID",
		Short: actionShort[action],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			t, err := app.Tasks.Transition(cmd.Context(), user, args[0], action)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatter.Bold(t.Title), formatter.TaskStatePill(t.State))
			return nil
		},
	}
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var start bool

	cmd := &cobra.Command{
		Use:   "assign ID USER",
		Short: "Reassign a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			if start {
				t, err := app.Tasks.AssignAndStart(cmd.Context(), user, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s and started it\n", t.Title, t.AssigneeID)
				return nil
			}
			t, err := app.Tasks.Assign(cmd.Context(), user, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", t.Title, t.AssigneeID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&start, "start", false, "Also start the task; the assignee must be a project member")
	return cmd
}

func newTaskDueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "due ID DATE",
		Short: "Set a task due date (YYYY-MM-DD) or clear it with \"none\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			due, err := parseOptionalDate("due date", args[1])
			if err != nil {
				return err
			}
			t, err := app.Tasks.UpdateDueDate(cmd.Context(), user, args[0], due)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s due %s\n", t.Title, formatter.DueLabel(t.DueDate, t.IsOverdue(app.now()), app.now()))
			return nil
		},
	}
}

func newTaskEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit task title, description or notes",
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
			t, err := app.Tasks.UpdateDetails(cmd.Context(), user, args[0], d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", t.Title)
			return nil
		},
	}
	addDetailFlags(cmd, true)
	return cmd
}

func newTaskOverdueCmd(app *App) *cobra.Command {
	var useCaseID string

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List overdue tasks of a use case",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			tasks, err := app.Tasks.ListOverdue(cmd.Context(), useCaseID, now)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing overdue.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, now))
			return nil
		},
	}
	cmd.Flags().StringVar(&useCaseID, "usecase", "", "Use case ID")
	_ = cmd.MarkFlagRequired("usecase")
	return cmd
}
