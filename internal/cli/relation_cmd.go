package cli

import (
	"fmt"

	"github.com/alexanderramin/strata/internal/cli/formatter"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/spf13/cobra"
)

func newRelationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "relation",
		Aliases: []string{"rel"},
		Short:   "Manage relations between tasks",
	}
	cmd.AddCommand(
		newRelationAddCmd(app),
		newRelationRemoveCmd(app),
		newRelationListCmd(app),
	)
	return cmd
}

func newRelationAddCmd(app *App) *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "add SOURCE TARGET",
		Short: "Add an edge from SOURCE to TARGET (a blocks edge gates SOURCE's completion)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			typ, err := domain.ParseRelationType(typeStr)
			if err != nil {
				return err
			}
			rel, err := app.Relations.Add(cmd.Context(), user, args[0], args[1], typ)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s relation [%s]\n", rel.Type, rel.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeStr, "type", string(domain.RelationRelatesTo), "Type (blocks, relates_to, fixes, duplicates)")
	return cmd
}

func newRelationRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SOURCE RELATION_ID",
		Short: "Remove an outgoing edge of SOURCE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actor(cmd, app)
			if err != nil {
				return err
			}
			removed, err := app.Relations.Remove(cmd.Context(), user, args[0], args[1])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No such relation on this task; nothing removed.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Relation removed.")
			return nil
		},
	}
}

func newRelationListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list TASK",
		Short: "List outgoing and incoming edges of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := app.Relations.ListOutgoing(ctx, args[0])
			if err != nil {
				return err
			}
			in, err := app.Relations.ListIncoming(ctx, args[0])
			if err != nil {
				return err
			}
			if len(out) == 0 && len(in) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No relations.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRelationList(out, in))
			return nil
		},
	}
}
