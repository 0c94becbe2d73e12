package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/strata/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EventFlusher relays pending outbox events.
type EventFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// App holds references to all services used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Modules   service.ModuleService
	UseCases  service.UseCaseService
	Tasks     service.TaskService
	Relations service.RelationService
	Hierarchy service.HierarchyService
	Events    EventFlusher // nil when no broker is configured

	// User is the default acting user (STRATA_USER); --as overrides it.
	User string
	Now  func() time.Time

	// IsInteractive reports whether stdin is a terminal. Confirmation
	// prompts only run when it returns true.
	IsInteractive func() bool
	Confirm       func(title, description string) (bool, error)
}

// NewRootCmd creates the top-level "strata" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "strata",
		Short:         "Project hierarchy and task lifecycle tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("as", "", "Acting user (defaults to $STRATA_USER)")
	root.SetGlobalNormalizationFunc(normalizeFlagName)

	root.AddCommand(
		newProjectCmd(app),
		newModuleCmd(app),
		newUseCaseCmd(app),
		newTaskCmd(app),
		newRelationCmd(app),
		newEventsCmd(app),
	)
	return root
}

// normalizeFlagName lets --use-case and --use_case mean --usecase.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	if name == "use-case" {
		name = "usecase"
	}
	return pflag.NormalizedName(name)
}

func actor(cmd *cobra.Command, app *App) (string, error) {
	if as, _ := cmd.Flags().GetString("as"); as != "" {
		return as, nil
	}
	if app.User != "" {
		return app.User, nil
	}
	return "", fmt.Errorf("no acting user: pass --as or set STRATA_USER")
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
