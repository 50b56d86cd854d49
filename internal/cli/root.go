package cli

import (
	"github.com/spf13/cobra"

	"github.com/ollender/ollender/internal/config"
	"github.com/ollender/ollender/internal/service"
)

// App holds the services CLI commands run against. Connectors are wired
// lazily because auth does not require them.
type App struct {
	Config config.Config

	// Events returns the scheduling orchestrator, building connectors on
	// first use so `auth` can run before any token exists.
	Events func(multiStep bool) (*service.EventService, error)
	Tasks  func() (*service.TaskService, error)
}

// NewRootCmd creates the top-level "ollender" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ollender",
		Short:         "Schedule calendar events with a local language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScheduleCmd(app),
		newTaskCmd(app),
		newAuthCmd(app),
	)

	return root
}
