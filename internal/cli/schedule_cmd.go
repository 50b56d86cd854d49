package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ollender/ollender/internal/cli/formatter"
	"github.com/ollender/ollender/internal/domain"
)

func newScheduleCmd(app *App) *cobra.Command {
	var (
		title        string
		description  string
		instructions string
		singleRound  bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Find a slot for a new event and commit it to the calendar",
		Long: `Schedule fetches your upcoming calendar events, asks the model to propose,
validate and select a conflict-free time slot, and commits the result.
With no flags an interactive form collects the event details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				if err := scheduleForm(&title, &description, &instructions); err != nil {
					return err
				}
			}

			// The flag and the env config both select the propose-only path.
			multiStep := app.Config.MultiStep && !singleRound
			svc, err := app.Events(multiStep)
			if err != nil {
				return err
			}

			spinner := formatter.NewSpinner("Reasoning about your calendar...")
			spinner.Start()
			result, err := svc.Schedule(context.Background(), domain.Event{
				Title:          title,
				Description:    description,
				AdditionalInfo: instructions,
			})
			spinner.Stop()
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatScheduled(result.Event, result.EventID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Event title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Event description")
	cmd.Flags().StringVarP(&instructions, "instructions", "i", "", "Free-text scheduling instructions, e.g. \"Thursday next week, 20 minutes\"")
	cmd.Flags().BoolVar(&singleRound, "single-round", false, "Use one propose-only prompt instead of the multi-step pipeline")

	return cmd
}

// scheduleForm collects event details interactively.
func scheduleForm(title, description, instructions *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Event title").
				Placeholder("Team Meeting").
				Value(title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Placeholder("Weekly sync").
				Value(description),
			huh.NewInput().
				Title("Scheduling instructions").
				Placeholder("Thursday next week, 9am-5pm, 20 minutes").
				Value(instructions),
		),
	).WithShowHelp(false)

	return form.Run()
}
