package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ollender/ollender/internal/cli/formatter"
	"github.com/ollender/ollender/internal/domain"
	"github.com/ollender/ollender/internal/service"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage model-scheduled tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskDoneCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		description string
		interval    string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task and let the model assign its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := service.TaskDraft{
				Kind:        domain.TaskRegular,
				Title:       args[0],
				Description: description,
			}
			if interval != "" {
				if !domain.ValidInterval(interval) {
					return fmt.Errorf("invalid interval %q (daily, weekly, monthly, yearly)", interval)
				}
				draft.Kind = domain.TaskRecurring
				draft.Interval = domain.Interval(interval)
			}

			svc, err := app.Tasks()
			if err != nil {
				return err
			}

			task, err := svc.Create(context.Background(), draft)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatTask(task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&interval, "every", "", "Make the task recurring (daily, weekly, monthly, yearly)")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Tasks()
			if err != nil {
				return err
			}

			tasks, err := svc.List(context.Background())
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatTaskList(tasks))
			return nil
		},
	}
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Tasks()
			if err != nil {
				return err
			}
			if err := svc.Complete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Task marked as done.")
			return nil
		},
	}
}
