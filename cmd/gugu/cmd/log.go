package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/gugu/internal/app"
	"github.com/templui/gugu/internal/model"
)

func LogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <goal-id>",
		Short: "Complete the goal's open slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				goal, err := resolveGoal(a.GoalManager, args[0])
				if err != nil {
					return err
				}

				out, err := a.GoalManager.LogEntry(ctx, goal.ID)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if !out.Result.Accepted() {
					// A rejected log is a no-op, not a failure
					fmt.Fprintf(w, "%s: %s\n", goal.Title, out.Result.Message())
					if state, err := a.GoalManager.State(goal.ID); err == nil && state.CooldownEndTime != nil {
						fmt.Fprintf(w, "next entry possible at %s\n", state.CooldownEndTime.In(a.Location).Format(clockFormat))
					}
					return nil
				}

				entry := out.Entry
				line := fmt.Sprintf("%s: logged the %s slot", goal.Title, entry.ScheduledTime.In(a.Location).Format(clockFormat))
				if entry.MealType != nil {
					line += fmt.Sprintf(" as %s", *entry.MealType)
				}
				fmt.Fprintln(w, line)

				if entry.NextAvailableTime != nil {
					fmt.Fprintf(w, "cooldown until %s\n", entry.NextAvailableTime.In(a.Location).Format(clockFormat))
				}
				if summary, err := a.GoalManager.Summary(goal.ID); err == nil {
					fmt.Fprintf(w, "%d of %d done today\n", summary.Completed, summary.Total)
				}
				if goal.Kind == model.GoalKindWater && out.Reminder != nil {
					fmt.Fprintln(w, "run gugu watch to get reminded")
				}
				return nil
			})
		},
	}
}
