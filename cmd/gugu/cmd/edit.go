package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/gugu/internal/app"
	"github.com/templui/gugu/internal/model"
	"github.com/templui/gugu/internal/service"
	"github.com/templui/gugu/internal/validation"
)

type goalFlags struct {
	title    string
	kind     string
	target   int
	interval time.Duration
	start    string
	color    string
	paused   bool
}

func (f *goalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "goal title")
	cmd.Flags().StringVar(&f.kind, "kind", string(model.GoalKindCustom), "goal kind (water, meal, custom)")
	cmd.Flags().IntVar(&f.target, "target", 1, "entries per day")
	cmd.Flags().DurationVar(&f.interval, "interval", time.Hour, "time between entries")
	cmd.Flags().StringVar(&f.start, "start", "09:00", "time of the first entry (HH:MM)")
	cmd.Flags().StringVar(&f.color, "color", "gray", "color scheme")
	cmd.Flags().BoolVar(&f.paused, "paused", false, "keep the goal but schedule nothing")
}

// apply copies every flag the user set onto goal.
func (f *goalFlags) apply(cmd *cobra.Command, goal *model.Goal, loc *time.Location) error {
	changed := cmd.Flags().Changed

	if changed("title") {
		goal.Title = f.title
	}
	if changed("kind") {
		goal.Kind = model.GoalKind(f.kind)
	}
	if changed("target") {
		goal.TargetCount = f.target
	}
	if changed("interval") {
		goal.IntervalSeconds = int64(f.interval / time.Second)
	}
	if changed("start") {
		start, err := parseClock(f.start, loc)
		if err != nil {
			return err
		}
		goal.StartTime = start
	}
	if changed("color") {
		goal.ColorScheme = f.color
	}
	if changed("paused") {
		goal.IsActive = !f.paused
	}
	goal.Title = validation.NormalizeTitle(goal.Title)
	return nil
}

// parseClock reads HH:MM as a time of day today in loc.
func parseClock(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(clockFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q (use HH:MM)", s)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func AddCmd() *cobra.Command {
	var flags goalFlags
	var template string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a goal from flags or a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				goal := model.Goal{
					Kind:            model.GoalKind(flags.kind),
					TargetCount:     flags.target,
					IntervalSeconds: int64(flags.interval / time.Second),
					ColorScheme:     flags.color,
					IsActive:        true,
				}
				start, err := parseClock(flags.start, a.Location)
				if err != nil {
					return err
				}
				goal.StartTime = start

				if template != "" {
					t, ok := service.TemplateByName(template, time.Now(), a.Location)
					if !ok {
						return fmt.Errorf("unknown template %q (see gugu templates)", template)
					}
					goal = t.Goal
				}

				err = flags.apply(cmd, &goal, a.Location)
				if err != nil {
					return err
				}

				err = validation.ValidateGoal(goal)
				if err != nil {
					return err
				}

				added, err := a.GoalManager.AddGoal(ctx, goal)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %q\n", shortID(added.ID), added.Title)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&template, "template", "", "start from a template (see gugu templates)")
	return cmd
}

func EditCmd() *cobra.Command {
	var flags goalFlags

	cmd := &cobra.Command{
		Use:   "edit <goal-id>",
		Short: "Change a goal; today's completed entries are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				goal, err := resolveGoal(a.GoalManager, args[0])
				if err != nil {
					return err
				}

				err = flags.apply(cmd, &goal, a.Location)
				if err != nil {
					return err
				}

				err = validation.ValidateGoal(goal)
				if err != nil {
					return err
				}

				err = a.GoalManager.UpdateGoal(ctx, goal)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s %q\n", shortID(goal.ID), goal.Title)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <goal-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal and today's entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				goal, err := resolveGoal(a.GoalManager, args[0])
				if err != nil {
					return err
				}

				err = a.GoalManager.DeleteGoal(ctx, goal.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %q\n", shortID(goal.ID), goal.Title)
				return nil
			})
		},
	}
}
