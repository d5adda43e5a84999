package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/gugu/internal/app"
	"github.com/templui/gugu/internal/config"
	"github.com/templui/gugu/internal/service"
)

func GoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "goals",
		Aliases: []string{"ls"},
		Short:   "List goals with today's status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				m := a.GoalManager
				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "ID\tKIND\tTITLE\tTODAY\tSTATUS")
				for _, g := range m.Goals() {
					state, err := m.State(g.ID)
					if err != nil {
						return err
					}
					summary, _ := m.Summary(g.ID)
					current, _ := m.Current(g.ID)
					next, _ := m.Next(g.ID)

					fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
						shortID(g.ID), g.Kind, g.Title,
						summary.Completed, summary.Total,
						goalStatus(g, state, summary, current, next, a.Location),
					)
				}
				return w.Flush()
			})
		},
	}
}

func TemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List goal templates usable with add --template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "NAME\tKIND\tTITLE\tTARGET\tEVERY\tFROM")
			for _, t := range service.Templates(time.Now().In(loc), loc) {
				g := t.Goal
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					t.Name, g.Kind, g.Title, g.TargetCount, formatInterval(g.Interval()), g.StartTime.In(loc).Format(clockFormat))
			}
			return w.Flush()
		},
	}
}

func SummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show today's progress for every goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				m := a.GoalManager
				titles := map[string]string{}
				for _, g := range m.Goals() {
					titles[g.ID] = g.Title
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "GOAL\tPROGRESS\tDONE\tOPEN\tLATER\tMISSED")
				var done, total int
				for _, s := range m.Summaries() {
					fmt.Fprintf(w, "%s\t[%s]\t%d/%d\t%d\t%d\t%d\n",
						titles[s.GoalID], progressBar(s, 10), s.Completed, s.Total, s.Pending, s.Scheduled, s.Expired)
					done += s.Completed
					total += s.Total
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d entries done today\n", done, total)
				return nil
			})
		},
	}
}
