package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/templui/gugu/internal/app"
	"github.com/templui/gugu/internal/logger"
	"github.com/templui/gugu/internal/observability"
	"github.com/templui/gugu/internal/service"
)

func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep goals refreshed, print changes and deliver reminders",
		Long: `Runs in the foreground until interrupted.

SIGUSR1 moves the tracker to the background (no periodic refresh),
SIGUSR2 brings it back to the foreground (refresh now, then every REFRESH_INTERVAL).
Metrics are served on METRICS_ADDR when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
					logger.Level.Set(slog.LevelInfo)
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				if addr := a.Cfg.MetricsAddr; addr != "" {
					go func() {
						err := observability.Serve(ctx, addr)
						if err != nil {
							slog.Error("metrics server failed", "error", err)
						}
					}()
				}

				states := make(chan service.AppState, 1)
				signals := make(chan os.Signal, 1)
				signal.Notify(signals, syscall.SIGUSR1, syscall.SIGUSR2)
				defer signal.Stop(signals)

				done := a.GoalManager.StartObservingAppState(ctx, states)
				states <- service.AppStateForeground

				out := cmd.OutOrStdout()
				printStatus(out, a)

				for {
					select {
					case <-ctx.Done():
						<-done
						fmt.Fprintln(out, "stopped")
						return nil
					case sig := <-signals:
						state := service.AppStateForeground
						if sig == syscall.SIGUSR1 {
							state = service.AppStateBackground
						}
						select {
						case states <- state:
						case <-ctx.Done():
						}
					case ev, ok := <-a.GoalManager.Events():
						if !ok {
							return nil
						}
						printEvent(out, a, ev)
					}
				}
			})
		},
	}
}

func printStatus(w io.Writer, a *app.App) {
	m := a.GoalManager
	for _, g := range m.Goals() {
		state, err := m.State(g.ID)
		if err != nil {
			continue
		}
		summary, _ := m.Summary(g.ID)
		current, _ := m.Current(g.ID)
		next, _ := m.Next(g.ID)
		fmt.Fprintf(w, "%-24s %d/%d  %s\n", g.Title, summary.Completed, summary.Total,
			goalStatus(g, state, summary, current, next, a.Location))
	}
}

func printEvent(w io.Writer, a *app.App, ev service.Event) {
	stamp := ev.At.In(a.Location).Format("15:04:05")

	switch ev.Kind {
	case service.EventDayReset:
		fmt.Fprintf(w, "%s new day, schedules reset\n", stamp)
		printStatus(w, a)
	case service.EventCooldownChanged:
		g, err := a.GoalManager.Goal(ev.GoalID)
		if err != nil {
			return
		}
		state, err := a.GoalManager.State(ev.GoalID)
		if err != nil {
			return
		}
		if state.IsInCooldown {
			fmt.Fprintf(w, "%s %s is cooling down\n", stamp, g.Title)
		} else {
			fmt.Fprintf(w, "%s %s is ready\n", stamp, g.Title)
		}
	default:
		slog.Debug("event", "kind", ev.Kind, "goal_id", ev.GoalID)
	}
}
