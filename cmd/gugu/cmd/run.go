package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/gugu/internal/app"
	"github.com/templui/gugu/internal/config"
	"github.com/templui/gugu/internal/logger"
	"github.com/templui/gugu/internal/model"
	"github.com/templui/gugu/internal/service"
)

// withApp loads config, sets up logging and runs fn against a ready App.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger.Init(os.Stderr, cfg.IsDevelopment(), level, cfg.SentryDSN)
	defer logger.Flush()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return err
	}
	defer func() {
		closeErr := a.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	return fn(ctx, a)
}

var errAmbiguousGoal = errors.New("goal id prefix is ambiguous")

// resolveGoal accepts a full goal id or a unique prefix of one.
func resolveGoal(m *service.GoalManager, arg string) (model.Goal, error) {
	if g, err := m.Goal(arg); err == nil {
		return g, nil
	}

	var found []model.Goal
	for _, g := range m.Goals() {
		if strings.HasPrefix(g.ID, arg) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return model.Goal{}, fmt.Errorf("%w: %s", service.ErrGoalNotFound, arg)
	case 1:
		return found[0], nil
	default:
		return model.Goal{}, fmt.Errorf("%w: %s matches %d goals", errAmbiguousGoal, arg, len(found))
	}
}
