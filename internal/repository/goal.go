package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/gugu/internal/model"
	"github.com/templui/gugu/internal/storage"
)

const (
	goalsKey         = "goals"
	entriesKeyPrefix = "entries."
	lastResetDateKey = "lastResetDate"
)

type GoalRepository interface {
	SaveGoals(ctx context.Context, goals []model.Goal) error
	Goals(ctx context.Context) []model.Goal
	SaveEntries(ctx context.Context, goalID string, entries []model.GoalEntry) error
	Entries(ctx context.Context, goalID string) []model.GoalEntry
	DeleteEntries(ctx context.Context, goalID string) error
	ResetIfNewDay(ctx context.Context) (bool, error)
}

type Option func(*goalRepository)

// WithClock overrides time.Now for the daily reset rule.
func WithClock(now func() time.Time) Option {
	return func(r *goalRepository) {
		r.now = now
	}
}

// WithLocation sets the location calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(r *goalRepository) {
		if loc != nil {
			r.loc = loc
		}
	}
}

type goalRepository struct {
	store storage.Store
	now   func() time.Time
	loc   *time.Location
}

func NewGoalRepository(store storage.Store, opts ...Option) GoalRepository {
	r := &goalRepository{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func entriesKey(goalID string) string {
	return entriesKeyPrefix + goalID
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

func (r *goalRepository) SaveGoals(ctx context.Context, goals []model.Goal) error {
	if goals == nil {
		goals = []model.Goal{}
	}
	data, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}

	err = r.store.Set(ctx, goalsKey, data)
	if err != nil {
		return fmt.Errorf("failed to save goals: %w", err)
	}
	return nil
}

// Goals returns the persisted goal set. Missing or malformed data reads as empty.
func (r *goalRepository) Goals(ctx context.Context) []model.Goal {
	var goals []model.Goal
	if !r.load(ctx, goalsKey, &goals) {
		return []model.Goal{}
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals
}

// ResetIfNewDay clears every goal's entries once per calendar day.
// It reports whether the clear happened on this call.
func (r *goalRepository) ResetIfNewDay(ctx context.Context) (bool, error) {
	now := r.now()
	today := StartOfDay(now, r.loc)

	var lastReset time.Time
	if r.load(ctx, lastResetDateKey, &lastReset) && !lastReset.Before(today) {
		return false, nil
	}

	var errs []error
	for _, goal := range r.Goals(ctx) {
		err := r.store.Remove(ctx, entriesKey(goal.ID))
		if err != nil {
			errs = append(errs, err)
		}
	}

	data, err := json.Marshal(now)
	if err != nil {
		return false, fmt.Errorf("failed to encode reset date: %w", err)
	}
	err = r.store.Set(ctx, lastResetDateKey, data)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return true, fmt.Errorf("failed to reset entries: %w", errors.Join(errs...))
	}

	slog.Info("daily reset applied", "date", today.Format(time.DateOnly))
	return true, nil
}

// load decodes key into dest and reports whether it succeeded.
func (r *goalRepository) load(ctx context.Context, key string, dest any) bool {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		slog.Warn("failed to read persisted state, using defaults", "key", key, "error", err)
		return false
	}

	err = json.Unmarshal(data, dest)
	if err != nil {
		slog.Warn("malformed persisted state, using defaults", "key", key, "error", err)
		return false
	}
	return true
}
