package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/templui/gugu/internal/model"
)

func (r *goalRepository) SaveEntries(ctx context.Context, goalID string, entries []model.GoalEntry) error {
	if entries == nil {
		entries = []model.GoalEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	err = r.store.Set(ctx, entriesKey(goalID), data)
	if err != nil {
		return fmt.Errorf("failed to save entries for goal %s: %w", goalID, err)
	}
	return nil
}

// Entries returns today's entries for a goal ordered by scheduled time.
// The daily reset runs first; entries scheduled on another day are dropped
// even when the reset marker was missed.
func (r *goalRepository) Entries(ctx context.Context, goalID string) []model.GoalEntry {
	_, err := r.ResetIfNewDay(ctx)
	if err != nil {
		slog.Warn("daily reset incomplete", "error", err)
	}

	var stored []model.GoalEntry
	if !r.load(ctx, entriesKey(goalID), &stored) {
		return []model.GoalEntry{}
	}

	now := r.now()
	entries := make([]model.GoalEntry, 0, len(stored))
	for _, entry := range stored {
		if !SameDay(entry.ScheduledTime, now, r.loc) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ScheduledTime.Before(entries[j].ScheduledTime)
	})

	if dropped := len(stored) - len(entries); dropped > 0 {
		slog.Debug("dropped stale entries", "goal_id", goalID, "count", dropped)
	}
	return entries
}

func (r *goalRepository) DeleteEntries(ctx context.Context, goalID string) error {
	err := r.store.Remove(ctx, entriesKey(goalID))
	if err != nil {
		return fmt.Errorf("failed to delete entries for goal %s: %w", goalID, err)
	}
	return nil
}
