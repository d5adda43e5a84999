package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/gugu/internal/model"
	"github.com/templui/gugu/internal/storage"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestRepository(t *testing.T, start time.Time) (GoalRepository, *storage.MemoryStore, *clock) {
	t.Helper()
	store := storage.NewMemoryStore()
	c := &clock{now: start}
	repo := NewGoalRepository(store, WithClock(c.Now), WithLocation(time.UTC))
	return repo, store, c
}

func testGoal(id string) model.Goal {
	return model.Goal{
		ID:              id,
		Kind:            model.GoalKindWater,
		Title:           "Drink water",
		TargetCount:     8,
		IntervalSeconds: 7200,
		ColorScheme:     "blue",
		StartTime:       time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
}

func testEntry(goalID string, scheduled time.Time) model.GoalEntry {
	return model.GoalEntry{
		ID:            goalID + "-" + scheduled.Format("1504"),
		GoalID:        goalID,
		ScheduledTime: scheduled,
	}
}

func TestGoalsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

	assert.Empty(t, repo.Goals(ctx))

	goals := []model.Goal{testGoal("a"), testGoal("b")}
	require.NoError(t, repo.SaveGoals(ctx, goals))

	loaded := repo.Goals(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a", loaded[0].ID)
	assert.True(t, goals[1].StartTime.Equal(loaded[1].StartTime))

	// Full overwrite
	require.NoError(t, repo.SaveGoals(ctx, goals[:1]))
	assert.Len(t, repo.Goals(ctx), 1)
}

func TestGoalsCorruptedBlobReadsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := newTestRepository(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

	require.NoError(t, store.Set(ctx, goalsKey, []byte{0xff, 0x00, '{', 'x'}))

	goals := repo.Goals(ctx)
	assert.NotNil(t, goals)
	assert.Empty(t, goals)
}

func TestEntriesCorruptedBlobReadsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := newTestRepository(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

	_, err := repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, entriesKey("a"), []byte(`[{"id":`)))

	assert.Empty(t, repo.Entries(ctx, "a"))
}

func TestEntriesNamespacedAndOrdered(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	repo, store, _ := newTestRepository(t, day.Add(9*time.Hour))

	require.NoError(t, repo.SaveGoals(ctx, []model.Goal{testGoal("a"), testGoal("b")}))
	_, err := repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveEntries(ctx, "a", []model.GoalEntry{
		testEntry("a", day.Add(10*time.Hour)),
		testEntry("a", day.Add(8*time.Hour)),
	}))
	require.NoError(t, repo.SaveEntries(ctx, "b", []model.GoalEntry{testEntry("b", day.Add(12*time.Hour))}))

	a := repo.Entries(ctx, "a")
	require.Len(t, a, 2)
	assert.True(t, day.Add(8*time.Hour).Equal(a[0].ScheduledTime))
	assert.True(t, day.Add(10*time.Hour).Equal(a[1].ScheduledTime))

	b := repo.Entries(ctx, "b")
	require.Len(t, b, 1)
	assert.Equal(t, "b", b[0].GoalID)

	require.NoError(t, repo.DeleteEntries(ctx, "a"))
	assert.Empty(t, repo.Entries(ctx, "a"))
	_, err = store.Get(ctx, entriesKey("a"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestResetIfNewDayIdempotent(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	repo, store, c := newTestRepository(t, day.Add(7*time.Hour))

	require.NoError(t, repo.SaveGoals(ctx, []model.Goal{testGoal("a")}))

	reset, err := repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.True(t, reset, "first check of the day clears")

	require.NoError(t, repo.SaveEntries(ctx, "a", []model.GoalEntry{testEntry("a", day.Add(8*time.Hour))}))

	c.now = day.Add(20 * time.Hour)
	reset, err = repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.False(t, reset, "second check the same day is a no-op")
	assert.Len(t, repo.Entries(ctx, "a"), 1)

	c.now = day.Add(24*time.Hour + time.Minute)
	reset, err = repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.True(t, reset)
	_, err = store.Get(ctx, entriesKey("a"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	reset, err = repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.False(t, reset)
}

func TestEntriesFromYesterdayAreFiltered(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	repo, store, c := newTestRepository(t, day.Add(9*time.Hour))

	require.NoError(t, repo.SaveGoals(ctx, []model.Goal{testGoal("a")}))
	_, err := repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveEntries(ctx, "a", []model.GoalEntry{testEntry("a", day.Add(8*time.Hour))}))
	require.Len(t, repo.Entries(ctx, "a"), 1)

	// Next day, reset marker already advanced by some other path; stale write still filtered
	c.now = day.Add(33 * time.Hour)
	_, err = repo.ResetIfNewDay(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, entriesKey("a"), []byte(`[{"id":"old","goalId":"a","timestamp":"0001-01-01T00:00:00Z","completed":false,"scheduledTime":"2026-10-19T08:00:00Z"}]`)))

	assert.Empty(t, repo.Entries(ctx, "a"))
}

func TestSameDayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	a := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC) // 01:00 on the 20th in loc
	b := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), StartOfDay(a, loc))
}
