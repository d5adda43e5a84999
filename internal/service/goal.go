package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templui/gugu/internal/model"
	"github.com/templui/gugu/internal/observability"
	"github.com/templui/gugu/internal/repository"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrDuplicateGoal = errors.New("goal already exists")
)

const (
	defaultEventBuffer  = 64
	defaultTickInterval = time.Minute
)

type ManagerOption func(*GoalManager)

func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *GoalManager) {
		m.now = now
	}
}

func WithManagerLocation(loc *time.Location) ManagerOption {
	return func(m *GoalManager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func WithCooldownPolicy(policy CooldownPolicy) ManagerOption {
	return func(m *GoalManager) {
		m.policy = ParseCooldownPolicy(string(policy))
	}
}

// WithTickInterval sets how often cooldowns are re-checked while foregrounded.
func WithTickInterval(d time.Duration) ManagerOption {
	return func(m *GoalManager) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

func WithEventBuffer(n int) ManagerOption {
	return func(m *GoalManager) {
		if n > 0 {
			m.eventBuffer = n
		}
	}
}

type noopReminders struct{}

func (noopReminders) Schedule(string, string, string, time.Duration) {}

// GoalManager owns the goal set and one tracker per goal. Every mutation goes
// through its lock; persistence failures are logged and never surface to callers.
type GoalManager struct {
	repo         repository.GoalRepository
	reminders    ReminderScheduler
	now          func() time.Time
	loc          *time.Location
	policy       CooldownPolicy
	tickInterval time.Duration
	eventBuffer  int

	mu        sync.Mutex
	goals     []model.Goal
	trackers  map[string]*Tracker
	cooldowns map[string]bool
	day       time.Time
	events    chan Event
	closed    bool
}

func NewGoalManager(ctx context.Context, repo repository.GoalRepository, reminders ReminderScheduler, opts ...ManagerOption) *GoalManager {
	if reminders == nil {
		reminders = noopReminders{}
	}
	m := &GoalManager{
		repo:         repo,
		reminders:    reminders,
		now:          time.Now,
		loc:          time.Local,
		policy:       CooldownBoundary,
		tickInterval: defaultTickInterval,
		eventBuffer:  defaultEventBuffer,
		trackers:     make(map[string]*Tracker),
		cooldowns:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.events = make(chan Event, m.eventBuffer)

	now := m.now()
	m.goals = repo.Goals(ctx)
	if len(m.goals) == 0 {
		m.goals = DefaultGoals(now, m.loc)
		err := repo.SaveGoals(ctx, m.goals)
		if err != nil {
			slog.Error("failed to persist default goals", "error", err)
		}
		slog.Info("seeded default goals", "count", len(m.goals))
	}

	m.rebuild(ctx, now)
	return m
}

func (m *GoalManager) Events() <-chan Event {
	return m.events
}

// Close stops event delivery and closes the channel.
func (m *GoalManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.events)
}

func (m *GoalManager) Goals() []model.Goal {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Goal, len(m.goals))
	copy(out, m.goals)
	return out
}

func (m *GoalManager) Goal(id string) (model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return model.Goal{}, ErrGoalNotFound
	}
	return m.goals[i], nil
}

func (m *GoalManager) State(id string) (model.TrackerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackers[id]
	if !ok {
		return model.TrackerState{}, ErrGoalNotFound
	}
	return t.State(m.now()), nil
}

// States returns every goal's state in goal order.
func (m *GoalManager) States() []model.TrackerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	states := make([]model.TrackerState, 0, len(m.goals))
	for _, g := range m.goals {
		if t, ok := m.trackers[g.ID]; ok {
			states = append(states, t.State(now))
		}
	}
	return states
}

func (m *GoalManager) Summary(id string) (model.DaySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackers[id]
	if !ok {
		return model.DaySummary{}, ErrGoalNotFound
	}
	return t.Summary(m.now()), nil
}

// Summaries returns every goal's summary in goal order.
func (m *GoalManager) Summaries() []model.DaySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	out := make([]model.DaySummary, 0, len(m.goals))
	for _, g := range m.goals {
		if t, ok := m.trackers[g.ID]; ok {
			out = append(out, t.Summary(now))
		}
	}
	return out
}

// Current returns the slot open for logging, or nil.
func (m *GoalManager) Current(id string) (*model.GoalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackers[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	entry, ok := t.Current(m.now())
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Next returns the next slot that has not opened yet, or nil.
func (m *GoalManager) Next(id string) (*model.GoalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackers[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	entry, ok := t.Next(m.now())
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// AddGoal appends goal and schedules today's slots for it. Callers validate first.
func (m *GoalManager) AddGoal(ctx context.Context, goal model.Goal) (model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if m.indexOf(goal.ID) >= 0 {
		return model.Goal{}, ErrDuplicateGoal
	}
	if goal.Kind == "" {
		goal.Kind = model.GoalKindCustom
	}

	now := m.now()
	m.goals = append(m.goals, goal)
	m.persistGoals(ctx)

	var entries []model.GoalEntry
	if goal.IsActive {
		entries = GenerateSchedule(goal, now, m.loc)
		m.persistEntries(ctx, goal.ID, entries)
	}
	m.trackers[goal.ID] = NewTracker(goal, entries, m.policy)

	slog.Info("goal added", "goal_id", goal.ID, "kind", goal.Kind, "entries", len(entries))
	m.emit(EventGoalsChanged, goal.ID, now)
	m.emit(EventEntriesChanged, goal.ID, now)
	return goal, nil
}

// UpdateGoal replaces a goal's user-editable fields and regenerates today's
// schedule. Completed entries are kept; a completed entry whose slot still
// exists takes that slot's place.
func (m *GoalManager) UpdateGoal(ctx context.Context, goal model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(goal.ID)
	if i < 0 {
		return ErrGoalNotFound
	}
	goal.IsDefault = m.goals[i].IsDefault
	if goal.Kind == "" {
		goal.Kind = m.goals[i].Kind
	}

	now := m.now()
	m.goals[i] = goal
	m.persistGoals(ctx)

	var completed []model.GoalEntry
	if t, ok := m.trackers[goal.ID]; ok {
		for _, e := range t.Entries() {
			if e.Completed {
				completed = append(completed, e)
			}
		}
	}

	var fresh []model.GoalEntry
	if goal.IsActive {
		fresh = GenerateSchedule(goal, now, m.loc)
	}
	entries := mergeCompleted(fresh, completed)

	m.persistEntries(ctx, goal.ID, entries)
	m.trackers[goal.ID] = NewTracker(goal, entries, m.policy)

	slog.Info("goal updated", "goal_id", goal.ID, "entries", len(entries))
	m.emit(EventGoalsChanged, goal.ID, now)
	m.emit(EventEntriesChanged, goal.ID, now)
	m.checkCooldowns(now)
	return nil
}

// mergeCompleted keeps every completed entry and drops fresh slots they occupy.
func mergeCompleted(fresh, completed []model.GoalEntry) []model.GoalEntry {
	taken := make(map[int64]bool, len(completed))
	for _, e := range completed {
		taken[e.ScheduledTime.UnixNano()] = true
	}

	merged := make([]model.GoalEntry, 0, len(fresh)+len(completed))
	merged = append(merged, completed...)
	for _, e := range fresh {
		if !taken[e.ScheduledTime.UnixNano()] {
			merged = append(merged, e)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ScheduledTime.Before(merged[j].ScheduledTime)
	})
	return merged
}

func (m *GoalManager) DeleteGoal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrGoalNotFound
	}

	m.goals = append(m.goals[:i:i], m.goals[i+1:]...)
	delete(m.trackers, id)
	delete(m.cooldowns, id)
	m.persistGoals(ctx)

	err := m.repo.DeleteEntries(ctx, id)
	if err != nil {
		slog.Warn("failed to delete goal entries", "goal_id", id, "error", err)
	}

	slog.Info("goal deleted", "goal_id", id)
	now := m.now()
	m.emit(EventGoalsChanged, id, now)
	m.publishCooldownGauge(now)
	return nil
}

// LogEntry completes the goal's currently open slot. Rejections come back
// in the outcome; only an unknown goal is an error.
func (m *GoalManager) LogEntry(ctx context.Context, goalID string) (LogOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.rollOver(ctx, now)

	t, ok := m.trackers[goalID]
	if !ok {
		return LogOutcome{}, ErrGoalNotFound
	}

	var outcome LogOutcome
	switch entry, open := t.Current(now); {
	case !t.Goal().IsActive:
		outcome = LogOutcome{Result: LogInactive}
	case t.InCooldown(now):
		outcome = LogOutcome{Result: LogInCooldown}
	case !open:
		outcome = LogOutcome{Result: LogNoPendingSlot}
	default:
		outcome = t.LogEntry(entry, now)
	}

	if !outcome.Result.Accepted() {
		observability.RecordRejection(string(outcome.Result))
		slog.Debug("log rejected", "goal_id", goalID, "reason", outcome.Result)
		return outcome, nil
	}

	observability.RecordCompletion(string(t.Goal().Kind))
	m.persistEntries(ctx, goalID, t.Entries())

	if r := outcome.Reminder; r != nil {
		m.reminders.Schedule(goalID, r.Title, r.Body, r.At.Sub(now))
	}

	slog.Info("entry logged", "goal_id", goalID, "entry_id", outcome.Entry.ID, "scheduled", outcome.Entry.ScheduledTime)
	m.emit(EventEntriesChanged, goalID, now)
	m.checkCooldowns(now)
	return outcome, nil
}

// Refresh reloads goals, applies the daily reset and re-derives every
// tracker from storage. Goals added, edited or deleted by another process
// sharing the store show up here.
func (m *GoalManager) Refresh(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.reloadGoals(ctx, now)
	m.rebuild(ctx, now)
	m.emit(EventEntriesChanged, "", now)
}

// Tick re-evaluates cooldowns and rolls over to a new day when needed.
func (m *GoalManager) Tick(ctx context.Context, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rollOver(ctx, now)
	m.checkCooldowns(now)
}

// StartObservingAppState refreshes on every transition to the foreground and
// ticks while foregrounded. The returned channel closes once observation stops.
func (m *GoalManager) StartObservingAppState(ctx context.Context, states <-chan AppState) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		var ticker *time.Ticker
		var tick <-chan time.Time
		stopTicker := func() {
			if ticker != nil {
				ticker.Stop()
				ticker = nil
				tick = nil
			}
		}
		defer stopTicker()

		for {
			select {
			case <-ctx.Done():
				return
			case state, ok := <-states:
				if !ok {
					return
				}
				slog.Debug("app state changed", "state", state)
				switch state {
				case AppStateForeground:
					m.Refresh(ctx)
					if ticker == nil {
						ticker = time.NewTicker(m.tickInterval)
						tick = ticker.C
					}
				case AppStateBackground:
					stopTicker()
				}
			case <-tick:
				m.Tick(ctx, m.now())
			}
		}
	}()

	return done
}

func (m *GoalManager) indexOf(id string) int {
	for i, g := range m.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// rebuild runs the daily reset and recreates every tracker. Active goals
// without stored entries for today get a fresh schedule.
func (m *GoalManager) rebuild(ctx context.Context, now time.Time) {
	reset, err := m.repo.ResetIfNewDay(ctx)
	if err != nil {
		slog.Warn("daily reset incomplete", "error", err)
	}

	m.trackers = make(map[string]*Tracker, len(m.goals))
	for _, g := range m.goals {
		entries := m.repo.Entries(ctx, g.ID)
		if g.IsActive && len(entries) == 0 {
			entries = GenerateSchedule(g, now, m.loc)
			m.persistEntries(ctx, g.ID, entries)
		}
		m.trackers[g.ID] = NewTracker(g, entries, m.policy)
	}
	m.day = repository.StartOfDay(now, m.loc)

	if reset {
		observability.RecordDailyReset()
		m.emit(EventDayReset, "", now)
	}
	m.checkCooldowns(now)
}

func (m *GoalManager) rollOver(ctx context.Context, now time.Time) {
	if repository.SameDay(m.day, now, m.loc) {
		return
	}
	slog.Info("new day, rebuilding schedules", "date", repository.StartOfDay(now, m.loc).Format(time.DateOnly))
	m.reloadGoals(ctx, now)
	m.rebuild(ctx, now)
}

// reloadGoals replaces the in-memory goal set with the stored one. Defaults
// are only seeded by NewGoalManager, so an empty stored set stays empty.
func (m *GoalManager) reloadGoals(ctx context.Context, now time.Time) {
	stored := m.repo.Goals(ctx)
	if sameGoals(m.goals, stored) {
		return
	}

	known := make(map[string]bool, len(stored))
	for _, g := range stored {
		known[g.ID] = true
	}
	for id := range m.cooldowns {
		if !known[id] {
			delete(m.cooldowns, id)
		}
	}

	m.goals = stored
	slog.Info("goals reloaded from storage", "count", len(stored))
	m.emit(EventGoalsChanged, "", now)
}

func sameGoals(a, b []model.Goal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if !x.StartTime.Equal(y.StartTime) {
			return false
		}
		x.StartTime, y.StartTime = time.Time{}, time.Time{}
		if x != y {
			return false
		}
	}
	return true
}

// checkCooldowns emits CooldownChanged for every goal whose cooldown flag flipped.
func (m *GoalManager) checkCooldowns(now time.Time) {
	for id, t := range m.trackers {
		in := t.InCooldown(now)
		if m.cooldowns[id] != in {
			m.cooldowns[id] = in
			m.emit(EventCooldownChanged, id, now)
		}
	}
	m.publishCooldownGauge(now)
}

func (m *GoalManager) publishCooldownGauge(now time.Time) {
	n := 0
	for _, t := range m.trackers {
		if t.InCooldown(now) {
			n++
		}
	}
	observability.SetGoalsInCooldown(n)
}

func (m *GoalManager) persistGoals(ctx context.Context) {
	err := m.repo.SaveGoals(ctx, m.goals)
	if err != nil {
		slog.Error("failed to persist goals", "error", err)
	}
}

func (m *GoalManager) persistEntries(ctx context.Context, goalID string, entries []model.GoalEntry) {
	err := m.repo.SaveEntries(ctx, goalID, entries)
	if err != nil {
		slog.Error("failed to persist entries", "goal_id", goalID, "error", err)
	}
}

// emit never blocks; a full buffer drops the event.
func (m *GoalManager) emit(kind EventKind, goalID string, at time.Time) {
	if m.closed {
		return
	}
	select {
	case m.events <- Event{Kind: kind, GoalID: goalID, At: at}:
	default:
		slog.Debug("event dropped", "kind", kind, "goal_id", goalID)
	}
}
