package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/templui/gugu/internal/model"
)

// CooldownPolicy decides where a completion's cooldown ends.
type CooldownPolicy string

const (
	// CooldownBoundary ends the cooldown when the completed slot's window closes,
	// keeping cooldowns aligned with the schedule: a completion at 08:05 for the
	// 08:00 slot of a 2h goal cools down until 10:00, not 10:05. The end can
	// therefore fall less than one interval after the completion; use
	// CooldownRolling when a full interval between completions is required.
	CooldownBoundary CooldownPolicy = "boundary"
	// CooldownRolling ends the cooldown one interval after the completion itself.
	CooldownRolling CooldownPolicy = "rolling"
)

// ParseCooldownPolicy falls back to CooldownBoundary for unknown values.
func ParseCooldownPolicy(s string) CooldownPolicy {
	if CooldownPolicy(s) == CooldownRolling {
		return CooldownRolling
	}
	return CooldownBoundary
}

// LogResult tells why a completion was or was not recorded.
type LogResult string

const (
	LogCompleted        LogResult = "completed"
	LogInCooldown       LogResult = "cooldown"
	LogAlreadyCompleted LogResult = "already_completed"
	LogNotOpen          LogResult = "not_open"
	LogExpired          LogResult = "expired"
	LogUnknownEntry     LogResult = "unknown_entry"
	LogInactive         LogResult = "inactive"
	LogNoPendingSlot    LogResult = "no_pending_slot"
)

func (r LogResult) Accepted() bool {
	return r == LogCompleted
}

// Message is a short user-facing description of the result.
func (r LogResult) Message() string {
	switch r {
	case LogCompleted:
		return "logged"
	case LogInCooldown:
		return "still in cooldown"
	case LogAlreadyCompleted:
		return "slot already completed"
	case LogNotOpen:
		return "slot is not open yet"
	case LogExpired:
		return "slot has expired"
	case LogUnknownEntry:
		return "entry does not belong to this goal"
	case LogInactive:
		return "goal is paused"
	case LogNoPendingSlot:
		return "nothing to log right now"
	}
	return string(r)
}

// Reminder is a notification the tracker wants delivered at At.
type Reminder struct {
	Title string
	Body  string
	At    time.Time
}

// LogOutcome is what a log attempt produced. Entry is the updated entry when
// the result is LogCompleted.
type LogOutcome struct {
	Result   LogResult
	Entry    model.GoalEntry
	Reminder *Reminder
}

// Tracker owns one goal's entries for the current day and derives its cooldown.
// It is not safe for concurrent use; the GoalManager serializes access.
type Tracker struct {
	goal        model.Goal
	entries     []model.GoalEntry
	policy      CooldownPolicy
	cooldownEnd *time.Time
}

func NewTracker(goal model.Goal, entries []model.GoalEntry, policy CooldownPolicy) *Tracker {
	sorted := make([]model.GoalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledTime.Before(sorted[j].ScheduledTime)
	})

	t := &Tracker{
		goal:    goal,
		entries: sorted,
		policy:  ParseCooldownPolicy(string(policy)),
	}
	t.recomputeCooldown()
	return t
}

func (t *Tracker) Goal() model.Goal {
	return t.goal
}

// Entries returns a copy of the entries ordered by scheduled time.
func (t *Tracker) Entries() []model.GoalEntry {
	out := make([]model.GoalEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// windowEnd is when an entry stops accepting completions.
func (t *Tracker) windowEnd(entry model.GoalEntry) time.Time {
	if entry.NextAvailableTime != nil && !entry.Completed {
		return *entry.NextAvailableTime
	}
	return entry.ScheduledTime.Add(t.goal.Interval())
}

func (t *Tracker) Status(entry model.GoalEntry, now time.Time) model.EntryStatus {
	switch {
	case entry.Completed:
		return model.EntryStatusCompleted
	case now.Before(entry.ScheduledTime):
		return model.EntryStatusScheduled
	case now.Before(t.windowEnd(entry)):
		return model.EntryStatusPending
	default:
		return model.EntryStatusExpired
	}
}

func (t *Tracker) InCooldown(now time.Time) bool {
	return t.cooldownEnd != nil && now.Before(*t.cooldownEnd)
}

func (t *Tracker) CooldownEnd() *time.Time {
	if t.cooldownEnd == nil {
		return nil
	}
	end := *t.cooldownEnd
	return &end
}

// Current returns the slot open for logging at now, if any.
func (t *Tracker) Current(now time.Time) (model.GoalEntry, bool) {
	for _, entry := range t.entries {
		if t.Status(entry, now) == model.EntryStatusPending {
			return entry, true
		}
	}
	return model.GoalEntry{}, false
}

// Next returns the first slot that has not opened yet.
func (t *Tracker) Next(now time.Time) (model.GoalEntry, bool) {
	for _, entry := range t.entries {
		if t.Status(entry, now) == model.EntryStatusScheduled {
			return entry, true
		}
	}
	return model.GoalEntry{}, false
}

func (t *Tracker) State(now time.Time) model.TrackerState {
	state := model.TrackerState{
		GoalID:       t.goal.ID,
		Entries:      t.Entries(),
		IsInCooldown: t.InCooldown(now),
	}
	if state.IsInCooldown {
		state.CooldownEndTime = t.CooldownEnd()
	}
	return state
}

func (t *Tracker) Summary(now time.Time) model.DaySummary {
	s := model.DaySummary{GoalID: t.goal.ID, Total: len(t.entries)}
	for _, entry := range t.entries {
		switch t.Status(entry, now) {
		case model.EntryStatusCompleted:
			s.Completed++
		case model.EntryStatusPending:
			s.Pending++
		case model.EntryStatusScheduled:
			s.Scheduled++
		case model.EntryStatusExpired:
			s.Expired++
		}
	}
	return s
}

// LogEntry records a completion of entry at now. Rejections are reported in
// the outcome and leave the tracker untouched.
func (t *Tracker) LogEntry(entry model.GoalEntry, now time.Time) LogOutcome {
	if !t.goal.IsActive {
		return LogOutcome{Result: LogInactive}
	}

	idx := -1
	for i := range t.entries {
		if t.entries[i].ID == entry.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return LogOutcome{Result: LogUnknownEntry}
	}

	current := t.entries[idx]
	switch t.Status(current, now) {
	case model.EntryStatusCompleted:
		return LogOutcome{Result: LogAlreadyCompleted, Entry: current}
	case model.EntryStatusScheduled:
		return LogOutcome{Result: LogNotOpen, Entry: current}
	case model.EntryStatusExpired:
		return LogOutcome{Result: LogExpired, Entry: current}
	}
	if t.InCooldown(now) {
		return LogOutcome{Result: LogInCooldown, Entry: current}
	}

	current.Completed = true
	current.Timestamp = now
	end := t.cooldownFor(current)
	current.NextAvailableTime = &end

	outcome := LogOutcome{Result: LogCompleted}
	outcome.Reminder = t.followUp(&current, now)

	t.entries[idx] = current
	t.recomputeCooldown()
	outcome.Entry = current

	return outcome
}

// followUp applies the per-kind behavior after a completion.
func (t *Tracker) followUp(entry *model.GoalEntry, now time.Time) *Reminder {
	switch t.goal.Kind {
	case model.GoalKindWater:
		done, remaining := 1, 0
		for _, e := range t.entries {
			if e.ID == entry.ID {
				continue
			}
			if e.Completed {
				done++
			} else if e.ScheduledTime.After(entry.ScheduledTime) {
				remaining++
			}
		}
		if remaining == 0 {
			return nil
		}
		return &Reminder{
			Title: "Time to drink water",
			Body:  fmt.Sprintf("%d of %d glasses done today", done, len(t.entries)),
			At:    *entry.NextAvailableTime,
		}
	case model.GoalKindMeal:
		meal := MealTypeAt(now)
		entry.MealType = &meal
		return nil
	default:
		return nil
	}
}

// MealTypeAt tags a meal by the hour it was eaten.
func MealTypeAt(t time.Time) model.MealType {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return model.MealTypeBreakfast
	case h >= 11 && h < 15:
		return model.MealTypeLunch
	case h >= 17 && h < 22:
		return model.MealTypeDinner
	default:
		return model.MealTypeSnack
	}
}

func (t *Tracker) cooldownFor(entry model.GoalEntry) time.Time {
	if t.policy == CooldownRolling {
		return entry.Timestamp.Add(t.goal.Interval())
	}
	return entry.ScheduledTime.Add(t.goal.Interval())
}

// recomputeCooldown derives the cooldown from the latest completion.
func (t *Tracker) recomputeCooldown() {
	t.cooldownEnd = nil
	var latest *model.GoalEntry
	for i := range t.entries {
		e := &t.entries[i]
		if !e.Completed {
			continue
		}
		if latest == nil || e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	if latest == nil {
		return
	}
	end := t.cooldownFor(*latest)
	t.cooldownEnd = &end
}
