package service

import (
	"time"
)

type EventKind string

const (
	EventGoalsChanged    EventKind = "goals_changed"
	EventEntriesChanged  EventKind = "entries_changed"
	EventCooldownChanged EventKind = "cooldown_changed"
	EventDayReset        EventKind = "day_reset"
)

// Event tells observers that state changed. It carries no payload beyond the
// goal it concerns; observers re-read state from the manager.
type Event struct {
	Kind   EventKind
	GoalID string
	At     time.Time
}

// AppState is the host's lifecycle as seen by the manager.
type AppState int

const (
	AppStateBackground AppState = iota
	AppStateForeground
)

func (s AppState) String() string {
	if s == AppStateForeground {
		return "foreground"
	}
	return "background"
}
