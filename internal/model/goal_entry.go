package model

import (
	"time"
)

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

type GoalEntry struct {
	ID                string     `json:"id"`
	GoalID            string     `json:"goalId"`
	Timestamp         time.Time  `json:"timestamp"`
	Completed         bool       `json:"completed"`
	ScheduledTime     time.Time  `json:"scheduledTime"`
	NextAvailableTime *time.Time `json:"nextAvailableTime,omitempty"`
	MealType          *MealType  `json:"mealType,omitempty"`
}

// EntryStatus is the derived position of an entry within its window.
type EntryStatus string

const (
	EntryStatusScheduled EntryStatus = "scheduled"
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusExpired   EntryStatus = "expired"
)

// TrackerState is recomputed from a tracker's entries and never persisted.
type TrackerState struct {
	GoalID          string
	Entries         []GoalEntry
	IsInCooldown    bool
	CooldownEndTime *time.Time
}

// DaySummary counts a goal's entries for the current day by status.
type DaySummary struct {
	GoalID    string
	Total     int
	Completed int
	Pending   int
	Scheduled int
	Expired   int
}

// Done reports whether every slot reached a terminal status.
func (s DaySummary) Done() bool {
	return s.Total > 0 && s.Completed+s.Expired == s.Total
}

// Progress returns the completed share in [0, 1].
func (s DaySummary) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}
