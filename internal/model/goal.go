package model

import (
	"time"
)

// GoalKind selects the per-kind tracker behavior. The set is closed.
type GoalKind string

const (
	GoalKindWater  GoalKind = "water"
	GoalKindMeal   GoalKind = "meal"
	GoalKindCustom GoalKind = "custom"
)

// GoalKinds lists every supported kind in display order.
var GoalKinds = []GoalKind{GoalKindWater, GoalKindMeal, GoalKindCustom}

const (
	MinTargetCount = 1
	MaxTargetCount = 50
)

type Goal struct {
	ID              string    `json:"id"`
	Kind            GoalKind  `json:"kind"`
	Title           string    `json:"title"`
	TargetCount     int       `json:"targetCount"`
	IntervalSeconds int64     `json:"intervalInSeconds"`
	ColorScheme     string    `json:"colorScheme"`
	StartTime       time.Time `json:"startTime"`
	IsActive        bool      `json:"isActive"`
	IsDefault       bool      `json:"isDefault"`
}

// Interval returns the spacing between two scheduled entries.
func (g Goal) Interval() time.Duration {
	return time.Duration(g.IntervalSeconds) * time.Second
}

// TimeOfDay returns the offset of StartTime from its own midnight.
func (g Goal) TimeOfDay() time.Duration {
	h, m, s := g.StartTime.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// ValidKind reports whether k is one of GoalKinds.
func ValidKind(k GoalKind) bool {
	for _, kind := range GoalKinds {
		if kind == k {
			return true
		}
	}
	return false
}
