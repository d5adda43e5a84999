package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/templui/gugu/internal/model"
	"github.com/templui/gugu/internal/repository"
)

// GenerateSchedule lays out a goal's entries for the calendar day containing day.
// The first slot sits at the goal's start time-of-day and each following slot is
// one interval later. Slots that would land on the next day are dropped.
func GenerateSchedule(goal model.Goal, day time.Time, loc *time.Location) []model.GoalEntry {
	if goal.TargetCount <= 0 || goal.IntervalSeconds <= 0 {
		return []model.GoalEntry{}
	}
	if loc == nil {
		loc = time.Local
	}

	midnight := repository.StartOfDay(day, loc)
	h, m, s := goal.StartTime.Clock()
	first := time.Date(midnight.Year(), midnight.Month(), midnight.Day(), h, m, s, 0, loc)
	interval := goal.Interval()

	entries := make([]model.GoalEntry, 0, goal.TargetCount)
	for i := 0; i < goal.TargetCount; i++ {
		scheduled := first.Add(time.Duration(i) * interval)
		if !repository.SameDay(scheduled, midnight, loc) {
			break
		}
		next := scheduled.Add(interval)
		entries = append(entries, model.GoalEntry{
			ID:                uuid.New().String(),
			GoalID:            goal.ID,
			ScheduledTime:     scheduled,
			NextAvailableTime: &next,
		})
	}

	return entries
}

// DefaultGoal is the canonical preset for a kind.
func DefaultGoal(kind model.GoalKind, now time.Time, loc *time.Location) model.Goal {
	if loc == nil {
		loc = time.Local
	}
	at := func(hour int) time.Time {
		d := now.In(loc)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
	}

	goal := model.Goal{
		ID:        uuid.New().String(),
		Kind:      kind,
		IsActive:  true,
		IsDefault: true,
	}

	switch kind {
	case model.GoalKindWater:
		goal.Title = "Drink water"
		goal.TargetCount = 8
		goal.IntervalSeconds = int64((2 * time.Hour).Seconds())
		goal.ColorScheme = "blue"
		goal.StartTime = at(8)
	case model.GoalKindMeal:
		goal.Title = "Eat a meal"
		goal.TargetCount = 3
		goal.IntervalSeconds = int64((5 * time.Hour).Seconds())
		goal.ColorScheme = "orange"
		goal.StartTime = at(8)
	default:
		goal.Kind = model.GoalKindCustom
		goal.Title = "New habit"
		goal.TargetCount = 1
		goal.IntervalSeconds = int64(time.Hour.Seconds())
		goal.ColorScheme = "gray"
		goal.StartTime = at(9)
	}

	return goal
}

// DefaultGoals is the set seeded when nothing is persisted.
func DefaultGoals(now time.Time, loc *time.Location) []model.Goal {
	return []model.Goal{
		DefaultGoal(model.GoalKindWater, now, loc),
		DefaultGoal(model.GoalKindMeal, now, loc),
	}
}

// Template is a named starting point for a user-created goal.
type Template struct {
	Name string
	Goal model.Goal
}

// Templates returns the presets offered when creating a goal. Template goals
// carry no ID and are not marked default.
func Templates(now time.Time, loc *time.Location) []Template {
	water := DefaultGoal(model.GoalKindWater, now, loc)
	meal := DefaultGoal(model.GoalKindMeal, now, loc)

	stretch := DefaultGoal(model.GoalKindCustom, now, loc)
	stretch.Title = "Stretch"
	stretch.TargetCount = 4
	stretch.IntervalSeconds = int64((3 * time.Hour).Seconds())
	stretch.ColorScheme = "green"

	read := DefaultGoal(model.GoalKindCustom, now, loc)
	read.Title = "Read"
	read.StartTime = read.StartTime.Add(12 * time.Hour)
	read.ColorScheme = "purple"

	templates := []Template{
		{Name: "water", Goal: water},
		{Name: "meal", Goal: meal},
		{Name: "stretch", Goal: stretch},
		{Name: "read", Goal: read},
	}
	for i := range templates {
		templates[i].Goal.ID = ""
		templates[i].Goal.IsDefault = false
	}
	return templates
}

// TemplateByName looks up a template from Templates.
func TemplateByName(name string, now time.Time, loc *time.Location) (Template, bool) {
	for _, t := range Templates(now, loc) {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
