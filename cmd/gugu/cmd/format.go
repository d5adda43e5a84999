package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/templui/gugu/internal/model"
)

const clockFormat = "15:04"

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// goalStatus is the one-word state shown next to a goal.
func goalStatus(goal model.Goal, state model.TrackerState, summary model.DaySummary, current, next *model.GoalEntry, loc *time.Location) string {
	switch {
	case !goal.IsActive:
		return "paused"
	case state.IsInCooldown && state.CooldownEndTime != nil:
		return "cooldown until " + state.CooldownEndTime.In(loc).Format(clockFormat)
	case current != nil:
		return "open since " + current.ScheduledTime.In(loc).Format(clockFormat)
	case next != nil:
		return "next at " + next.ScheduledTime.In(loc).Format(clockFormat)
	case summary.Done():
		return "done for today"
	default:
		return "-"
	}
}

func progressBar(s model.DaySummary, width int) string {
	if s.Total == 0 {
		return strings.Repeat(".", width)
	}
	filled := int(s.Progress()*float64(width) + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatInterval(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return d.String()
}
