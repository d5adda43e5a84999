package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/templui/gugu/internal/model"
	"golang.org/x/text/unicode/norm"
)

const MaxGoalTitleLength = 60

const day = 24 * time.Hour

// NormalizeTitle trims surrounding space and applies NFC so equal titles compare equal
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// ValidateGoalTitle validates a goal title
func ValidateGoalTitle(title string) error {
	trimmed := NormalizeTitle(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxGoalTitleLength {
		return fmt.Errorf("title is too long (max %d characters)", MaxGoalTitleLength)
	}

	return nil
}

// ValidateTargetCount validates the number of entries per day
func ValidateTargetCount(target int) error {
	if target < model.MinTargetCount || target > model.MaxTargetCount {
		return fmt.Errorf("target must be between %d and %d", model.MinTargetCount, model.MaxTargetCount)
	}
	return nil
}

// ValidateGoal checks everything a user can type into the goal creator.
// The returned error message is meant to be shown as is.
func ValidateGoal(goal model.Goal) error {
	if err := ValidateGoalTitle(goal.Title); err != nil {
		return err
	}

	if err := ValidateTargetCount(goal.TargetCount); err != nil {
		return err
	}

	if goal.IntervalSeconds <= 0 {
		return errors.New("interval must be positive")
	}

	if goal.Kind != "" && !model.ValidKind(goal.Kind) {
		return fmt.Errorf("unknown goal kind %q", goal.Kind)
	}

	// The last slot has to start before midnight
	last := goal.TimeOfDay() + time.Duration(goal.TargetCount-1)*goal.Interval()
	if last >= day {
		return errors.New("schedule does not fit in one day (lower the target or the interval)")
	}

	return nil
}
