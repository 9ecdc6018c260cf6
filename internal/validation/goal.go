package validation

import (
	"math"
	"strings"
	"time"
)

func ValidateGoalType(goalType string) error {
	trimmed := strings.TrimSpace(goalType)
	if trimmed == "" {
		return fieldError("type", "goal type is required")
	}
	if len(trimmed) > 100 {
		return fieldError("type", "goal type is too long (max 100 characters)")
	}
	return nil
}

func ValidateTarget(target float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fieldError("target", "target must be a number")
	}
	if target <= 0 {
		return fieldError("target", "target must be a positive number")
	}
	return nil
}

// ValidateDeadline requires the deadline to lie strictly after now. It is
// only applied when a goal is created.
func ValidateDeadline(deadline, now time.Time) error {
	if deadline.IsZero() {
		return fieldError("deadline", "deadline is required")
	}
	if !deadline.After(now) {
		return fieldError("deadline", "deadline must be in the future")
	}
	return nil
}

func ValidateProgress(progress float64) error {
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		return fieldError("progress", "progress must be a number")
	}
	if progress < 0 {
		return fieldError("progress", "progress cannot be negative")
	}
	return nil
}
