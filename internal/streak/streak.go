// Package streak computes the daily-toggle state transition for a habit.
// All calendar-day comparisons use UTC day boundaries.
package streak

import "time"

// DayOf truncates t to midnight UTC of its calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Apply computes the next (streak, lastChecked) pair for a toggle at now.
//
// A nil lastChecked means the habit has never been completed: the first
// toggle starts a streak of 1. Toggling again on the same calendar day
// un-checks the habit and resets the streak to zero, not to the previous
// value. A toggle exactly one day after the last check extends the streak;
// any longer gap starts over at 1. A now earlier than lastChecked produces
// a negative day difference and falls into the reset branch.
func Apply(current int, lastChecked *time.Time, now time.Time) (int, *time.Time) {
	if lastChecked == nil {
		return 1, &now
	}

	daysDiff := int(DayOf(now).Sub(DayOf(*lastChecked)) / (24 * time.Hour))
	switch daysDiff {
	case 0:
		return 0, nil
	case 1:
		return current + 1, &now
	default:
		return 1, &now
	}
}
