package domain

import "time"

// Habit represents a daily habit tracked by a single owning user.
// LastChecked is nil until the habit has been completed at least once;
// Streak counts consecutive days ending at LastChecked.
type Habit struct {
	ID          int64
	UserID      int64
	Name        string
	Streak      int
	LastChecked *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
