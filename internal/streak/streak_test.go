package streak

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApply_FirstToggleStartsStreak(t *testing.T) {
	now := ts("2026-03-10T15:04:05Z")

	streak, last := Apply(0, nil, now)
	if streak != 1 {
		t.Errorf("streak = %d, want 1", streak)
	}
	if last == nil || !last.Equal(now) {
		t.Errorf("lastChecked = %v, want %v", last, now)
	}
}

func TestApply_Transitions(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		lastChecked string
		now         string
		wantStreak  int
		wantChecked bool
	}{
		{
			name:        "same day unchecks regardless of streak",
			current:     17,
			lastChecked: "2026-03-10T08:00:00Z",
			now:         "2026-03-10T22:30:00Z",
			wantStreak:  0,
			wantChecked: false,
		},
		{
			name:        "same instant unchecks",
			current:     1,
			lastChecked: "2026-03-10T08:00:00Z",
			now:         "2026-03-10T08:00:00Z",
			wantStreak:  0,
			wantChecked: false,
		},
		{
			name:        "consecutive day increments",
			current:     4,
			lastChecked: "2026-03-10T23:59:00Z",
			now:         "2026-03-11T00:01:00Z",
			wantStreak:  5,
			wantChecked: true,
		},
		{
			name:        "two day gap resets to one",
			current:     9,
			lastChecked: "2026-03-10T12:00:00Z",
			now:         "2026-03-12T12:00:00Z",
			wantStreak:  1,
			wantChecked: true,
		},
		{
			name:        "long gap resets to one",
			current:     30,
			lastChecked: "2026-01-01T12:00:00Z",
			now:         "2026-03-12T12:00:00Z",
			wantStreak:  1,
			wantChecked: true,
		},
		{
			name:        "clock moved backward resets to one",
			current:     6,
			lastChecked: "2026-03-12T12:00:00Z",
			now:         "2026-03-10T12:00:00Z",
			wantStreak:  1,
			wantChecked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := ts(tt.lastChecked)
			now := ts(tt.now)

			streak, checked := Apply(tt.current, &last, now)
			if streak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", streak, tt.wantStreak)
			}
			if tt.wantChecked {
				if checked == nil || !checked.Equal(now) {
					t.Errorf("lastChecked = %v, want %v", checked, now)
				}
			} else if checked != nil {
				t.Errorf("lastChecked = %v, want nil", checked)
			}
		})
	}
}

func TestApply_DoubleToggleSameDay(t *testing.T) {
	now := ts("2026-03-10T09:00:00Z")

	// check, un-check, check again, all within one day
	streak, last := Apply(0, nil, now)
	if streak != 1 || last == nil {
		t.Fatalf("first toggle = (%d, %v), want (1, now)", streak, last)
	}

	streak, last = Apply(streak, last, now)
	if streak != 0 || last != nil {
		t.Fatalf("second toggle = (%d, %v), want (0, nil)", streak, last)
	}

	streak, last = Apply(streak, last, now)
	if streak != 1 || last == nil || !last.Equal(now) {
		t.Fatalf("third toggle = (%d, %v), want (1, now)", streak, last)
	}
}

func TestApply_DayBoundaryNotElapsedTime(t *testing.T) {
	// 2 hours apart but across midnight UTC: consecutive days
	last := ts("2026-03-10T23:00:00Z")
	now := ts("2026-03-11T01:00:00Z")

	streak, _ := Apply(3, &last, now)
	if streak != 4 {
		t.Errorf("streak = %d, want 4", streak)
	}

	// 23 hours apart within one day: same-day uncheck
	last = ts("2026-03-10T00:30:00Z")
	now = ts("2026-03-10T23:30:00Z")

	streak, checked := Apply(3, &last, now)
	if streak != 0 || checked != nil {
		t.Errorf("same-day toggle = (%d, %v), want (0, nil)", streak, checked)
	}
}

func TestDayOf(t *testing.T) {
	got := DayOf(ts("2026-03-10T23:45:12Z"))
	want := ts("2026-03-10T00:00:00Z")
	if !got.Equal(want) {
		t.Errorf("DayOf = %v, want %v", got, want)
	}

	// non-UTC input normalizes to the UTC day
	loc := time.FixedZone("UTC+9", 9*3600)
	got = DayOf(time.Date(2026, 3, 11, 2, 0, 0, 0, loc)) // 2026-03-10T17:00Z
	if !got.Equal(want) {
		t.Errorf("DayOf(zoned) = %v, want %v", got, want)
	}
}
