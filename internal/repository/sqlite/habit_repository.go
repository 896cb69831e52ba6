package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"habit-tracker/internal/domain"
	"habit-tracker/internal/repository"
)

const createHabitsTable = `
CREATE TABLE IF NOT EXISTS habits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	streak INTEGER NOT NULL DEFAULT 0,
	last_checked DATETIME NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createHabitsUserIndex = `
CREATE INDEX IF NOT EXISTS idx_habits_user_id ON habits(user_id);
`

type HabitRepository struct {
	db *sql.DB
}

func NewHabitRepository(db *sql.DB) repository.HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createHabitsTable); err != nil {
		return fmt.Errorf("create habits table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createHabitsUserIndex); err != nil {
		return fmt.Errorf("create habits user index: %w", err)
	}
	return nil
}

func (r *HabitRepository) Create(ctx context.Context, habit *domain.Habit) (int64, error) {
	now := time.Now().UTC()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO habits (user_id, name, streak, last_checked, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		habit.UserID,
		habit.Name,
		habit.Streak,
		nullTime(habit.LastChecked),
		habit.CreatedAt,
		habit.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert habit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("habit last insert id: %w", err)
	}
	habit.ID = id
	return id, nil
}

func (r *HabitRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.Habit, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, streak, last_checked, created_at, updated_at
FROM habits
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanHabit(row)
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, streak, last_checked, created_at, updated_at
FROM habits
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := []domain.Habit{}
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *habit)
	}

	return habits, rows.Err()
}

func (r *HabitRepository) UpdateStreak(ctx context.Context, habit *domain.Habit) error {
	habit.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
UPDATE habits
SET streak=?, last_checked=?, updated_at=?
WHERE id=? AND user_id=?`,
		habit.Streak,
		nullTime(habit.LastChecked),
		habit.UpdatedAt,
		habit.ID,
		habit.UserID,
	)
	if err != nil {
		return fmt.Errorf("update habit streak: %w", err)
	}
	return nil
}

func (r *HabitRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("habit delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("habit: %w", repository.ErrNotFound)
	}
	return nil
}

func scanHabit(scanner interface {
	Scan(dest ...any) error
}) (*domain.Habit, error) {
	var (
		habit       domain.Habit
		lastChecked sql.NullTime
	)

	if err := scanner.Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Streak,
		&lastChecked,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}

	habit.CreatedAt = habit.CreatedAt.UTC()
	habit.UpdatedAt = habit.UpdatedAt.UTC()
	if lastChecked.Valid {
		t := lastChecked.Time.UTC()
		habit.LastChecked = &t
	}

	return &habit, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
