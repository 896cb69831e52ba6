package repository

import (
	"context"

	"habit-tracker/internal/domain"
)

// HabitRepository exposes persistence operations for Habit aggregates.
// All reads and writes are scoped by the owning user: a habit that exists
// but belongs to someone else behaves exactly like a missing habit.
type HabitRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, habit *domain.Habit) (int64, error)
	GetForUser(ctx context.Context, id, userID int64) (*domain.Habit, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Habit, error)
	UpdateStreak(ctx context.Context, habit *domain.Habit) error
	DeleteForUser(ctx context.Context, id, userID int64) error
}
