package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"habit-tracker/internal/domain"
	"habit-tracker/internal/repository"
	"habit-tracker/internal/streak"
)

// ErrHabitNotFound is returned for habits that do not exist or belong to
// another user; callers cannot tell the two apart.
var ErrHabitNotFound = errors.New("habit not found")

const maxHabitNameLength = 100

// HabitService coordinates habit operations backed by the habit repository.
// Every operation is scoped to the requesting user.
type HabitService interface {
	Create(ctx context.Context, userID int64, name string) (*domain.Habit, error)
	List(ctx context.Context, userID int64) ([]domain.Habit, error)
	Toggle(ctx context.Context, userID, habitID int64) (*domain.Habit, error)
	Delete(ctx context.Context, userID, habitID int64) error
}

type habitService struct {
	habits repository.HabitRepository
	now    func() time.Time
}

func NewHabitService(habits repository.HabitRepository) HabitService {
	return &habitService{
		habits: habits,
		now:    time.Now,
	}
}

func (s *habitService) Create(ctx context.Context, userID int64, name string) (*domain.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: habit name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxHabitNameLength {
		return nil, fmt.Errorf("%w: habit name must be at most %d characters", ErrValidation, maxHabitNameLength)
	}

	habit := &domain.Habit{
		UserID: userID,
		Name:   name,
	}

	if _, err := s.habits.Create(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *habitService) List(ctx context.Context, userID int64) ([]domain.Habit, error) {
	return s.habits.ListByUser(ctx, userID)
}

// Toggle marks the habit done for today, or un-checks it if it was already
// done today. The read-compute-write sequence against a single row is the
// atomicity boundary; last write wins on concurrent toggles.
func (s *habitService) Toggle(ctx context.Context, userID, habitID int64) (*domain.Habit, error) {
	habit, err := s.habits.GetForUser(ctx, habitID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}

	habit.Streak, habit.LastChecked = streak.Apply(habit.Streak, habit.LastChecked, s.now().UTC())

	if err := s.habits.UpdateStreak(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *habitService) Delete(ctx context.Context, userID, habitID int64) error {
	if err := s.habits.DeleteForUser(ctx, habitID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHabitNotFound
		}
		return err
	}
	return nil
}
