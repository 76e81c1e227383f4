package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("model: invalid task category")
	ErrInvalidTarget   = errors.New("model: daily target must be positive")
)

type Category string

const (
	CategoryWater   Category = "Water"
	CategoryStudy   Category = "Study"
	CategoryGym     Category = "Gym"
	CategoryFinance Category = "Finance"
	CategoryCustom  Category = "Custom"
)

func Categories() []Category {
	return []Category{CategoryWater, CategoryStudy, CategoryGym, CategoryFinance, CategoryCustom}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryWater, CategoryStudy, CategoryGym, CategoryFinance, CategoryCustom:
		return true
	default:
		return false
	}
}

func ParseCategory(input string) (Category, error) {
	s := strings.TrimSpace(input)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, input)
}

// Task is one recurring daily habit. ID and CreatedAt are assigned at
// creation and never change; everything else is mutable through updates.
type Task struct {
	ID          string
	Name        string
	Category    Category
	DailyTarget float64
	Completed   bool
	CreatedAt   time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if t.DailyTarget <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, t.DailyTarget)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}
