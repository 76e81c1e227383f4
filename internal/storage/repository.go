package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the persistence collaborator. Reads follow get-or-default
// semantics: a missing task list is empty, a missing ledger is empty, a
// missing streak counter is zero. Writes are full-value overwrites.
type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]Task, error)

	UpsertDayRecord(ctx context.Context, in DayRecord) error
	GetDayRecord(ctx context.Context, date string) (DayRecord, error)
	ListDayRecords(ctx context.Context) ([]DayRecord, error)

	GetStreak(ctx context.Context) (int, error)
	SetStreak(ctx context.Context, streak int) error

	ListBadges(ctx context.Context) ([]BadgeGrant, error)
	UpsertBadge(ctx context.Context, in BadgeGrant) error
}
