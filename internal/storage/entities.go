package storage

import "time"

type Task struct {
	ID          string
	Name        string
	Category    string
	DailyTarget float64
	Completed   bool
	CreatedAt   time.Time
}

// DayRecord is one ledger row, keyed by the ISO date string. CompletedTasks
// holds task names, stored as a JSON array column.
type DayRecord struct {
	Date                 string
	CompletionPercentage float64
	XPEarned             int
	CompletedTasks       []string
}

type BadgeGrant struct {
	ID       string
	Earned   bool
	EarnedAt *time.Time
}
