package engine

import (
	"math"

	"github.com/sandeepkv93/momentum/internal/model"
)

// XPPerTask is the fixed experience award per completed task per day.
const XPPerTask = 10

// Metrics is the dashboard summary. Percentages are rounded to the nearest
// integer for presentation; accumulation happens in float64 upstream.
type Metrics struct {
	LifeScore       int
	DailyCompletion int
	XPToday         int
	Streak          int
}

// ComputeMetrics derives the summary numbers from the live task list, the
// ledger, and the persisted streak counter. Pure function of its inputs:
// an empty task list yields zeros, an empty ledger makes the life score
// fall back to today's live completion.
func ComputeMetrics(tasks []model.Task, history model.History, streak int) Metrics {
	completed := completedCount(tasks)

	daily := 0.0
	if len(tasks) > 0 {
		daily = float64(completed) / float64(len(tasks)) * 100
	}

	life := daily
	if len(history) > 0 {
		sum := 0.0
		for _, rec := range history {
			sum += rec.CompletionPercentage
		}
		life = sum / float64(len(history))
	}

	return Metrics{
		LifeScore:       int(math.Round(life)),
		DailyCompletion: int(math.Round(daily)),
		XPToday:         completed * XPPerTask,
		Streak:          streak,
	}
}

func completedCount(tasks []model.Task) int {
	count := 0
	for _, t := range tasks {
		if t.Completed {
			count++
		}
	}
	return count
}
