package engine

import (
	"sort"

	"github.com/sandeepkv93/momentum/internal/model"
)

// CommitDay writes today's DayRecord into the ledger from a snapshot of the
// live task list. Any existing record for today is fully replaced; repeated
// commits on the same day are idempotent, not additive. The record keeps the
// unrounded completion percentage so downstream averages do not compound
// rounding error.
func CommitDay(today string, tasks []model.Task, history model.History) (model.History, model.DayRecord) {
	if history == nil {
		history = make(model.History)
	}

	completed := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t.Name)
		}
	}

	pct := 0.0
	if len(tasks) > 0 {
		pct = float64(len(completed)) / float64(len(tasks)) * 100
	}

	rec := model.DayRecord{
		CompletionPercentage: pct,
		XPEarned:             len(completed) * XPPerTask,
		Tasks:                completed,
	}
	history[today] = rec
	return history, rec
}

// Streak counts consecutive fully-completed days scanning backward from the
// most recent ledger entry. A perfect day increments; an imperfect past day
// ends the scan. An imperfect record for today is skipped without breaking,
// so a streak built on prior days survives until today is locked in. The
// asymmetry is deliberate and load-bearing: do not "fix" it.
func Streak(history model.History, today string) int {
	dates := history.Dates()
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	streak := 0
	for _, date := range dates {
		if history[date].CompletionPercentage == 100 {
			streak++
		} else if date != today {
			break
		}
	}
	return streak
}
