package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/sandeepkv93/momentum/internal/model"
)

// TrendWindowDays is the size of the daily trend series. The series always
// has exactly this many points, ending on the reference date.
const TrendWindowDays = 30

type TrendPoint struct {
	DayOfMonth int
	Completion int
}

type CategoryScore struct {
	Category   model.Category
	Percentage int
}

// Report is the analytics view payload, recomputed on demand from the
// ledger and the live task list.
type Report struct {
	DailyTrend          []TrendPoint
	CategoryPerformance []CategoryScore
	ConsistencyScore    int
	MostProductiveDay   string
	TotalXP             int
	Insights            []string
}

// ComputeAnalytics aggregates the ledger against the current task list.
// windowEnd is the injected reference date, normally "today" on the
// caller's local calendar.
func ComputeAnalytics(history model.History, tasks []model.Task, windowEnd time.Time) Report {
	trend := dailyTrend(history, windowEnd)
	categories := categoryPerformance(history, tasks)
	perfectDays := history.PerfectDays()

	return Report{
		DailyTrend:          trend,
		CategoryPerformance: categories,
		ConsistencyScore:    perfectDays,
		MostProductiveDay:   mostProductiveDay(history),
		TotalXP:             history.TotalXP(),
		Insights:            insights(trend, categories, perfectDays),
	}
}

func dailyTrend(history model.History, windowEnd time.Time) []TrendPoint {
	out := make([]TrendPoint, 0, TrendWindowDays)
	for i := TrendWindowDays - 1; i >= 0; i-- {
		date := windowEnd.AddDate(0, 0, -i)
		rec := history[model.DayKey(date)] // zero record for ledger gaps
		out = append(out, TrendPoint{
			DayOfMonth: date.Day(),
			Completion: int(math.Round(rec.CompletionPercentage)),
		})
	}
	return out
}

// categoryPerformance joins historical completions to categories through the
// *current* task name. Renaming or recategorizing a task retroactively
// reclassifies its history; completions whose task no longer exists are
// dropped. Known lossy behavior, kept for compatibility with the ledger
// format, which stores names rather than ids.
//
// Completions are normalized against the category's task-day slots (current
// task count times recorded days), so one task completed on 3 of 5 recorded
// days scores 60.
func categoryPerformance(history model.History, tasks []model.Task) []CategoryScore {
	type catStat struct {
		completed int
		total     int
	}
	stats := make(map[model.Category]*catStat)
	order := make([]model.Category, 0, len(model.Categories()))
	ensure := func(c model.Category) *catStat {
		if s, ok := stats[c]; ok {
			return s
		}
		s := &catStat{}
		stats[c] = s
		order = append(order, c)
		return s
	}

	for _, date := range history.Dates() {
		for _, name := range history[date].Tasks {
			if task, ok := taskByName(tasks, name); ok {
				ensure(task.Category).completed++
			}
		}
	}
	for _, t := range tasks {
		ensure(t.Category).total++
	}

	out := make([]CategoryScore, 0, len(order))
	days := len(history)
	for _, c := range order {
		s := stats[c]
		pct := 0
		if slots := s.total * days; slots > 0 {
			pct = int(math.Round(float64(s.completed) / float64(slots) * 100))
		}
		out = append(out, CategoryScore{Category: c, Percentage: pct})
	}
	return out
}

func taskByName(tasks []model.Task, name string) (model.Task, bool) {
	for _, t := range tasks {
		if t.Name == name {
			return t, true
		}
	}
	return model.Task{}, false
}

// mostProductiveDay picks the date with the strictly highest completion.
// First occurrence wins on ties; all-zero or empty ledgers report "N/A".
func mostProductiveDay(history model.History) string {
	best := "N/A"
	max := 0.0
	for _, date := range history.Dates() {
		if pct := history[date].CompletionPercentage; pct > max {
			max = pct
			if at, err := model.ParseDayKey(date); err == nil {
				best = at.Format("Jan 2")
			}
		}
	}
	return best
}

func insights(trend []TrendPoint, categories []CategoryScore, perfectDays int) []string {
	out := make([]string, 0, 3)

	sum := 0
	for _, p := range trend {
		sum += p.Completion
	}
	avg := float64(sum) / float64(len(trend))

	switch {
	case avg >= 80:
		out = append(out, "Exceptional consistency! You're maintaining high performance.")
	case avg >= 60:
		out = append(out, "Good progress! Try to maintain this momentum.")
	default:
		out = append(out, "There's room for improvement. Focus on completing more tasks daily.")
	}

	if perfectDays >= 7 {
		out = append(out, fmt.Sprintf("You've achieved %d perfect days! Outstanding dedication.", perfectDays))
	}

	bestIdx := -1
	bestPct := 0
	for i, cs := range categories {
		if cs.Percentage > bestPct {
			bestPct = cs.Percentage
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		best := categories[bestIdx]
		out = append(out, fmt.Sprintf("Your strongest category is %s at %d%% completion.", best.Category, best.Percentage))
	}
	return out
}
