package engine

import (
	"fmt"
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/sandeepkv93/momentum/internal/model"
)

func drawHistory(rt *rapid.T, windowEnd time.Time) model.History {
	days := rapid.IntRange(0, 60).Draw(rt, "days")
	h := make(model.History, days)
	for i := 0; i < days; i++ {
		pct := rapid.Float64Range(0, 100).Draw(rt, fmt.Sprintf("pct_%d", i))
		completed := rapid.IntRange(0, 10).Draw(rt, fmt.Sprintf("completed_%d", i))
		h[model.DayKey(windowEnd.AddDate(0, 0, -i))] = model.DayRecord{
			CompletionPercentage: pct,
			XPEarned:             completed * XPPerTask,
		}
	}
	return h
}

func TestPropertyLifeScoreIsHistoryMean(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		windowEnd := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
		history := drawHistory(rt, windowEnd)

		got := ComputeMetrics(nil, history, 0)
		if len(history) == 0 {
			if got.LifeScore != 0 {
				rt.Errorf("LifeScore = %d, want 0 fallback for empty ledger", got.LifeScore)
			}
			return
		}
		sum := 0.0
		for _, rec := range history {
			sum += rec.CompletionPercentage
		}
		want := int(math.Round(sum / float64(len(history))))
		if got.LifeScore != want {
			rt.Errorf("LifeScore = %d, want %d", got.LifeScore, want)
		}
	})
}

func TestPropertyStreakMatchesBackwardScan(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		today := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
		days := rapid.IntRange(0, 40).Draw(rt, "days")

		history := make(model.History, days)
		perfect := make(map[string]bool, days)
		for i := 0; i < days; i++ {
			key := model.DayKey(today.AddDate(0, 0, -i))
			isPerfect := rapid.Bool().Draw(rt, fmt.Sprintf("perfect_%d", i))
			pct := 50.0
			if isPerfect {
				pct = 100
			}
			history[key] = model.DayRecord{CompletionPercentage: pct}
			perfect[key] = isPerfect
		}

		got := Streak(history, model.DayKey(today))
		if got < 0 {
			rt.Fatalf("streak is negative: %d", got)
		}

		// Reference walk: count perfect days backward from today, with
		// today's own record never able to break the run.
		want := 0
		todayKey := model.DayKey(today)
		for i := 0; i < days; i++ {
			key := model.DayKey(today.AddDate(0, 0, -i))
			if perfect[key] {
				want++
			} else if key != todayKey {
				break
			}
		}
		if got != want {
			rt.Errorf("Streak = %d, want %d", got, want)
		}
	})
}

func TestPropertyTrendShape(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		windowEnd := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rapid.IntRange(0, 400).Draw(rt, "endOffset"))
		history := drawHistory(rt, windowEnd)

		report := ComputeAnalytics(history, nil, windowEnd)
		if len(report.DailyTrend) != TrendWindowDays {
			rt.Fatalf("trend has %d points, want %d", len(report.DailyTrend), TrendWindowDays)
		}
		if got := report.DailyTrend[TrendWindowDays-1].DayOfMonth; got != windowEnd.Day() {
			rt.Errorf("terminal point day = %d, want %d", got, windowEnd.Day())
		}
		for i, p := range report.DailyTrend {
			want := windowEnd.AddDate(0, 0, i-(TrendWindowDays-1)).Day()
			if p.DayOfMonth != want {
				rt.Errorf("point %d day = %d, want %d", i, p.DayOfMonth, want)
			}
		}
	})
}

func TestPropertyTotalXPIsLedgerSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		windowEnd := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
		history := drawHistory(rt, windowEnd)

		want := 0
		for _, rec := range history {
			want += rec.XPEarned
		}
		report := ComputeAnalytics(history, nil, windowEnd)
		if report.TotalXP != want {
			rt.Errorf("TotalXP = %d, want %d", report.TotalXP, want)
		}
	})
}

func TestPropertyBadgesNeverRevert(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		now := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
		state := map[BadgeID]BadgeState{}

		rounds := rapid.IntRange(1, 12).Draw(rt, "rounds")
		for i := 0; i < rounds; i++ {
			stats := BadgeStats{
				Streak:        rapid.IntRange(0, 40).Draw(rt, fmt.Sprintf("streak_%d", i)),
				TotalXP:       rapid.IntRange(0, 2000).Draw(rt, fmt.Sprintf("xp_%d", i)),
				PerfectDays:   rapid.IntRange(0, 20).Draw(rt, fmt.Sprintf("perfect_%d", i)),
				HighScoreWeek: rapid.Bool().Draw(rt, fmt.Sprintf("highweek_%d", i)),
			}
			next := EvaluateBadges(stats, state, now.AddDate(0, 0, i))
			for id, prev := range state {
				if prev.Earned && !next[id].Earned {
					rt.Fatalf("badge %s reverted from earned on round %d", id, i)
				}
			}
			state = next
		}
	})
}
