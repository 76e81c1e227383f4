package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the ledger key format. Lexicographic order on keys in this
// layout matches chronological order, which the streak scan relies on.
const DateLayout = "2006-01-02"

var ErrInvalidDateKey = errors.New("model: invalid date key")

// DayKey formats a wall-clock time as a ledger key on the local calendar.
// No timezone normalization happens anywhere in the core.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// DayRecord is the immutable-once-written snapshot of one calendar day.
// Tasks holds the names of the tasks completed that day; a task renamed
// later will not retroactively update history.
type DayRecord struct {
	CompletionPercentage float64
	XPEarned             int
	Tasks                []string
}

// History is the per-day ledger, keyed by DayKey. At most one record per
// date; a later write for the same date fully replaces the prior record.
type History map[string]DayRecord

// Dates returns the ledger keys in ascending chronological order.
func (h History) Dates() []string {
	out := make([]string, 0, len(h))
	for key := range h {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// TotalXP sums xpEarned across the whole ledger. The ledger, not any
// cached counter, is the source of truth for lifetime XP.
func (h History) TotalXP() int {
	total := 0
	for _, rec := range h {
		total += rec.XPEarned
	}
	return total
}

// PerfectDays counts records with exactly 100% completion.
func (h History) PerfectDays() int {
	count := 0
	for _, rec := range h {
		if rec.CompletionPercentage == 100 {
			count++
		}
	}
	return count
}
