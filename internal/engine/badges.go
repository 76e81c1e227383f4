package engine

import "time"

type BadgeID string

const (
	BadgePerfectWeek  BadgeID = "perfectWeek"
	BadgeCenturyClub  BadgeID = "centuryClub"
	BadgeConsistent   BadgeID = "consistent"
	BadgeOverachiever BadgeID = "overachiever"
	BadgeMomentum     BadgeID = "momentum"
	BadgeLegendary    BadgeID = "legendary"
)

type Badge struct {
	ID          BadgeID
	Name        string
	Description string
}

// BadgeStats are the aggregate inputs the predicates evaluate against.
// HighScoreWeek (80%+ life score sustained for 7 consecutive days) is
// computed nowhere upstream yet; callers inject it as a plain flag.
type BadgeStats struct {
	Streak        int
	TotalXP       int
	PerfectDays   int
	HighScoreWeek bool
}

// BadgeState is the persisted earned flag. Earned state is monotonic:
// once recorded, it never reverts even if the stats later regress.
type BadgeState struct {
	Earned   bool
	EarnedAt time.Time
}

// Catalogue returns the fixed badge set in display order.
func Catalogue() []Badge {
	return []Badge{
		{ID: BadgePerfectWeek, Name: "Perfect Week", Description: "Complete all tasks for 7 days straight"},
		{ID: BadgeCenturyClub, Name: "Century Club", Description: "Earn 100 XP in total"},
		{ID: BadgeConsistent, Name: "Consistency King", Description: "Complete tasks 30 days in a row"},
		{ID: BadgeOverachiever, Name: "Overachiever", Description: "Reach 100% completion 10 times"},
		{ID: BadgeMomentum, Name: "Momentum Master", Description: "Maintain 80%+ Life Score for a week"},
		{ID: BadgeLegendary, Name: "Legendary", Description: "Earn 1000 XP in total"},
	}
}

func badgePredicate(id BadgeID, stats BadgeStats) bool {
	switch id {
	case BadgePerfectWeek:
		return stats.Streak >= 7
	case BadgeCenturyClub:
		return stats.TotalXP >= 100
	case BadgeConsistent:
		return stats.Streak >= 30
	case BadgeOverachiever:
		return stats.PerfectDays >= 10
	case BadgeMomentum:
		return stats.HighScoreWeek
	case BadgeLegendary:
		return stats.TotalXP >= 1000
	default:
		return false
	}
}

// EvaluateBadges folds the current stats into the persisted badge state.
// Each predicate is independent; there is no ordering dependency and no
// mutual exclusion. Newly earned badges are stamped with now.
func EvaluateBadges(stats BadgeStats, prior map[BadgeID]BadgeState, now time.Time) map[BadgeID]BadgeState {
	out := make(map[BadgeID]BadgeState, len(Catalogue()))
	for _, b := range Catalogue() {
		state := prior[b.ID]
		if !state.Earned && badgePredicate(b.ID, stats) {
			state = BadgeState{Earned: true, EarnedAt: now}
		}
		out[b.ID] = state
	}
	return out
}
