package report

import (
	"time"

	"example.com/traininglog/internal/domain"
)

// GoalStatus is one goal line in a summary: the goal definition plus the
// progress computed from sessions of that activity inside the range.
type GoalStatus struct {
	Activity string        `json:"activity"`
	Target   int           `json:"target"`
	Period   domain.Period `json:"period"`
	Progress Progress      `json:"progress"`
}

// StreakLine is one account-wide streak in a summary.
type StreakLine struct {
	Activity string `json:"activity"`
	Length   int    `json:"length"`
	LastDay  string `json:"last_day"`
}

// Summary is the combined report for one owner and period. The three
// sections are scoped differently on purpose: goals and stats cover the
// range-filtered sessions, while streaks are account-wide and ignore both
// the period and any group scoping applied upstream.
type Summary struct {
	Period     domain.Period `json:"period"`
	Activities []string      `json:"activities,omitempty"`
	Goals      []GoalStatus  `json:"goals,omitempty"`
	Stats      Snapshot      `json:"stats"`
	Streaks    []StreakLine  `json:"streaks,omitempty"`
}

// ComposeSummary builds the combined report. Goals are assumed to already
// be keyed on the exact period. An activity with a goal but no sessions in
// range still gets a goal line at zero progress; an activity with sessions
// but no goal appears in the stats and activity list only.
func ComposeSummary(sessions []domain.Session, goals []domain.Goal, streaks []domain.StreakEntry, period domain.Period, now time.Time) Summary {
	ranged := FilterRange(sessions, period, now)

	perActivity := make(map[string]int)
	var activities []string
	for _, session := range ranged {
		if _, seen := perActivity[session.Activity]; !seen {
			activities = append(activities, session.Activity)
		}
		perActivity[session.Activity]++
	}
	for _, goal := range goals {
		if _, seen := perActivity[goal.Activity]; !seen {
			perActivity[goal.Activity] = 0
			activities = append(activities, goal.Activity)
		}
	}

	goalLines := make([]GoalStatus, 0, len(goals))
	for _, goal := range goals {
		goalLines = append(goalLines, GoalStatus{
			Activity: goal.Activity,
			Target:   goal.TargetSessions,
			Period:   period,
			Progress: ComputeProgress(perActivity[goal.Activity], goal.TargetSessions),
		})
	}

	streakLines := make([]StreakLine, 0, len(streaks))
	for _, entry := range streaks {
		streakLines = append(streakLines, StreakLine{
			Activity: entry.Activity,
			Length:   entry.State.Length,
			LastDay:  entry.State.LastDay,
		})
	}

	return Summary{
		Period:     period,
		Activities: activities,
		Goals:      goalLines,
		// Stats run over the whole ranged set, not just activities with
		// goals. The set is already filtered, so pass it through unchanged.
		Stats:   Summarize(ranged, domain.PeriodAll, now),
		Streaks: streakLines,
	}
}
