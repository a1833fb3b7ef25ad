package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/traininglog/internal/domain"
	"example.com/traininglog/internal/streak"
)

func TestComposeSummaryGoalWithoutDataStillListed(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		timedSession("workout", "30 minutes", now.Add(-time.Hour)),
	}
	goals := []domain.Goal{
		{OwnerID: "owner-1", Activity: "dryfire", TargetSessions: 8, Period: domain.PeriodMonth},
	}

	summary := ComposeSummary(sessions, goals, nil, domain.PeriodMonth, now)

	require.Len(t, summary.Goals, 1)
	goal := summary.Goals[0]
	require.Equal(t, "dryfire", goal.Activity)
	require.Equal(t, 0, goal.Progress.Current, "goal with no sessions in range shows 0/target")
	require.Equal(t, 8, goal.Progress.Target)
	require.True(t, goal.Progress.Applicable)

	require.ElementsMatch(t, []string{"workout", "dryfire"}, summary.Activities)
}

func TestComposeSummaryActivityWithoutGoalOnlyInStats(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		timedSession("cardio", "45 minutes", now.Add(-time.Hour), "tempo"),
		timedSession("cardio", "30 minutes", now.Add(-2*time.Hour)),
	}

	summary := ComposeSummary(sessions, nil, nil, domain.PeriodWeek, now)

	require.Empty(t, summary.Goals)
	require.Equal(t, 2, summary.Stats.Sessions)
	require.Equal(t, 75, summary.Stats.TotalMinutes)
	require.Equal(t, []string{"cardio"}, summary.Activities)
}

func TestComposeSummaryGoalCountsScopedToActivity(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		timedSession("dryfire", "10 minutes", now.Add(-time.Hour)),
		timedSession("dryfire", "10 minutes", now.Add(-2*time.Hour)),
		timedSession("workout", "60 minutes", now.Add(-3*time.Hour)),
		// Outside the week window, must not count toward the goal.
		timedSession("dryfire", "10 minutes", now.Add(-10*24*time.Hour)),
	}
	goals := []domain.Goal{
		{OwnerID: "owner-1", Activity: "dryfire", TargetSessions: 4, Period: domain.PeriodWeek},
	}

	summary := ComposeSummary(sessions, goals, nil, domain.PeriodWeek, now)

	require.Len(t, summary.Goals, 1)
	require.Equal(t, 2, summary.Goals[0].Progress.Current)
	require.Equal(t, 50, summary.Goals[0].Progress.Percent)
	// Stats run over the whole ranged set, not just the goal activity.
	require.Equal(t, 3, summary.Stats.Sessions)
}

func TestComposeSummaryStreaksIgnorePeriod(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	streaks := []domain.StreakEntry{
		{OwnerID: "owner-1", Activity: "dryfire", State: streak.State{Length: 12, LastDay: "2026-05-31"}},
		{OwnerID: "owner-1", Activity: "cardio", State: streak.State{Length: 1, LastDay: "2026-01-02"}},
	}

	// No sessions, no goals: streaks still come through untouched.
	summary := ComposeSummary(nil, nil, streaks, domain.PeriodWeek, now)

	require.Len(t, summary.Streaks, 2)
	require.Equal(t, StreakLine{Activity: "dryfire", Length: 12, LastDay: "2026-05-31"}, summary.Streaks[0])
	require.Equal(t, StreakLine{Activity: "cardio", Length: 1, LastDay: "2026-01-02"}, summary.Streaks[1])
	require.True(t, summary.Stats.Empty())
}
