package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/traininglog/internal/domain"
)

func timedSession(activity, duration string, occurredAt time.Time, tags ...string) domain.Session {
	return domain.Session{
		Activity:   activity,
		Tags:       tags,
		Platform:   "production",
		Duration:   domain.ParseDuration(duration),
		OccurredAt: occurredAt,
	}
}

func TestSummarizeDurations(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		timedSession("dryfire", "30 minutes", now.Add(-time.Hour)),
		timedSession("dryfire", "unspecified", now.Add(-2*time.Hour)),
		timedSession("dryfire", "45 min", now.Add(-3*time.Hour)),
		timedSession("dryfire", "", now.Add(-4*time.Hour)),
	}

	snap := Summarize(sessions, domain.PeriodAll, now)
	require.Equal(t, 4, snap.Sessions)
	require.Equal(t, 75, snap.TotalMinutes, "unparsable labels contribute zero")
}

func TestSummarizeAppliesRange(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		timedSession("dryfire", "30 minutes", now.Add(-time.Hour), "draw"),
		timedSession("dryfire", "60 minutes", now.Add(-60*24*time.Hour), "grip"),
	}

	snap := Summarize(sessions, domain.PeriodWeek, now)
	require.Equal(t, 1, snap.Sessions)
	require.Equal(t, 30, snap.TotalMinutes)
	require.Equal(t, []Ranked{{Key: "draw", Count: 1}}, snap.Tags)
}

func TestSummarizeEmptyIsValid(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	snap := Summarize(nil, domain.PeriodMonth, now)
	require.True(t, snap.Empty())
	require.Zero(t, snap.TotalMinutes)
	require.Empty(t, snap.Tags)
	require.Empty(t, snap.Platforms)
}

func TestCompareDeltas(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	dryfire := []domain.Session{
		timedSession("dryfire", "30 minutes", now.Add(-time.Hour)),
		timedSession("dryfire", "20 minutes", now.Add(-2*time.Hour)),
	}
	cardio := []domain.Session{
		timedSession("cardio", "60 minutes", now.Add(-time.Hour)),
	}

	cmp := Compare("dryfire", "cardio", dryfire, cardio, domain.PeriodAll, now)
	require.Equal(t, 1, cmp.SessionDelta)
	require.Equal(t, -10, cmp.MinutesDelta)
	require.False(t, cmp.NoData)
}

func TestCompareNoDataForEither(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	stale := []domain.Session{
		timedSession("dryfire", "30 minutes", now.Add(-400*24*time.Hour)),
	}

	cmp := Compare("dryfire", "cardio", stale, nil, domain.PeriodWeek, now)
	require.True(t, cmp.NoData, "both sides empty after filtering is a distinct outcome")
	require.Zero(t, cmp.SessionDelta)
}
