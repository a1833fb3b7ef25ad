package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/traininglog/internal/streak"
)

type sessionKey struct {
	owner, group, activity string
	sequence               int
}

type fakeSessions struct {
	rows []Session
}

func (f *fakeSessions) Insert(_ context.Context, session Session) error {
	f.rows = append(f.rows, session)
	return nil
}

func (f *fakeSessions) Count(_ context.Context, ownerID, groupID, activity string) (int, error) {
	n := 0
	for _, row := range f.rows {
		if row.OwnerID == ownerID && row.GroupID == groupID && row.Activity == activity {
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) ListByOwner(_ context.Context, ownerID, groupID string) ([]Session, error) {
	var out []Session
	for _, row := range f.rows {
		if row.OwnerID != ownerID {
			continue
		}
		if groupID != "" && row.GroupID != groupID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeSessions) FindBySequence(_ context.Context, ownerID, groupID, activity string, sequence int) (*Session, error) {
	for i, row := range f.rows {
		if row.OwnerID == ownerID && row.GroupID == groupID && row.Activity == activity && row.Sequence == sequence {
			found := f.rows[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) Update(_ context.Context, session Session) error {
	for i, row := range f.rows {
		if row.ID == session.ID {
			f.rows[i] = session
			return nil
		}
	}
	return ErrSessionNotFound
}

type fakeStreaks struct {
	states map[sessionKey]streak.State
}

func newFakeStreaks() *fakeStreaks {
	return &fakeStreaks{states: make(map[sessionKey]streak.State)}
}

func (f *fakeStreaks) Get(_ context.Context, ownerID, activity string) (*streak.State, error) {
	state, ok := f.states[sessionKey{owner: ownerID, activity: activity}]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (f *fakeStreaks) Upsert(_ context.Context, ownerID, activity string, state streak.State) error {
	f.states[sessionKey{owner: ownerID, activity: activity}] = state
	return nil
}

func (f *fakeStreaks) ListByOwner(_ context.Context, ownerID string) ([]StreakEntry, error) {
	var out []StreakEntry
	for key, state := range f.states {
		if key.owner == ownerID {
			out = append(out, StreakEntry{OwnerID: key.owner, Activity: key.activity, State: state})
		}
	}
	return out, nil
}

func (f *fakeStreaks) Leaderboard(_ context.Context, activity, _ string, limit int) ([]StreakEntry, error) {
	var out []StreakEntry
	for key, state := range f.states {
		if activity != "" && key.activity != activity {
			continue
		}
		out = append(out, StreakEntry{OwnerID: key.owner, Activity: key.activity, State: state})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeGoals struct {
	goals map[sessionKey]Goal
}

func newFakeGoals() *fakeGoals {
	return &fakeGoals{goals: make(map[sessionKey]Goal)}
}

func (f *fakeGoals) Upsert(_ context.Context, goal Goal) error {
	f.goals[sessionKey{owner: goal.OwnerID, activity: goal.Activity, group: string(goal.Period)}] = goal
	return nil
}

func (f *fakeGoals) ListByPeriod(_ context.Context, ownerID string, period Period) ([]Goal, error) {
	var out []Goal
	for key, goal := range f.goals {
		if key.owner == ownerID && goal.Period == period {
			out = append(out, goal)
		}
	}
	return out, nil
}

func (f *fakeGoals) Delete(_ context.Context, ownerID, activity string, period Period) (bool, error) {
	key := sessionKey{owner: ownerID, activity: activity, group: string(period)}
	if _, ok := f.goals[key]; !ok {
		return false, nil
	}
	delete(f.goals, key)
	return true, nil
}

func newTestService(now time.Time) (*Service, *fakeSessions, *fakeStreaks, *fakeGoals) {
	sessions := &fakeSessions{}
	streaks := newFakeStreaks()
	goals := newFakeGoals()
	svc := NewService(sessions, streaks, goals)
	svc.now = func() time.Time { return now }
	return svc, sessions, streaks, goals
}

func TestLogSessionAssignsSequencePerActivity(t *testing.T) {
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)
	ctx := context.Background()

	input := LogSessionInput{
		OwnerID:     "owner-1",
		GroupID:     "group-1",
		Activity:    "dryfire",
		Title:       "Morning draws",
		Description: "Par time work",
		Tags:        []string{" draw ", "grip"},
		Duration:    "30 minutes",
	}

	first, length, err := svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 1, first.Sequence)
	require.Equal(t, 1, length)
	require.Equal(t, []string{"draw", "grip"}, first.Tags)
	require.Equal(t, PlatformNotSpecified, first.Platform)
	require.Equal(t, 30, first.Duration.Minutes)

	second, _, err := svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 2, second.Sequence)

	input.Activity = "cardio"
	other, _, err := svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 1, other.Sequence, "sequence is per (owner, group, activity)")
}

func TestLogSessionDefaultsOmittedFields(t *testing.T) {
	svc, _, _, _ := newTestService(time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC))

	session, _, err := svc.LogSession(context.Background(), LogSessionInput{
		OwnerID:     "owner-1",
		GroupID:     "group-1",
		Activity:    "dryfire",
		Title:       "t",
		Description: "d",
	})
	require.NoError(t, err)
	require.Equal(t, PlatformNotSpecified, session.Platform)
	require.Equal(t, DurationNotSpecified, session.Duration.Raw)
	require.False(t, session.Duration.Parsed, "the duration sentinel never parses")
	require.Equal(t, 0, session.Duration.Minutes)
}

func TestLogSessionAdvancesStreakAcrossDays(t *testing.T) {
	day1 := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, streaks, _ := newTestService(day1)
	ctx := context.Background()

	input := LogSessionInput{
		OwnerID:     "owner-1",
		GroupID:     "group-1",
		Activity:    "dryfire",
		Title:       "t",
		Description: "d",
	}

	_, length, err := svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 1, length)

	// Same day again: streak must not inflate.
	_, length, err = svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 1, length)

	svc.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	_, length, err = svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 2, length)

	svc.now = func() time.Time { return day1.AddDate(0, 0, 4) }
	_, length, err = svc.LogSession(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 1, length, "a gap resets the streak")

	state, err := streaks.Get(ctx, "owner-1", "dryfire")
	require.NoError(t, err)
	require.Equal(t, "2026-06-05", state.LastDay)
}

func TestLogSessionValidation(t *testing.T) {
	svc, _, _, _ := newTestService(time.Now())

	_, _, err := svc.LogSession(context.Background(), LogSessionInput{OwnerID: "o", GroupID: "g", Activity: "dryfire"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditSessionPartialUpdate(t *testing.T) {
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)
	ctx := context.Background()

	logged, _, err := svc.LogSession(ctx, LogSessionInput{
		OwnerID:     "owner-1",
		GroupID:     "group-1",
		Activity:    "dryfire",
		Title:       "old title",
		Description: "old description",
		Duration:    "30 minutes",
	})
	require.NoError(t, err)

	newTitle := "new title"
	newDuration := "45 minutes"
	later := now.Add(time.Hour)
	svc.now = func() time.Time { return later }

	updated, err := svc.EditSession(ctx, EditSessionInput{
		OwnerID:  "owner-1",
		GroupID:  "group-1",
		Activity: "dryfire",
		Sequence: 1,
		Title:    &newTitle,
		Duration: &newDuration,
	})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)
	require.Equal(t, "old description", updated.Description)
	require.Equal(t, 45, updated.Duration.Minutes)
	require.Equal(t, logged.OccurredAt, updated.OccurredAt, "occurredAt is immutable")
	require.Equal(t, logged.Sequence, updated.Sequence)
}

func TestEditSessionNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(time.Now())

	_, err := svc.EditSession(context.Background(), EditSessionInput{
		OwnerID:  "owner-1",
		GroupID:  "group-1",
		Activity: "dryfire",
		Sequence: 99,
	})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEditSessionActivityChangeLeavesStreaksAlone(t *testing.T) {
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, streaks, _ := newTestService(now)
	ctx := context.Background()

	_, _, err := svc.LogSession(ctx, LogSessionInput{
		OwnerID: "owner-1", GroupID: "group-1", Activity: "dryfire",
		Title: "t", Description: "d",
	})
	require.NoError(t, err)

	newActivity := "workout"
	_, err = svc.EditSession(ctx, EditSessionInput{
		OwnerID: "owner-1", GroupID: "group-1", Activity: "dryfire", Sequence: 1,
		NewActivity: &newActivity,
	})
	require.NoError(t, err)

	dry, err := streaks.Get(ctx, "owner-1", "dryfire")
	require.NoError(t, err)
	require.NotNil(t, dry, "old activity streak untouched")

	work, err := streaks.Get(ctx, "owner-1", "workout")
	require.NoError(t, err)
	require.Nil(t, work, "no streak created for the new activity")
}

func TestListSessionsFilters(t *testing.T) {
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)
	ctx := context.Background()

	log := func(activity, platform string, tags ...string) {
		_, _, err := svc.LogSession(ctx, LogSessionInput{
			OwnerID: "owner-1", GroupID: "group-1", Activity: activity,
			Title: "t", Description: "d", Platform: platform, Tags: tags,
		})
		require.NoError(t, err)
	}
	log("dryfire", "production", "draw", "grip")
	log("dryfire", "open", "draw")
	log("workout", "", "squat")

	byActivity, err := svc.ListSessions(ctx, ListQuery{OwnerID: "owner-1", GroupID: "group-1", Activity: "dryfire"})
	require.NoError(t, err)
	require.Len(t, byActivity, 2)

	byPlatform, err := svc.ListSessions(ctx, ListQuery{OwnerID: "owner-1", Platform: "open"})
	require.NoError(t, err)
	require.Len(t, byPlatform, 1)

	byTags, err := svc.ListSessions(ctx, ListQuery{OwnerID: "owner-1", Tags: []string{"draw", "grip"}})
	require.NoError(t, err)
	require.Len(t, byTags, 1, "tag filter requires every tag")

	byDate, err := svc.ListSessions(ctx, ListQuery{OwnerID: "owner-1", Date: "2026-06-01"})
	require.NoError(t, err)
	require.Len(t, byDate, 3)

	none, err := svc.ListSessions(ctx, ListQuery{OwnerID: "owner-1", Date: "2026-06-02"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestGoalLifecycle(t *testing.T) {
	svc, _, _, _ := newTestService(time.Now())
	ctx := context.Background()

	goal := Goal{OwnerID: "owner-1", Activity: "dryfire", TargetSessions: 8, Period: PeriodMonth}
	require.NoError(t, svc.SetGoal(ctx, goal))

	// Upsert overwrites the target for the same key.
	goal.TargetSessions = 12
	require.NoError(t, svc.SetGoal(ctx, goal))

	goals, err := svc.GoalsForPeriod(ctx, "owner-1", PeriodMonth)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	require.Equal(t, 12, goals[0].TargetSessions)

	require.NoError(t, svc.DeleteGoal(ctx, "owner-1", "dryfire", PeriodMonth))
	require.ErrorIs(t, svc.DeleteGoal(ctx, "owner-1", "dryfire", PeriodMonth), ErrGoalNotFound)
}

func TestSetGoalValidation(t *testing.T) {
	svc, _, _, _ := newTestService(time.Now())
	ctx := context.Background()

	err := svc.SetGoal(ctx, Goal{OwnerID: "o", Activity: "dryfire", TargetSessions: 0, Period: PeriodWeek})
	require.ErrorIs(t, err, ErrInvalidInput)

	err = svc.SetGoal(ctx, Goal{OwnerID: "o", Activity: "dryfire", TargetSessions: 5, Period: PeriodAll})
	require.ErrorIs(t, err, ErrInvalidInput, "all is a reporting range, not a goal period")
}

func TestSuggest(t *testing.T) {
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)
	ctx := context.Background()

	for _, activity := range []string{"dryfire", "dryfire", "workout"} {
		_, _, err := svc.LogSession(ctx, LogSessionInput{
			OwnerID: "owner-1", GroupID: "group-1", Activity: activity,
			Title: "t", Description: "d", Platform: "production",
			Tags: []string{"draw", "Grip"},
		})
		require.NoError(t, err)
	}

	activities, err := svc.Suggest(ctx, "owner-1", "group-1", SuggestActivity, "")
	require.NoError(t, err)
	require.Equal(t, []string{"dryfire", "workout"}, activities, "deduplicated, first-seen order")

	matched, err := svc.Suggest(ctx, "owner-1", "group-1", SuggestActivity, "WORK")
	require.NoError(t, err)
	require.Equal(t, []string{"workout"}, matched, "case-insensitive substring")

	tags, err := svc.Suggest(ctx, "owner-1", "group-1", SuggestTags, "")
	require.NoError(t, err)
	require.Equal(t, []string{"draw", "Grip"}, tags)

	_, err = svc.Suggest(ctx, "owner-1", "group-1", "bogus", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
