// Package domain defines the business logic for the training log service.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/traininglog/internal/streak"
)

var (
	// ErrSessionNotFound is returned when a session cannot be located by
	// its (owner, group, activity, sequence) key.
	ErrSessionNotFound = errors.New("session not found")
	// ErrGoalNotFound is returned when a goal delete matches nothing.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrSameActivity rejects a comparison of an activity against itself.
	ErrSameActivity = errors.New("comparison requires two different activities")
	// ErrInvalidInput wraps caller-supplied values that fail validation.
	ErrInvalidInput = errors.New("invalid input")
)

// SessionRepository captures session persistence operations. An empty
// groupID means "all groups" wherever one is accepted.
type SessionRepository interface {
	Insert(ctx context.Context, session Session) error
	Count(ctx context.Context, ownerID, groupID, activity string) (int, error)
	ListByOwner(ctx context.Context, ownerID, groupID string) ([]Session, error)
	FindBySequence(ctx context.Context, ownerID, groupID, activity string, sequence int) (*Session, error)
	Update(ctx context.Context, session Session) error
}

// StreakRepository captures streak persistence operations.
type StreakRepository interface {
	Get(ctx context.Context, ownerID, activity string) (*streak.State, error)
	Upsert(ctx context.Context, ownerID, activity string, state streak.State) error
	ListByOwner(ctx context.Context, ownerID string) ([]StreakEntry, error)
	Leaderboard(ctx context.Context, activity, groupID string, limit int) ([]StreakEntry, error)
}

// GoalRepository captures goal persistence operations.
type GoalRepository interface {
	Upsert(ctx context.Context, goal Goal) error
	ListByPeriod(ctx context.Context, ownerID string, period Period) ([]Goal, error)
	Delete(ctx context.Context, ownerID, activity string, period Period) (bool, error)
}

// StreakEntry pairs a streak state with its owning key, for account-wide
// listings and the leaderboard.
type StreakEntry struct {
	OwnerID  string
	Activity string
	State    streak.State
}

// Service orchestrates training-log workflows over the repositories.
type Service struct {
	sessions SessionRepository
	streaks  StreakRepository
	goals    GoalRepository
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(sessions SessionRepository, streaks StreakRepository, goals GoalRepository) *Service {
	return &Service{
		sessions: sessions,
		streaks:  streaks,
		goals:    goals,
		now:      time.Now,
	}
}

// Now returns the service clock, injected into the pure report functions so
// range cutoffs stay testable.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// LogSessionInput captures the payload for logging a new session.
type LogSessionInput struct {
	OwnerID     string
	GroupID     string
	Activity    string
	Title       string
	Description string
	Tags        []string
	Platform    string
	Duration    string
}

func (in LogSessionInput) validate() error {
	if strings.TrimSpace(in.OwnerID) == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.GroupID) == "" {
		return fmt.Errorf("%w: group is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Activity) == "" {
		return fmt.Errorf("%w: activity is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	return nil
}

// LogSession persists a new session, assigns its sequence number, advances
// the owner's streak for the activity, and returns the session together
// with the post-transition streak length.
func (s *Service) LogSession(ctx context.Context, input LogSessionInput) (*Session, int, error) {
	if err := input.validate(); err != nil {
		return nil, 0, err
	}

	count, err := s.sessions.Count(ctx, input.OwnerID, input.GroupID, input.Activity)
	if err != nil {
		return nil, 0, err
	}

	platform := strings.TrimSpace(input.Platform)
	if platform == "" {
		platform = PlatformNotSpecified
	}
	durationLabel := strings.TrimSpace(input.Duration)
	if durationLabel == "" {
		durationLabel = DurationNotSpecified
	}

	now := s.Now()
	session := Session{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		GroupID:     input.GroupID,
		Activity:    input.Activity,
		Sequence:    count + 1,
		Title:       input.Title,
		Description: input.Description,
		Tags:        NormalizeTags(input.Tags),
		Platform:    platform,
		Duration:    ParseDuration(durationLabel),
		OccurredAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, 0, err
	}

	length, err := s.advanceStreak(ctx, session.OwnerID, session.Activity, session.OccurredAt)
	if err != nil {
		return nil, 0, err
	}

	return &session, length, nil
}

func (s *Service) advanceStreak(ctx context.Context, ownerID, activity string, occurredAt time.Time) (int, error) {
	prev, err := s.streaks.Get(ctx, ownerID, activity)
	if err != nil {
		return 0, err
	}
	next := streak.Advance(prev, streak.DayOf(occurredAt))
	if err := s.streaks.Upsert(ctx, ownerID, activity, next); err != nil {
		return 0, err
	}
	return next.Length, nil
}

// EditSessionInput carries a partial update for an existing session. Nil
// fields keep their stored value; the key fields locate the session.
type EditSessionInput struct {
	OwnerID  string
	GroupID  string
	Activity string
	Sequence int

	NewActivity *string
	Title       *string
	Description *string
	Tags        *[]string
	Platform    *string
	Duration    *string
}

// EditSession applies a partial update in place. OccurredAt is immutable,
// the sequence number is never reassigned, and streaks are not
// retroactively adjusted even when the activity kind changes.
func (s *Service) EditSession(ctx context.Context, input EditSessionInput) (*Session, error) {
	session, err := s.sessions.FindBySequence(ctx, input.OwnerID, input.GroupID, input.Activity, input.Sequence)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if input.NewActivity != nil && strings.TrimSpace(*input.NewActivity) != "" {
		session.Activity = *input.NewActivity
	}
	if input.Title != nil {
		session.Title = *input.Title
	}
	if input.Description != nil {
		session.Description = *input.Description
	}
	if input.Tags != nil {
		session.Tags = NormalizeTags(*input.Tags)
	}
	if input.Platform != nil && strings.TrimSpace(*input.Platform) != "" {
		session.Platform = *input.Platform
	}
	if input.Duration != nil && strings.TrimSpace(*input.Duration) != "" {
		session.Duration = ParseDuration(*input.Duration)
	}
	session.UpdatedAt = s.Now()

	if err := s.sessions.Update(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListQuery filters a session listing. Zero values mean "no filter"; Tags
// requires every listed tag to be present on matching sessions.
type ListQuery struct {
	OwnerID  string
	GroupID  string
	Date     string
	Activity string
	Platform string
	Tags     []string
	Limit    int
}

// ListSessions returns the owner's sessions, newest first, after applying
// the query filters in memory.
func (s *Service) ListSessions(ctx context.Context, query ListQuery) ([]Session, error) {
	rows, err := s.sessions.ListByOwner(ctx, query.OwnerID, query.GroupID)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]Session, 0, len(rows))
	for _, row := range rows {
		if query.Activity != "" && row.Activity != query.Activity {
			continue
		}
		if query.Platform != "" && row.Platform != query.Platform {
			continue
		}
		if query.Date != "" && streak.DayOf(row.OccurredAt) != query.Date {
			continue
		}
		if len(query.Tags) > 0 && !row.HasAllTags(query.Tags) {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// SessionsForOwner returns every session for the owner in the given group
// scope, newest first, for the report functions to aggregate.
func (s *Service) SessionsForOwner(ctx context.Context, ownerID, groupID string) ([]Session, error) {
	return s.sessions.ListByOwner(ctx, ownerID, groupID)
}

// SetGoal validates and upserts a goal.
func (s *Service) SetGoal(ctx context.Context, goal Goal) error {
	if strings.TrimSpace(goal.Activity) == "" {
		return fmt.Errorf("%w: activity is required", ErrInvalidInput)
	}
	if goal.TargetSessions <= 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalidInput)
	}
	if !goal.Period.ValidGoalPeriod() {
		return fmt.Errorf("%w: unknown goal period %q", ErrInvalidInput, goal.Period)
	}
	return s.goals.Upsert(ctx, goal)
}

// GoalsForPeriod lists the owner's goals keyed on the exact period.
func (s *Service) GoalsForPeriod(ctx context.Context, ownerID string, period Period) ([]Goal, error) {
	return s.goals.ListByPeriod(ctx, ownerID, period)
}

// DeleteGoal removes a goal, reporting ErrGoalNotFound when absent.
func (s *Service) DeleteGoal(ctx context.Context, ownerID, activity string, period Period) error {
	deleted, err := s.goals.Delete(ctx, ownerID, activity, period)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGoalNotFound
	}
	return nil
}

// StreaksForOwner lists every streak the owner has ever tracked. Streaks
// are account-wide: they ignore group scope and reporting periods.
func (s *Service) StreaksForOwner(ctx context.Context, ownerID string) ([]StreakEntry, error) {
	return s.streaks.ListByOwner(ctx, ownerID)
}

// Leaderboard returns the longest current streaks, optionally restricted to
// one activity and to owners active in the given group.
func (s *Service) Leaderboard(ctx context.Context, activity, groupID string, limit int) ([]StreakEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.streaks.Leaderboard(ctx, activity, groupID, limit)
}

// Suggest fields understood by autocomplete.
const (
	SuggestActivity = "activity"
	SuggestTags     = "tags"
	SuggestPlatform = "platform"
)

// Suggest returns distinct values of the requested field across the owner's
// sessions in the group, filtered by a case-insensitive substring match and
// capped at 25 entries. First-seen order is preserved.
func (s *Service) Suggest(ctx context.Context, ownerID, groupID, field, query string) ([]string, error) {
	rows, err := s.sessions.ListByOwner(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	var values []string
	switch field {
	case SuggestActivity:
		for _, row := range rows {
			values = append(values, row.Activity)
		}
	case SuggestTags:
		for _, row := range rows {
			values = append(values, row.Tags...)
		}
	case SuggestPlatform:
		for _, row := range rows {
			values = append(values, row.Platform)
		}
	default:
		return nil, fmt.Errorf("%w: unknown suggest field %q", ErrInvalidInput, field)
	}

	needle := strings.ToLower(query)
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, 25)
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		if needle != "" && !strings.Contains(strings.ToLower(value), needle) {
			continue
		}
		out = append(out, value)
		if len(out) == 25 {
			break
		}
	}
	return out, nil
}
