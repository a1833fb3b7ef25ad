package report

import (
	"time"

	"example.com/traininglog/internal/domain"
)

// Snapshot is the statistics view of a set of sessions after range
// filtering: session count, summed parsed minutes, and full tag/platform
// rankings. A zero-session snapshot is a valid "no data" result.
type Snapshot struct {
	Sessions     int      `json:"sessions"`
	TotalMinutes int      `json:"total_minutes"`
	Tags         []Ranked `json:"tags,omitempty"`
	Platforms    []Ranked `json:"platforms,omitempty"`
}

// Empty reports whether the snapshot covers no sessions.
func (s Snapshot) Empty() bool {
	return s.Sessions == 0
}

// Summarize range-filters the sessions and computes their snapshot.
// Sessions whose duration label never parsed contribute zero minutes.
func Summarize(sessions []domain.Session, period domain.Period, now time.Time) Snapshot {
	ranged := FilterRange(sessions, period, now)

	total := 0
	for _, session := range ranged {
		if session.Duration.Parsed {
			total += session.Duration.Minutes
		}
	}

	return Snapshot{
		Sessions:     len(ranged),
		TotalMinutes: total,
		Tags:         CountTags(ranged),
		Platforms:    CountPlatforms(ranged),
	}
}

// Comparison holds two activity snapshots and their deltas (A minus B).
// NoData is set when neither side has sessions, which callers must report
// distinctly instead of presenting a zero-delta comparison.
type Comparison struct {
	ActivityA    string   `json:"activity_a"`
	ActivityB    string   `json:"activity_b"`
	A            Snapshot `json:"a"`
	B            Snapshot `json:"b"`
	SessionDelta int      `json:"session_delta"`
	MinutesDelta int      `json:"minutes_delta"`
	NoData       bool     `json:"no_data"`
}

// Compare summarizes two session sets over the same period and computes
// their deltas. Rejecting identical activity selectors is the caller's job
// (domain.ErrSameActivity); by this point the two sets are independent.
func Compare(activityA, activityB string, sessionsA, sessionsB []domain.Session, period domain.Period, now time.Time) Comparison {
	a := Summarize(sessionsA, period, now)
	b := Summarize(sessionsB, period, now)

	return Comparison{
		ActivityA:    activityA,
		ActivityB:    activityB,
		A:            a,
		B:            b,
		SessionDelta: a.Sessions - b.Sessions,
		MinutesDelta: a.TotalMinutes - b.TotalMinutes,
		NoData:       a.Empty() && b.Empty(),
	}
}
