// Package report implements the pure aggregation core: range filtering,
// tag/platform ranking, goal progress, stats snapshots, comparisons, and the
// combined summary. Functions here never touch storage; callers fetch
// sessions, goals, and streaks first and pass them in, which keeps every
// report independently testable against in-memory data.
package report

import (
	"time"

	"example.com/traininglog/internal/domain"
)

// FilterRange returns the sessions that occurred inside the period's
// lookback window ending at now. PeriodAll (or an empty period) returns the
// input unchanged. Input order is preserved and the input slice is never
// mutated.
func FilterRange(sessions []domain.Session, period domain.Period, now time.Time) []domain.Session {
	window, bounded := period.Window()
	if !bounded {
		return sessions
	}
	cutoff := now.Add(-window)

	out := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if !session.OccurredAt.Before(cutoff) {
			out = append(out, session)
		}
	}
	return out
}
