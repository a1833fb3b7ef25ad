// Package streak tracks consecutive-day training streaks as an explicit
// state machine with a pure transition function, kept separate from storage
// so it can be tested without a database.
package streak

import "time"

// DayFormat is the civil-date encoding used for streak bookkeeping.
const DayFormat = "2006-01-02"

// State is the persisted streak for one (owner, activity) pair. Length is at
// least 1 once any session exists; LastDay is the UTC calendar day of the
// most recent session that touched the streak.
type State struct {
	Length  int
	LastDay string
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Advance applies one session on the given day to the previous state and
// returns the next state. A nil previous state starts a streak of 1. A
// second session on the same day leaves the streak unchanged. A gap of
// exactly one day extends the streak; any larger gap resets it to 1.
// Sessions dated before LastDay also reset to 1: out-of-order events are
// indistinguishable from a broken streak here.
func Advance(prev *State, day string) State {
	if prev == nil {
		return State{Length: 1, LastDay: day}
	}

	switch gap := daysBetween(prev.LastDay, day); {
	case gap == 0:
		// LastDay is rewritten with the same value on the same-day path so
		// the store write stays unconditional.
		return State{Length: prev.Length, LastDay: day}
	case gap == 1:
		return State{Length: prev.Length + 1, LastDay: day}
	default:
		return State{Length: 1, LastDay: day}
	}
}

func daysBetween(from, to string) int {
	a, errA := time.Parse(DayFormat, from)
	b, errB := time.Parse(DayFormat, to)
	if errA != nil || errB != nil {
		// An unreadable stored day is treated as a broken streak.
		return -1
	}
	return int(b.Sub(a) / (24 * time.Hour))
}
