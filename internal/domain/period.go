package domain

import "time"

// Period is a reporting time window. Stats and comparisons additionally
// accept PeriodAll; goals are keyed on the four bounded periods only.
type Period string

const (
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodHalfYear Period = "6months"
	PeriodYear     Period = "year"
	PeriodAll      Period = "all"
)

// Window returns the fixed-day lookback for a bounded period. The second
// return is false for PeriodAll, the empty period, and unknown values, all
// of which mean "no cutoff". Windows are day-count approximations, not
// calendar-aware.
func (p Period) Window() (time.Duration, bool) {
	switch p {
	case PeriodWeek:
		return 7 * 24 * time.Hour, true
	case PeriodMonth:
		return 30 * 24 * time.Hour, true
	case PeriodHalfYear:
		return 182 * 24 * time.Hour, true
	case PeriodYear:
		return 365 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// ValidRange reports whether p is usable as a stats/report range.
func (p Period) ValidRange() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodHalfYear, PeriodYear, PeriodAll, "":
		return true
	default:
		return false
	}
}

// ValidGoalPeriod reports whether p can key a goal. "all" is a reporting
// range, not a goal period.
func (p Period) ValidGoalPeriod() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodHalfYear, PeriodYear:
		return true
	default:
		return false
	}
}
