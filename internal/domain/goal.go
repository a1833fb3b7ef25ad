package domain

// Goal is a per-period session target for one activity. Goals are keyed on
// (owner, activity, period) and upserted idempotently.
type Goal struct {
	OwnerID        string
	Activity       string
	TargetSessions int
	Period         Period
}
