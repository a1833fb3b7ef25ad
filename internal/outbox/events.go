package outbox

import "time"

// Event types recorded in the outbox table.
const (
	EventSessionLogged = "session.logged"
	EventGoalUpdated   = "goal.updated"
)

var topics = map[string]string{
	EventSessionLogged: "training_sessions",
	EventGoalUpdated:   "training_goals",
}

// TopicFor maps an event type to its Kafka topic.
func TopicFor(eventType string) (string, bool) {
	topic, ok := topics[eventType]
	return topic, ok
}

// SessionLogged is published whenever a new session is persisted.
type SessionLogged struct {
	SessionID  string    `json:"session_id"`
	OwnerID    string    `json:"owner_id"`
	GroupID    string    `json:"group_id"`
	Activity   string    `json:"activity"`
	Sequence   int       `json:"sequence"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GoalUpdated is published whenever a goal is created or overwritten.
type GoalUpdated struct {
	OwnerID        string `json:"owner_id"`
	Activity       string `json:"activity"`
	TargetSessions int    `json:"target_sessions"`
	Period         string `json:"period"`
}
