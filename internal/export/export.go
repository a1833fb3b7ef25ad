// Package export serializes session logs at the transport boundary. JSON is
// a structural dump of the matched records; CSV wraps free-text fields in
// quotes and doubles any embedded quote characters.
package export

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"example.com/traininglog/internal/domain"
)

type sessionRecord struct {
	Activity    string    `json:"activity"`
	Sequence    int       `json:"session_number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Platform    string    `json:"platform"`
	Duration    string    `json:"duration"`
	OccurredAt  time.Time `json:"occurred_at"`
	GroupID     string    `json:"group_id"`
}

// JSON renders the sessions as an indented JSON array.
func JSON(sessions []domain.Session) ([]byte, error) {
	records := make([]sessionRecord, 0, len(sessions))
	for _, session := range sessions {
		records = append(records, sessionRecord{
			Activity:    session.Activity,
			Sequence:    session.Sequence,
			Title:       session.Title,
			Description: session.Description,
			Tags:        session.Tags,
			Platform:    session.Platform,
			Duration:    session.Duration.Raw,
			OccurredAt:  session.OccurredAt,
			GroupID:     session.GroupID,
		})
	}
	return json.MarshalIndent(records, "", "  ")
}

var csvHeader = strings.Join([]string{
	"activity",
	"session_number",
	"title",
	"description",
	"tags",
	"platform",
	"duration",
	"occurred_at",
	"group_id",
}, ",")

// CSV renders the sessions as comma-separated rows under a fixed header.
func CSV(sessions []domain.Session) []byte {
	var b strings.Builder
	b.WriteString(csvHeader)
	for _, session := range sessions {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			session.Activity,
			strconv.Itoa(session.Sequence),
			quote(session.Title),
			quote(session.Description),
			quote(strings.Join(session.Tags, ",")),
			session.Platform,
			session.Duration.Raw,
			session.OccurredAt.UTC().Format(time.RFC3339),
			session.GroupID,
		}, ","))
	}
	return []byte(b.String())
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
