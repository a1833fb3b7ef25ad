package domain

import (
	"strings"
	"time"
)

// Suggested activity kinds. The column is an open string enum: anything a
// caller logs is accepted, these are only the values surfaced by suggest.
const (
	ActivityDryfire = "dryfire"
	ActivityWorkout = "workout"
	ActivityCardio  = "cardio"
)

// Sentinels stored literally when a session omits a field. The platform
// sentinel is counted as a platform value by the aggregator; the duration
// sentinel carries no digits, so it never parses and contributes zero
// minutes.
const (
	PlatformNotSpecified = "Not specified"
	DurationNotSpecified = "Not specified"
)

// MaxTags bounds the tag list on a session.
const MaxTags = 5

// SuggestedPlatforms is the platform enumeration offered by autocomplete.
// Not enforced on write; free text is allowed.
var SuggestedPlatforms = []string{
	"production",
	"revolver",
	"single stack",
	"limited",
	"limited 10",
	"limited optics",
	"carry optics",
	"open",
	"rifle",
	"shotgun",
	".22",
}

// Session is one logged training record. Sequence is 1-based and unique per
// (owner, group, activity) at creation time; OccurredAt is immutable after
// creation, edits only touch the descriptive fields.
type Session struct {
	ID          string
	OwnerID     string
	GroupID     string
	Activity    string
	Sequence    int
	Title       string
	Description string
	Tags        []string
	Platform    string
	Duration    Duration
	OccurredAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Duration is the session length as entered by the user. The numeric value
// is extracted once at the write boundary; unparsable labels keep Parsed
// false and contribute zero to duration totals.
type Duration struct {
	Raw     string
	Minutes int
	Parsed  bool
}

// ParseDuration extracts the first run of digits from a free-text duration
// label ("30 minutes" -> 30). Labels without digits parse to zero minutes.
func ParseDuration(raw string) Duration {
	d := Duration{Raw: raw}
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return d
	}
	n := 0
	for _, r := range raw[start:] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	d.Minutes = n
	d.Parsed = true
	return d
}

// ParseTags splits a comma-separated tag string, trims surrounding
// whitespace, drops blank entries, and caps the list at MaxTags. Duplicates
// are kept and tags are case-sensitive.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// NormalizeTags applies the same trimming and cap to an already-split list.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// HasAllTags reports whether the session carries every requested tag.
func (s Session) HasAllTags(wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, tag := range s.Tags {
			if tag == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
