package report

import (
	"sort"

	"example.com/traininglog/internal/domain"
)

// Default top-N cuts used by stats and summary views.
const (
	TopTags      = 5
	TopPlatforms = 3
)

// Ranked is one (value, count) pair in a frequency ranking.
type Ranked struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CountTags ranks every tag across the sessions by frequency, descending.
// Ties keep first-seen order: the ranking is built in input order and sorted
// stably, so top-N selection is deterministic.
func CountTags(sessions []domain.Session) []Ranked {
	var ranking []Ranked
	index := make(map[string]int)
	for _, session := range sessions {
		for _, tag := range session.Tags {
			if tag == "" {
				continue
			}
			if i, ok := index[tag]; ok {
				ranking[i].Count++
				continue
			}
			index[tag] = len(ranking)
			ranking = append(ranking, Ranked{Key: tag, Count: 1})
		}
	}
	sortRanking(ranking)
	return ranking
}

// CountPlatforms ranks platform values by frequency, descending, with the
// same first-seen tie-break as CountTags. Empty platforms are skipped; the
// literal "Not specified" sentinel is stored on sessions and counts like
// any other value.
func CountPlatforms(sessions []domain.Session) []Ranked {
	var ranking []Ranked
	index := make(map[string]int)
	for _, session := range sessions {
		if session.Platform == "" {
			continue
		}
		if i, ok := index[session.Platform]; ok {
			ranking[i].Count++
			continue
		}
		index[session.Platform] = len(ranking)
		ranking = append(ranking, Ranked{Key: session.Platform, Count: 1})
	}
	sortRanking(ranking)
	return ranking
}

func sortRanking(ranking []Ranked) {
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
}

// TopN returns the first n entries of a ranking, or the whole ranking when
// it is shorter.
func TopN(ranking []Ranked, n int) []Ranked {
	if len(ranking) <= n {
		return ranking
	}
	return ranking[:n]
}
