package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		raw     string
		minutes int
		parsed  bool
	}{
		{"30 minutes", 30, true},
		{"45min", 45, true},
		{"about 20", 20, true},
		{"1h30", 1, true}, // first digit run wins
		{"unspecified", 0, false},
		{"", 0, false},
		{PlatformNotSpecified, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := ParseDuration(tc.raw)
			require.Equal(t, tc.minutes, got.Minutes)
			require.Equal(t, tc.parsed, got.Parsed)
			require.Equal(t, tc.raw, got.Raw)
		})
	}
}

func TestParseTags(t *testing.T) {
	require.Nil(t, ParseTags(""))
	require.Equal(t, []string{"draw", "grip"}, ParseTags(" draw , grip "))
	require.Equal(t, []string{"a", "b"}, ParseTags("a,,b, "))
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, ParseTags("1,2,3,4,5,6,7"), "capped at five")
	require.Equal(t, []string{"Draw", "draw"}, ParseTags("Draw,draw"), "case-sensitive, duplicates kept")
}

func TestHasAllTags(t *testing.T) {
	s := Session{Tags: []string{"draw", "grip", "reload"}}

	require.True(t, s.HasAllTags(nil))
	require.True(t, s.HasAllTags([]string{"grip"}))
	require.True(t, s.HasAllTags([]string{"draw", "reload"}))
	require.False(t, s.HasAllTags([]string{"draw", "transitions"}))
}
