package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympiadforge/forge/internal/library"
)

func TestParseTopic(t *testing.T) {
	tests := map[string]library.Topic{
		"geometry":      library.TopicGeometry,
		"Number Theory": library.TopicNumberTheory,
		"number-theory": library.TopicNumberTheory,
		"nt":            library.TopicNumberTheory,
		"C":             library.TopicCombinatorics,
		" algebra ":     library.TopicAlgebra,
	}
	for in, want := range tests {
		got, err := parseTopic(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseTopic("calculus")
	assert.Error(t, err)
}

func TestParseDifficulty(t *testing.T) {
	tests := map[string]library.Difficulty{
		"easy":         library.DifficultyEasy,
		"IMO SL C1/G1": library.DifficultyEasy,
		"medium":       library.DifficultyMedium,
		"3":            library.DifficultyHard,
		"imo q3/q6":    library.DifficultyHard,
	}
	for in, want := range tests {
		got, err := parseDifficulty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseDifficulty("impossible")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	tests := map[string]library.Status{
		"draft":           library.StatusDraft,
		"Refining":        library.StatusRefining,
		"verified":        library.StatusVerified,
		"shortlist":       library.StatusShortlist,
		"shortlist-ready": library.StatusShortlist,
	}
	for in, want := range tests {
		got, err := parseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseStatus("done")
	assert.Error(t, err)
}
