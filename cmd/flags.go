package cmd

import (
	"fmt"
	"strings"

	"github.com/olympiadforge/forge/internal/library"
)

// squash lowercases s and drops spaces, dashes and underscores so flag
// values like "number-theory" match "Number Theory".
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '/':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

var topicAliases = map[string]library.Topic{
	"a":  library.TopicAlgebra,
	"c":  library.TopicCombinatorics,
	"g":  library.TopicGeometry,
	"n":  library.TopicNumberTheory,
	"nt": library.TopicNumberTheory,
}

func parseTopic(s string) (library.Topic, error) {
	key := squash(s)
	if t, ok := topicAliases[key]; ok {
		return t, nil
	}
	for _, t := range library.Topics {
		if squash(string(t)) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q (want algebra, combinatorics, geometry or number-theory)", s)
}

var difficultyAliases = map[string]library.Difficulty{
	"easy":   library.DifficultyEasy,
	"1":      library.DifficultyEasy,
	"medium": library.DifficultyMedium,
	"2":      library.DifficultyMedium,
	"hard":   library.DifficultyHard,
	"3":      library.DifficultyHard,
}

func parseDifficulty(s string) (library.Difficulty, error) {
	key := squash(s)
	if d, ok := difficultyAliases[key]; ok {
		return d, nil
	}
	for _, d := range library.Difficulties {
		if squash(string(d)) == key {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

func parseStatus(s string) (library.Status, error) {
	key := squash(s)
	if key == "shortlist" {
		return library.StatusShortlist, nil
	}
	for _, st := range library.Statuses {
		if squash(string(st)) == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want draft, refining, verified or shortlist)", s)
}
