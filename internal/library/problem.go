package library

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Topic is the mathematical area of a problem.
type Topic string

const (
	TopicAlgebra       Topic = "Algebra"
	TopicCombinatorics Topic = "Combinatorics"
	TopicGeometry      Topic = "Geometry"
	TopicNumberTheory  Topic = "Number Theory"
)

// Topics lists every topic in display order.
var Topics = []Topic{TopicAlgebra, TopicCombinatorics, TopicGeometry, TopicNumberTheory}

// Difficulty is the target competition level.
type Difficulty string

const (
	// DifficultyEasy is roughly an early shortlist problem.
	DifficultyEasy Difficulty = "IMO SL C1/G1"
	// DifficultyMedium is a mid-shortlist problem.
	DifficultyMedium Difficulty = "IMO SL C3/G3"
	// DifficultyHard covers the hardest exam slots.
	DifficultyHard Difficulty = "IMO Q3/Q6"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Status is a problem's position on the workflow board.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusRefining  Status = "Refining"
	StatusVerified  Status = "Verified"
	StatusShortlist Status = "Shortlist Ready"
)

// Statuses lists the board columns from left to right.
var Statuses = []Status{StatusDraft, StatusRefining, StatusVerified, StatusShortlist}

// Valid reports whether s is one of the four board columns.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Normalized maps a missing or unknown status to Draft.
func (s Status) Normalized() Status {
	if s.Valid() {
		return s
	}
	return StatusDraft
}

// Next returns the column to the right, or s itself in the last column.
func (s Status) Next() Status {
	i := slices.Index(Statuses, s.Normalized())
	if i < len(Statuses)-1 {
		return Statuses[i+1]
	}
	return Statuses[i]
}

// Prev returns the column to the left, or s itself in the first column.
func (s Status) Prev() Status {
	i := slices.Index(Statuses, s.Normalized())
	if i > 0 {
		return Statuses[i-1]
	}
	return Statuses[i]
}

// Problem is a saved olympiad problem. Field names on the wire match the
// browser edition of the tool so exported files are interchangeable.
type Problem struct {
	ID            string     `json:"id" validate:"required"`
	Title         string     `json:"title"`
	Statement     string     `json:"statement"`
	Topic         Topic      `json:"topic" validate:"oneof=Algebra Combinatorics Geometry 'Number Theory'"`
	Difficulty    Difficulty `json:"difficulty" validate:"oneof='IMO SL C1/G1' 'IMO SL C3/G3' 'IMO Q3/Q6'"`
	Status        Status     `json:"status" validate:"oneof=Draft Refining Verified 'Shortlist Ready'"`
	Solution      string     `json:"solution,omitempty"`
	LeanCode      string     `json:"leanCode,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Created       int64      `json:"created" validate:"gte=0"`
	Tags          []string   `json:"tags"`
	JSXGraphCode  string     `json:"jsxGraphCode,omitempty"`
	AsymptoteCode string     `json:"asymptoteCode,omitempty"`
	Similars      string     `json:"similars,omitempty"`
	StressTest    string     `json:"stressTest,omitempty"`
}

// CreatedAt returns the creation time.
func (p Problem) CreatedAt() time.Time {
	return time.UnixMilli(p.Created)
}

// HasTag reports whether tag is set on p.
func (p Problem) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// DisplayTitle returns the title, or "<Topic> Problem" when it is blank.
func (p Problem) DisplayTitle() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	if p.Topic == "" {
		return "Untitled Problem"
	}
	return string(p.Topic) + " Problem"
}

// normalize reads status with Draft as default and makes tags a set.
func (p Problem) normalize() Problem {
	p.Status = p.Status.Normalized()
	p.Title = strings.TrimSpace(p.Title)

	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	return p
}

// NewID returns a unique, time-ordered problem id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
