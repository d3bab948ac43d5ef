package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/store"
)

// SlotKey is the storage slot holding the serialized collection.
const SlotKey = "olympiad-forge-problems"

// ExportFileName is the default name for a bulk export.
const ExportFileName = "olympiad-forge-library.json"

// Library is the ordered, most-recent-first collection of saved problems.
// Every mutation rewrites the whole collection to its storage slot.
type Library struct {
	mu       sync.RWMutex
	problems []Problem
	slots    store.SlotRepo
	log      *zap.Logger
}

// Open loads the collection from slots. A missing, unreadable or corrupt
// slot yields an empty collection; the failure is logged, not returned.
func Open(ctx context.Context, slots store.SlotRepo, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Library{slots: slots, log: log, problems: []Problem{}}

	data, ok, err := slots.Get(ctx, SlotKey)
	switch {
	case err != nil:
		log.Error("load library", zap.Error(err))
		return l
	case !ok || len(bytes.TrimSpace(data)) == 0:
		return l
	}

	var raw []Problem
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Error("decode library", zap.Error(err), zap.Int("bytes", len(data)))
		return l
	}

	seen := make(map[string]bool, len(raw))
	for _, p := range raw {
		if p.ID == "" || seen[p.ID] {
			log.Warn("dropping stored problem", zap.String("id", p.ID))
			continue
		}
		seen[p.ID] = true
		l.problems = append(l.problems, p.normalize())
	}
	log.Debug("library loaded", zap.Int("problems", len(l.problems)))
	return l
}

// Create fills in a missing id and timestamp, validates p and prepends it.
// The record is kept in memory even when the write fails.
func (l *Library) Create(ctx context.Context, p Problem) (Problem, error) {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Created == 0 {
		p.Created = nowMillis()
	}
	p = p.normalize()
	if err := Validate(p); err != nil {
		return Problem{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexLocked(p.ID) >= 0 {
		return Problem{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidProblem, p.ID)
	}
	l.problems = slices.Insert(l.problems, 0, p)
	return p, l.persistLocked(ctx, "create")
}

// Delete removes the problem with id. Deleting an unknown id is a no-op.
func (l *Library) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return nil
	}
	l.problems = slices.Delete(l.problems, i, i+1)
	return l.persistLocked(ctx, "delete")
}

// SetStatus moves a problem to another board column. Only the status
// changes; an unknown id is a no-op.
func (l *Library) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProblem, status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 || l.problems[i].Status == status {
		return nil
	}
	l.problems[i].Status = status
	return l.persistLocked(ctx, "set_status")
}

// Export returns the full collection as indented JSON. An empty
// collection exports as [].
func (l *Library) Export() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return marshalIndent(l.problems)
}

// Import parses a bulk export and merges it. A payload that does not
// parse changes nothing.
func (l *Library) Import(ctx context.Context, data []byte) (int, error) {
	incoming, err := ParseSnapshot(data)
	if err != nil {
		l.log.Warn("import rejected", zap.Error(err))
		return 0, err
	}
	return l.Merge(ctx, incoming)
}

// Merge prepends the records whose ids are not yet present, keeping their
// order. Existing records win over incoming ones; duplicates inside the
// batch collapse to the first. Invalid records are skipped and logged.
func (l *Library) Merge(ctx context.Context, incoming []Problem) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool, len(l.problems)+len(incoming))
	for _, p := range l.problems {
		seen[p.ID] = true
	}

	fresh := make([]Problem, 0, len(incoming))
	for _, p := range incoming {
		p = p.normalize()
		if seen[p.ID] {
			continue
		}
		if err := Validate(p); err != nil {
			l.log.Warn("skipping imported problem", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		seen[p.ID] = true
		fresh = append(fresh, p)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	l.problems = append(fresh, l.problems...)
	return len(fresh), l.persistLocked(ctx, "merge")
}

// Replace swaps the whole collection for problems.
func (l *Library) Replace(ctx context.Context, problems []Problem) error {
	next := make([]Problem, 0, len(problems))
	seen := make(map[string]bool, len(problems))
	for _, p := range problems {
		p = p.normalize()
		if err := Validate(p); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidProblem, p.ID)
		}
		seen[p.ID] = true
		next = append(next, p)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.problems = next
	return l.persistLocked(ctx, "replace")
}

// All returns a copy of the collection, most recent first.
func (l *Library) All() []Problem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneProblems(l.problems)
}

// Get returns the problem with id.
func (l *Library) Get(id string) (Problem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexLocked(id); i >= 0 {
		return cloneProblem(l.problems[i]), true
	}
	return Problem{}, false
}

// ByStatus returns the problems in one board column, preserving order.
func (l *Library) ByStatus(status Status) []Problem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Problem
	for _, p := range l.problems {
		if p.Status == status {
			out = append(out, cloneProblem(p))
		}
	}
	return out
}

// Counts returns the number of problems per status. Every column is present.
func (l *Library) Counts() map[Status]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, p := range l.problems {
		counts[p.Status]++
	}
	return counts
}

// Len returns the collection size.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.problems)
}

// ParseSnapshot decodes a bulk export. The payload must be a JSON array of
// problem objects; records are normalized but not validated.
func ParseSnapshot(data []byte) ([]Problem, error) {
	if err := checkSnapshotShape(data); err != nil {
		return nil, err
	}
	var problems []Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for i := range problems {
		problems[i] = problems[i].normalize()
	}
	return problems, nil
}

func (l *Library) indexLocked(id string) int {
	return slices.IndexFunc(l.problems, func(p Problem) bool { return p.ID == id })
}

func (l *Library) persistLocked(ctx context.Context, op string) error {
	data, err := marshalIndent(l.problems)
	if err != nil {
		l.log.Error("encode library", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("encode library: %w", err)
	}
	if err := l.slots.Put(ctx, SlotKey, data); err != nil {
		l.log.Error("persist library", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("persist library: %w", err)
	}
	l.log.Debug("library persisted", zap.String("op", op), zap.Int("problems", len(l.problems)))
	return nil
}

func marshalIndent(problems []Problem) ([]byte, error) {
	if problems == nil {
		problems = []Problem{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(problems); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func cloneProblems(in []Problem) []Problem {
	out := make([]Problem, len(in))
	for i, p := range in {
		out[i] = cloneProblem(p)
	}
	return out
}

func cloneProblem(p Problem) Problem {
	p.Tags = slices.Clone(p.Tags)
	return p
}
