package diagram

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle position of a Renderer.
type State int

const (
	StateEmpty State = iota
	StateMounted
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateMounted:
		return "mounted"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Renderer owns at most one live surface and remounts it whenever the
// diagram source changes. Once disposed it never mounts again. Sources run
// without holding the lock, so Surface and Dispose never wait on a script.
type Renderer struct {
	mu      sync.Mutex
	state   State
	source  string
	surface *Surface
	// gen counts Show calls and disposal; a run whose gen is stale when it
	// finishes is discarded.
	gen     uint64
	timeout time.Duration
	log     *zap.Logger
}

// NewRenderer creates an empty renderer. A non-positive timeout uses
// DefaultTimeout.
func NewRenderer(timeout time.Duration, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Renderer{timeout: timeout, log: log}
}

// Show mounts source. Showing the source that is already mounted is a
// no-op; a different source replaces the current surface once it has run.
// After Dispose it returns nil. When a later Show or Dispose overtakes the
// run, the new surface is dropped and the current one returned.
func (r *Renderer) Show(source string) *Surface {
	r.mu.Lock()
	switch r.state {
	case StateDisposed:
		r.mu.Unlock()
		return nil
	case StateMounted:
		if source == r.source {
			s := r.surface
			r.mu.Unlock()
			return s
		}
	}
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	start := time.Now()
	s := Run(source, r.timeout)
	if s.Err != nil {
		r.log.Warn("diagram source failed",
			zap.String("surface", s.ID),
			zap.Int("elements", len(s.Elements)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(s.Err),
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDisposed || gen != r.gen {
		s.dispose()
		if r.state == StateDisposed {
			return nil
		}
		return r.surface
	}

	if r.surface != nil {
		r.surface.dispose()
	}
	r.state = StateMounted
	r.source = source
	r.surface = s
	r.log.Debug("diagram mounted",
		zap.String("surface", s.ID),
		zap.Int("elements", len(s.Elements)),
	)
	return s
}

// Surface returns the mounted surface, or nil.
func (r *Renderer) Surface() *Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateMounted {
		return nil
	}
	return r.surface
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispose tears down the current surface.
func (r *Renderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.surface != nil {
		r.surface.dispose()
	}
	r.surface = nil
	r.state = StateDisposed
	r.gen++
}
