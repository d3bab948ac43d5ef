package screen

import (
	"context"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/problemgen"
	"github.com/olympiadforge/forge/internal/store"
)

// ActivityRepo reads the model request log.
type ActivityRepo interface {
	QueryLLMEvents(ctx context.Context, opts store.QueryOpts) ([]store.LLMEvent, error)
}

// Env carries the services screens share.
type Env struct {
	Library    *library.Library
	Generator  problemgen.Generator // nil when no provider is configured
	Activity   ActivityRepo         // nil disables the activity screen
	Typesetter *mathtext.Typesetter
	ShareBase  string
	Model      string
	Log        *zap.Logger

	// Copy writes text to the system clipboard. Nil uses the OS clipboard.
	Copy func(string) error
	// Open shows a file in an external viewer. Nil leaves files unopened.
	Open func(path string) error
}

// Logger returns the env logger or a no-op logger.
func (e *Env) Logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// CopyText writes text to the clipboard.
func (e *Env) CopyText(text string) error {
	if e.Copy != nil {
		return e.Copy(text)
	}
	return clipboard.WriteAll(text)
}
