package mathtext

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// Options configures a Typesetter.
type Options struct {
	// Width is the word-wrap column. Zero uses 80.
	Width int
	// Style is a glamour standard style name. Empty uses "dark".
	Style string
}

// Typesetter renders markdown with math for the terminal. The markdown
// renderer is built in the background; until it is ready, and whenever it
// fails, Render returns the normalized source text.
type Typesetter struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	ready    chan struct{}
	err      error
	log      *zap.Logger
}

// NewTypesetter starts building the renderer and returns immediately.
func NewTypesetter(opts Options, log *zap.Logger) *Typesetter {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}

	t := &Typesetter{ready: make(chan struct{}), log: log}
	go t.build(opts)
	return t
}

func (t *Typesetter) build(opts Options) {
	defer close(t.ready)
	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("build markdown renderer: panic: %v", r)
			t.log.Error("typesetter unavailable", zap.Error(t.err))
		}
	}()

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Style),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		t.err = fmt.Errorf("build markdown renderer: %w", err)
		t.log.Error("typesetter unavailable", zap.Error(t.err))
		return
	}
	t.renderer = r
}

// Ready reports whether the renderer has been built successfully.
func (t *Typesetter) Ready() bool {
	select {
	case <-t.ready:
		return t.err == nil
	default:
		return false
	}
}

// Settled reports whether building has finished, successfully or not.
func (t *Typesetter) Settled() bool {
	select {
	case <-t.ready:
		return true
	default:
		return false
	}
}

// Wait blocks until the renderer is built or ctx ends.
func (t *Typesetter) Wait(ctx context.Context) error {
	select {
	case <-t.ready:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Render typesets math and renders the result as markdown.
func (t *Typesetter) Render(text string) (out string) {
	raw := Normalize(text)
	if !t.Ready() {
		return raw
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("markdown render panicked", zap.Any("panic", r))
			out = raw
		}
	}()

	rendered, err := t.renderer.Render(Markdown(text))
	if err != nil {
		t.log.Warn("markdown render failed", zap.Error(err))
		return raw
	}
	return strings.TrimRight(rendered, "\n")
}

// Plain replaces math spans with their Unicode rendering and leaves the
// surrounding text untouched.
func Plain(text string) string {
	return typeset(text, false)
}

// Markdown is like Plain but escapes math output so markdown rendering
// does not reinterpret it, and sets display math on its own paragraph.
func Markdown(text string) string {
	return typeset(text, true)
}

func typeset(text string, markdown bool) string {
	var b strings.Builder
	for _, seg := range Segments(Normalize(text)) {
		switch seg.Kind {
		case KindText:
			b.WriteString(seg.Text)
		case KindInline:
			b.WriteString(escape(ToUnicode(strings.TrimSpace(seg.Text)), markdown))
		case KindDisplay:
			body := escape(ToUnicode(strings.TrimSpace(seg.Text)), markdown)
			if markdown {
				b.WriteString("\n\n" + body + "\n\n")
			} else {
				b.WriteString("\n" + body + "\n")
			}
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`, "#", `\#`, "|", `\|`,
)

func escape(s string, markdown bool) string {
	if !markdown {
		return s
	}
	return markdownEscaper.Replace(s)
}
