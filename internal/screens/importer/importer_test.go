package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/screen"
)

type memSlots struct{ data map[string][]byte }

func (m *memSlots) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}
func (m *memSlots) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}
func (m *memSlots) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newEnv() *screen.Env {
	return &screen.Env{Library: library.Open(context.Background(), &memSlots{data: map[string][]byte{}}, nil)}
}

func sample(id, title string) library.Problem {
	return library.Problem{
		ID:         id,
		Title:      title,
		Statement:  "Prove $1+1=2$.",
		Topic:      library.TopicNumberTheory,
		Difficulty: library.DifficultyMedium,
		Status:     library.StatusVerified,
		Created:    1712345678901,
		Tags:       []string{"generate"},
	}
}

func ctrlS() tea.KeyPressMsg { return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl} }

func TestImport_ShareLinkMerges(t *testing.T) {
	env := newEnv()
	if _, err := env.Library.Create(context.Background(), sample("a", "Existing")); err != nil {
		t.Fatal(err)
	}
	link, err := library.ShareLink("https://example.test/", sample("a", "Existing"), sample("b", "Fresh"))
	if err != nil {
		t.Fatal(err)
	}

	s := New(env)
	s.area.SetValue(link)
	s.Update(ctrlS())
	if len(s.pending) != 2 {
		t.Fatalf("pending = %d, want 2 (flash %q)", len(s.pending), s.flash)
	}

	s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if s.pending != nil {
		t.Error("pending not cleared")
	}
	if env.Library.Len() != 2 {
		t.Fatalf("library has %d problems, want 2", env.Library.Len())
	}
	if got := env.Library.All()[0].Title; got != "Fresh" {
		t.Errorf("first problem = %q, want the imported one", got)
	}
	if !s.flashOK || s.area.Value() != "" {
		t.Errorf("flash=%q ok=%v value=%q", s.flash, s.flashOK, s.area.Value())
	}
}

func TestImport_CancelKeepsLibrary(t *testing.T) {
	env := newEnv()
	data, _ := library.ShareLink("", sample("x", "One"))

	s := New(env)
	s.area.SetValue(data)
	s.Update(ctrlS())
	if !s.CapturesInput() {
		t.Error("confirmation prompt should capture Esc")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if env.Library.Len() != 0 || s.pending != nil {
		t.Errorf("len=%d pending=%v", env.Library.Len(), s.pending)
	}
}

func TestImport_InvalidInput(t *testing.T) {
	s := New(newEnv())
	s.area.SetValue("https://example.test/?data=%%%")
	s.Update(ctrlS())
	if s.pending != nil || s.flash == "" || s.flashOK {
		t.Errorf("pending=%v flash=%q", s.pending, s.flash)
	}
}

func TestImport_EscBlursInput(t *testing.T) {
	s := New(newEnv())
	if !s.CapturesInput() {
		t.Fatal("input should start focused")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.CapturesInput() {
		t.Error("Esc should release the input")
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	if err := os.WriteFile(path, []byte(`[{"id":"f","title":"From file","statement":"S","topic":"Algebra","difficulty":"IMO Q3/Q6","created":1,"tags":[]}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"json array", `[{"id":"j","title":"Inline","statement":"S"}]`, 1},
		{"file path", path, 1},
		{"bare payload", library.EncodeShareData([]byte(`[{"id":"p","title":"Bare","statement":"S"}]`)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	if _, err := Parse("   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("blank err = %v", err)
	}
}
