package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	lib "github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/router"
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

func newEnv(t *testing.T, titles ...string) (*screen.Env, *[]string) {
	t.Helper()
	l := lib.Open(context.Background(), &memSlots{data: map[string][]byte{}}, nil)
	for _, title := range titles {
		_, err := l.Create(context.Background(), lib.Problem{
			Title:      title,
			Statement:  "Prove it.",
			Topic:      lib.TopicAlgebra,
			Difficulty: lib.DifficultyEasy,
		})
		if err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}
	var copied []string
	env := &screen.Env{
		Library:   l,
		ShareBase: "https://example.test/",
		Copy: func(s string) error {
			copied = append(copied, s)
			return nil
		},
	}
	return env, &copied
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestBoard_ColumnsByStatus(t *testing.T) {
	env, _ := newEnv(t, "First", "Second")
	b := New(env)

	if len(b.columns[0]) != 2 {
		t.Fatalf("draft column = %d cards, want 2", len(b.columns[0]))
	}
	if p, _ := b.Selected(); p.Title != "Second" {
		t.Errorf("selected = %q, want most recent first", p.Title)
	}
	if b.Title() != "Library · 2 problems" {
		t.Errorf("title = %q", b.Title())
	}
}

func TestBoard_MoveKeepsCursorOnCard(t *testing.T) {
	env, _ := newEnv(t, "Only")
	b := New(env)

	b.Update(key(">"))
	if b.col != 1 {
		t.Fatalf("col = %d, want 1", b.col)
	}
	p, ok := b.Selected()
	if !ok || p.Title != "Only" || p.Status != lib.StatusRefining {
		t.Fatalf("selected = %+v", p)
	}
	stored, _ := env.Library.Get(p.ID)
	if stored.Status != lib.StatusRefining {
		t.Errorf("stored status = %s", stored.Status)
	}

	b.Update(key("<"))
	b.Update(key("<"))
	if b.col != 0 {
		t.Errorf("moving before Draft should stay in the first column, col = %d", b.col)
	}
}

func TestBoard_DeleteAsksFirst(t *testing.T) {
	env, _ := newEnv(t, "Keep", "Drop")
	b := New(env)

	b.Update(key("d"))
	if !b.confirmDelete {
		t.Fatal("expected confirmation prompt")
	}
	b.Update(key("n"))
	if env.Library.Len() != 2 {
		t.Fatal("declined delete removed a problem")
	}

	b.Update(key("d"))
	b.Update(key("y"))
	if env.Library.Len() != 1 {
		t.Fatalf("len = %d, want 1", env.Library.Len())
	}
	if p, _ := b.Selected(); p.Title != "Keep" {
		t.Errorf("selected = %q", p.Title)
	}
}

func TestBoard_ShareCopiesLink(t *testing.T) {
	env, copied := newEnv(t, "A", "B")
	b := New(env)

	b.Update(key("s"))
	b.Update(key("S"))
	if len(*copied) != 2 {
		t.Fatalf("copied %d links", len(*copied))
	}

	one, err := lib.ParseShareLink((*copied)[0])
	if err != nil || len(one) != 1 || one[0].Title != "B" {
		t.Errorf("card link decoded to %+v, %v", one, err)
	}
	all, err := lib.ParseShareLink((*copied)[1])
	if err != nil || len(all) != 2 {
		t.Errorf("library link decoded to %d problems, %v", len(all), err)
	}
	if !strings.HasPrefix((*copied)[0], "https://example.test/?data=") {
		t.Errorf("link = %q", (*copied)[0])
	}
}

func TestBoard_ResumeReloads(t *testing.T) {
	env, _ := newEnv(t)
	b := New(env)
	if _, ok := b.Selected(); ok {
		t.Fatal("empty board has a selection")
	}

	_, _ = env.Library.Create(context.Background(), lib.Problem{
		Title: "Late", Topic: lib.TopicGeometry, Difficulty: lib.DifficultyHard,
	})
	b.Resume()
	if p, ok := b.Selected(); !ok || p.Title != "Late" {
		t.Errorf("selected = %+v, %v", p, ok)
	}
}

func TestBoard_EnterPushesDetail(t *testing.T) {
	env, _ := newEnv(t, "Open me")
	b := New(env)

	_, cmd := b.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("msg = %T", cmd())
	}
	d, ok := push.Screen.(*DetailScreen)
	if !ok || d.Title() != "Open me" {
		t.Fatalf("pushed %T", push.Screen)
	}
	d.Close()
}

func TestExportLibrary(t *testing.T) {
	env, _ := newEnv(t, "Exported")
	path, err := exportLibrary(env.Library, filepath.Join(t.TempDir(), "backup.json"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	problems, err := lib.ParseSnapshot(data)
	if err != nil || len(problems) != 1 || problems[0].Title != "Exported" {
		t.Errorf("export = %+v, %v", problems, err)
	}
}

func TestDetail_CopyAndRender(t *testing.T) {
	env, copied := newEnv(t, "Sum of Cubes")
	p := env.Library.All()[0]
	d := NewDetail(env, p)
	defer d.Close()

	d.Init()
	d.Update(key("c"))
	if len(*copied) != 1 || (*copied)[0] != "Prove it." {
		t.Errorf("copied = %v", *copied)
	}
	if v := d.View(100, 40); !strings.Contains(v, "Sum of Cubes") {
		t.Errorf("view missing title:\n%s", v)
	}
}

func TestDetail_MountsDiagramAndRepaints(t *testing.T) {
	env, _ := newEnv(t)
	p, err := env.Library.Create(context.Background(), lib.Problem{
		Title:        "Triangle",
		Statement:    "Let $ABC$ be a triangle.",
		Topic:        lib.TopicGeometry,
		Difficulty:   lib.DifficultyEasy,
		JSXGraphCode: "board.create('point', [0, 0], {name: 'A'});",
	})
	if err != nil {
		t.Fatal(err)
	}
	d := NewDetail(env, p)
	defer d.Close()

	mount := d.mountDiagram()
	if mount == nil {
		t.Fatal("expected a mount command")
	}
	msg := mount()
	if _, ok := msg.(diagramMountedMsg); !ok {
		t.Fatalf("mount returned %T, want diagramMountedMsg", msg)
	}
	if _, cmd := d.Update(msg); cmd != nil {
		t.Error("mounted message should only repaint")
	}
	if v := d.View(100, 60); !strings.Contains(v, "Diagram") {
		t.Errorf("view missing diagram:\n%s", v)
	}
}

func TestDetail_NoDiagramSourceSkipsMount(t *testing.T) {
	env, _ := newEnv(t, "Plain")
	d := NewDetail(env, env.Library.All()[0])
	defer d.Close()
	if d.mountDiagram() != nil {
		t.Error("expected no mount command without a diagram source")
	}
}
