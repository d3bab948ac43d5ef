package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/store"
	"github.com/olympiadforge/forge/internal/workbench"
)

func openTestLibrary(t *testing.T) *library.Library {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "forge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return library.Open(context.Background(), st.SlotRepo(), zap.NewNop())
}

func TestSaveSession_CreatesDraft(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	s := workbench.New()
	s.Topic = library.TopicAlgebra
	s.Statement = "**Title**: Sum of Squares\n\nProve that $a^2+b^2 \\ge 2ab$."

	var out bytes.Buffer
	require.NoError(t, saveSession(ctx, &out, lib, s, ""))

	all := lib.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Sum of Squares", all[0].Title)
	assert.Equal(t, library.StatusDraft, all[0].Status)
	assert.Equal(t, library.TopicAlgebra, all[0].Topic)
	assert.Contains(t, out.String(), all[0].ID)
}

func TestSaveSession_UpdatesSavedProblem(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	saved, err := lib.Create(ctx, library.Problem{
		Title:      "Old Title",
		Statement:  "old",
		Topic:      library.TopicGeometry,
		Difficulty: library.DifficultyHard,
		Status:     library.StatusRefining,
		Notes:      "keep me",
		Tags:       []string{"generate"},
	})
	require.NoError(t, err)

	s := workbench.New()
	loadProblem(s, saved)
	s.Statement = "new statement"
	s.Solution = "new solution"

	var out bytes.Buffer
	require.NoError(t, saveSession(ctx, &out, lib, s, saved.ID))

	got, ok := lib.Get(saved.ID)
	require.True(t, ok)
	assert.Equal(t, 1, lib.Len())
	assert.Equal(t, "new statement", got.Statement)
	assert.Equal(t, "new solution", got.Solution)
	assert.Equal(t, "Old Title", got.Title)
	assert.Equal(t, library.StatusRefining, got.Status)
	assert.Equal(t, "keep me", got.Notes)
	assert.Equal(t, saved.Created, got.Created)
}

func TestUpdateProblem_UnknownID(t *testing.T) {
	lib := openTestLibrary(t)
	err := updateProblem(context.Background(), lib, "missing", library.Problem{})
	assert.ErrorContains(t, err, "not found")
}

func TestListProblems(t *testing.T) {
	var empty bytes.Buffer
	require.NoError(t, listProblems(&empty, nil))
	assert.Equal(t, "No problems found.\n", empty.String())

	var out bytes.Buffer
	require.NoError(t, listProblems(&out, []library.Problem{
		{ID: "p1", Title: "Triangle $ABC$", Topic: library.TopicGeometry, Status: library.StatusVerified},
	}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "p1")
	assert.Contains(t, lines[1], "Verified")
	assert.Contains(t, lines[1], "Triangle")
}

func TestListProblems_TruncatesByDisplayWidth(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listProblems(&out, []library.Problem{
		{ID: "p1", Title: strings.Repeat("几", 60), Topic: library.TopicAlgebra},
	}))
	assert.Contains(t, out.String(), "…")
	assert.NotContains(t, out.String(), strings.Repeat("几", 25))
}

func TestLibraryStatusExamplesParse(t *testing.T) {
	for _, line := range strings.Split(libraryStatusCmd.Example, "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 5, line)
		_, err := parseStatus(fields[4])
		assert.NoError(t, err, line)
	}
}

func TestPrintSession_Sections(t *testing.T) {
	s := workbench.New()
	s.Statement = "Statement."
	s.Solution = "Solution."
	s.Lean = "theorem x : True := trivial"
	s.Similars = "None known."
	s.StressTest = "Holds."

	var out bytes.Buffer
	steps := []workbench.Action{workbench.ActionGenerate, workbench.ActionDetails, workbench.ActionVerify}
	require.NoError(t, printSession(context.Background(), &out, s, steps, false))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Statement.\n"))
	assert.Contains(t, text, "## Solution\n\nSolution.")
	assert.Contains(t, text, "```lean\ntheorem x : True := trivial\n```")
	assert.Contains(t, text, "## Stress Test\n\nHolds.")
	assert.NotContains(t, text, "## JSXGraph")
}

func TestPrintUsage_UnpricedModel(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out,
		[]store.PurposeUsage{{Purpose: "idea", Calls: 2, Failures: 1, InputTokens: 100, OutputTokens: 50}},
		[]store.ModelUsage{{Model: "mystery-model", Calls: 2, InputTokens: 100, OutputTokens: 50}},
	)
	text := out.String()
	assert.Contains(t, text, "TOTAL (partial)")
	assert.Contains(t, text, "Pricing unavailable for: mystery-model")
}

func TestPrintUsage_Empty(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out, nil, nil)
	assert.Equal(t, "No model usage recorded yet.\n", out.String())
}

func TestDiagramCmd_FromFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "triangle.js")
	require.NoError(t, os.WriteFile(src, []byte(`
var A = board.create('point', [-3, -2], {name: 'A'});
var B = board.create('point', [3, -2], {name: 'B'});
var C = board.create('point', [0, 3], {name: 'C'});
board.create('polygon', [A, B, C]);
`), 0o644))

	svg := filepath.Join(dir, "triangle.svg")
	require.NoError(t, diagramCmd.Flags().Set("svg", svg))
	t.Cleanup(func() { diagramCmd.Flags().Set("svg", "") })

	var out bytes.Buffer
	diagramCmd.SetOut(&out)
	t.Cleanup(func() { diagramCmd.SetOut(nil) })

	require.NoError(t, diagramCmd.RunE(diagramCmd, []string{src}))
	assert.Contains(t, out.String(), "Wrote "+svg)

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
