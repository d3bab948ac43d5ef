package library

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// NoSolution is shown when a problem has no generated solution.
const NoSolution = "No solution generated."

var solutionPage = template.Must(template.New("solution").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css">
<script src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/contrib/auto-render.min.js"></script>
<link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/jsxgraph/distrib/jsxgraph.css" />
<script type="text/javascript" charset="UTF-8" src="https://cdn.jsdelivr.net/npm/jsxgraph/distrib/jsxgraphcore.js"></script>
<style>
body { font-family: 'Georgia', serif; line-height: 1.6; padding: 40px; max-width: 800px; margin: 0 auto; color: #111; background: #fafafa; }
.paper { background: white; padding: 50px; box-shadow: 0 4px 15px rgba(0,0,0,0.1); }
h1 { border-bottom: 1px solid #ddd; padding-bottom: 20px; text-align: center; }
h2 { margin-top: 40px; color: #333; font-size: 1.2em; text-transform: uppercase; letter-spacing: 1px; }
.content { white-space: pre-wrap; }
pre { background: #f4f4f4; padding: 15px; border-radius: 4px; overflow-x: auto; font-family: monospace; font-size: 0.9em; }
.jxgbox { width: 100%; height: 400px; margin: 20px 0; border: 1px solid #eee; }
</style>
</head>
<body>
<div class="paper">
<h1>{{.Title}}</h1>
<div class="content">
<div>{{.Statement}}</div>
{{- if .Diagram}}
<div id="jxgbox" class="jxgbox"></div>
<script>
(function() {
  var board = JXG.JSXGraph.initBoard('jxgbox', {boundingbox: [-5, 5, 5, -5], axis: false, showNavigation: false});
  {{.Diagram}}
})();
</script>
{{- end}}
<h2>Solution</h2>
<div>{{.Solution}}</div>
{{- if .Lean}}
<h2>Lean 4 Formalization</h2>
<pre>{{.Lean}}</pre>
{{- end}}
{{- if .Similars}}
<h2>Similar Problems</h2>
<div>{{.Similars}}</div>
{{- end}}
</div>
</div>
<script>
document.addEventListener("DOMContentLoaded", function() {
  renderMathInElement(document.body, {
    delimiters: [
      {left: "$$", right: "$$", display: true},
      {left: "$", right: "$", display: false}
    ],
    throwOnError: false
  });
});
</script>
</body>
</html>
`))

type solutionView struct {
	Title     string
	Statement string
	Diagram   template.JS
	Solution  string
	Lean      string
	Similars  string
}

// RenderHTML writes a standalone solution page for p. Math is left in its
// dollar-delimited source form for KaTeX auto-render, and the diagram code
// runs against a board created on the page.
func RenderHTML(w io.Writer, p Problem) error {
	v := solutionView{
		Title:     p.DisplayTitle(),
		Statement: p.Statement,
		Diagram:   template.JS(p.JSXGraphCode),
		Solution:  p.Solution,
		Lean:      p.LeanCode,
		Similars:  p.Similars,
	}
	if strings.TrimSpace(v.Solution) == "" {
		v.Solution = NoSolution
	}
	if err := solutionPage.Execute(w, v); err != nil {
		return fmt.Errorf("render solution page: %w", err)
	}
	return nil
}

// Markdown renders p as a Markdown document for terminal display.
func Markdown(p Problem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.DisplayTitle())
	fmt.Fprintf(&b, "*%s · %s · %s*\n\n", p.Topic, p.Difficulty, p.Status.Normalized())
	b.WriteString(strings.TrimSpace(p.Statement))
	b.WriteString("\n\n## Solution\n\n")

	if sol := strings.TrimSpace(p.Solution); sol != "" {
		b.WriteString(sol)
	} else {
		b.WriteString(NoSolution)
	}
	b.WriteString("\n")

	if lean := strings.TrimSpace(p.LeanCode); lean != "" {
		fmt.Fprintf(&b, "\n## Lean 4 Formalization\n\n```lean\n%s\n```\n", lean)
	}
	if asy := strings.TrimSpace(p.AsymptoteCode); asy != "" {
		fmt.Fprintf(&b, "\n## Asymptote\n\n```asy\n%s\n```\n", asy)
	}
	if sim := strings.TrimSpace(p.Similars); sim != "" {
		fmt.Fprintf(&b, "\n## Similar Problems\n\n%s\n", sim)
	}
	if st := strings.TrimSpace(p.StressTest); st != "" {
		fmt.Fprintf(&b, "\n## Stress Test\n\n%s\n", st)
	}
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", notes)
	}
	return b.String()
}
