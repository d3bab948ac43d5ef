package diagram

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

const triangleSource = `
var A = board.create('point', [-3, -2], {name: 'A'});
var B = board.create('point', [3, -2], {name: 'B'});
var C = board.create('point', [0, 3], {name: 'C'});
board.create('polygon', [A, B, C]);
var M = board.create('midpoint', [A, B], {name: 'M'});
var circ = board.create('circumcircle', [A, B, C], {strokeColor: 'blue'});
var h = board.create('perpendicular', [board.create('line', [A, B], {visible: false}), C]);
var H = board.create('intersection', [h, board.create('segment', [A, B])], {name: 'H'});
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func findByName(s *Surface, name string) *Element {
	for _, el := range s.Elements {
		if el.Name == name {
			return el
		}
	}
	return nil
}

func TestRun_RecordsAndResolves(t *testing.T) {
	s := Run(triangleSource, time.Second)
	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}
	if len(s.Elements) != 10 {
		t.Fatalf("expected 10 elements, got %d", len(s.Elements))
	}

	m := findByName(s, "M")
	if m == nil || m.Point == nil || !near(m.Point.X, 0) || !near(m.Point.Y, -2) {
		t.Errorf("midpoint M = %+v, want (0,-2)", m)
	}

	h := findByName(s, "H")
	if h == nil || h.Point == nil || !near(h.Point.X, 0) || !near(h.Point.Y, -2) {
		t.Errorf("foot H = %+v, want (0,-2)", h)
	}

	var circle *Element
	for _, el := range s.Elements {
		if el.Type == "circumcircle" {
			circle = el
		}
	}
	if circle == nil || circle.Circle == nil {
		t.Fatal("circumcircle not resolved")
	}
	// Circumcenter of (-3,-2), (3,-2), (0,3) lies on x=0 at y=-0.4.
	if !near(circle.Circle.Center.X, 0) || !near(circle.Circle.Center.Y, -0.4) {
		t.Errorf("circumcenter = %+v, want (0, -0.4)", circle.Circle.Center)
	}
	if circle.Color != "blue" {
		t.Errorf("color = %q, want blue", circle.Color)
	}
}

func TestRun_ThrowingSourceLeavesEmptySurface(t *testing.T) {
	s := Run(`throw new Error("boom");`, time.Second)
	if s.Err == nil {
		t.Fatal("expected error")
	}
	if len(s.Elements) != 0 {
		t.Errorf("expected no elements, got %d", len(s.Elements))
	}
	if !strings.HasPrefix(s.ID, "jxgbox-") {
		t.Errorf("surface id = %q", s.ID)
	}
	if s.BoundingBox != [4]float64{-5, 5, 5, -5} {
		t.Errorf("bounding box = %v", s.BoundingBox)
	}
}

func TestRun_PartialFailureKeepsEarlierElements(t *testing.T) {
	s := Run(`
		board.create('point', [1, 1], {name: 'P'});
		undefinedFunction();
		board.create('point', [2, 2], {name: 'Q'});
	`, time.Second)
	if s.Err == nil {
		t.Fatal("expected error")
	}
	if len(s.Elements) != 1 || s.Elements[0].Name != "P" {
		t.Errorf("elements = %+v, want only P", s.Elements)
	}
}

func TestRun_SyntaxError(t *testing.T) {
	s := Run(`var = ;`, time.Second)
	if s.Err == nil {
		t.Fatal("expected syntax error")
	}
	if len(s.Elements) != 0 {
		t.Errorf("expected no elements, got %d", len(s.Elements))
	}
}

func TestRun_InterruptsLongRunningSource(t *testing.T) {
	start := time.Now()
	s := Run(`while (true) {}`, 50*time.Millisecond)
	if !errors.Is(s.Err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", s.Err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("interrupt took too long")
	}
}

func TestRun_OversizedParentArrayStaysUnresolved(t *testing.T) {
	for _, src := range []string{
		`board.create('point', new Array(20000000));`,
		`board.create('polygon', new Array(4294967295));`,
	} {
		start := time.Now()
		s := Run(src, 50*time.Millisecond)
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("%s took %v", src, elapsed)
		}
		if s.Err != nil {
			t.Fatalf("%s: unexpected error: %v", src, s.Err)
		}
		if len(s.Elements) != 1 || s.Elements[0].Resolved() {
			t.Errorf("%s: expected one unresolved element, got %+v", src, s.Elements)
		}
	}
}

func TestRun_ScriptSeesCoordinates(t *testing.T) {
	s := Run(`
		var A = board.create('point', [1, 2]);
		var B = board.create('point', [A.X() + 3, A.Y() + 4], {name: 'B'});
		var r = board.create('circle', [A, 2]);
		var P = board.create('intersection', [r, board.create('line', [A, B]), 0], {name: 'P'});
		board.create('text', [0, 4, function() { return 'd=' + A.Dist(B); }]);
	`, time.Second)
	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}

	b := findByName(s, "B")
	if b == nil || b.Point == nil || !near(b.Point.X, 4) || !near(b.Point.Y, 6) {
		t.Errorf("B = %+v, want (4,6)", b)
	}
	p := findByName(s, "P")
	if p == nil || p.Point == nil || !near(p.Point.Dist(Point{1, 2}), 2) {
		t.Errorf("P = %+v, want a point at distance 2 from A", p)
	}

	last := s.Elements[len(s.Elements)-1]
	if last.Text != "d=5" {
		t.Errorf("text = %q, want d=5", last.Text)
	}
}

func TestRun_UnknownTypesAreRecordedUnresolved(t *testing.T) {
	s := Run(`
		var A = board.create('point', [0, 0]);
		board.create('angle', [A, A, A]);
		board.create('functiongraph', [function(x) { return x * x; }]);
	`, time.Second)
	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}
	if len(s.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(s.Elements))
	}
	if s.Elements[1].Resolved() || s.Elements[2].Resolved() {
		t.Error("expected unknown constructions to stay unresolved")
	}
	if got := len(s.Visible()); got != 1 {
		t.Errorf("visible = %d, want 1", got)
	}
}

func TestPlot(t *testing.T) {
	s := Run(`board.create('point', [0, 0], {name: 'O'}); board.create('circle', [[0, 0], 3]);`, time.Second)
	out := s.Plot(41, 21)

	rows := strings.Split(out, "\n")
	if len(rows) != 21 {
		t.Fatalf("rows = %d, want 21", len(rows))
	}
	if !strings.Contains(rows[10], "•O") {
		t.Errorf("center row = %q, want labelled point", rows[10])
	}
	if !strings.Contains(out, "·") {
		t.Error("expected circle strokes")
	}
	if s.Plot(0, 10) != "" {
		t.Error("expected empty plot for zero width")
	}
}

func TestSVG(t *testing.T) {
	s := Run(`
		var A = board.create('point', [-1, 0], {name: 'A<1>'});
		board.create('circle', [A, 1]);
		board.create('segment', [[0, 0], [2, 2]]);
	`, time.Second)
	svg := s.SVG()

	for _, want := range []string{"<svg", `id="` + s.ID + `"`, "<circle", "<line", "A&lt;1&gt;", "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderer_Lifecycle(t *testing.T) {
	r := NewRenderer(time.Second, nil)
	if r.State() != StateEmpty || r.Surface() != nil {
		t.Fatal("expected empty renderer")
	}

	first := r.Show(`board.create('point', [0, 0]);`)
	if r.State() != StateMounted || first == nil {
		t.Fatal("expected mounted surface")
	}

	if again := r.Show(`board.create('point', [0, 0]);`); again != first {
		t.Error("same source should keep the surface")
	}

	second := r.Show(`board.create('point', [1, 1]);`)
	if second == first {
		t.Fatal("new source should mount a new surface")
	}
	if !first.Disposed() {
		t.Error("previous surface should be disposed")
	}
	if second.ID == first.ID {
		t.Error("surface ids should be unique")
	}

	r.Dispose()
	if r.State() != StateDisposed || !second.Disposed() {
		t.Error("expected disposed renderer and surface")
	}
	if r.Show(`board.create('point', [2, 2]);`) != nil {
		t.Error("disposed renderer must not mount again")
	}
}

func TestRenderer_FailureStaysMounted(t *testing.T) {
	r := NewRenderer(time.Second, nil)
	s := r.Show(`throw "bad";`)
	if s == nil || s.Err == nil {
		t.Fatal("expected mounted surface carrying the error")
	}
	if r.State() != StateMounted {
		t.Errorf("state = %v, want mounted", r.State())
	}
}

func TestRenderer_RunningSourceDoesNotBlock(t *testing.T) {
	r := NewRenderer(time.Second, nil)
	first := r.Show(`board.create('point', [0, 0]);`)

	done := make(chan *Surface)
	go func() { done <- r.Show(`while (true) {}`) }()
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	if got := r.Surface(); got != first {
		t.Error("expected the mounted surface while the new source runs")
	}
	r.Dispose()
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("Surface and Dispose waited %v on the running source", elapsed)
	}

	if s := <-done; s != nil {
		t.Error("a run finishing after Dispose must not mount")
	}
	if r.State() != StateDisposed || r.Surface() != nil {
		t.Error("expected disposed renderer")
	}
}

func TestGeometry(t *testing.T) {
	l1 := Line{A: Point{0, 0}, B: Point{1, 1}}
	l2 := Line{A: Point{0, 2}, B: Point{2, 0}}
	if p, ok := intersectLines(l1, l2); !ok || !near(p.X, 1) || !near(p.Y, 1) {
		t.Errorf("intersectLines = %v, %v", p, ok)
	}
	if _, ok := intersectLines(l1, Line{A: Point{0, 1}, B: Point{1, 2}}); ok {
		t.Error("parallel lines should not intersect")
	}

	ps, ok := intersectLineCircle(Line{A: Point{-5, 0}, B: Point{5, 0}}, Circle{Radius: 2})
	if !ok || !near(ps[0].X, -2) || !near(ps[1].X, 2) {
		t.Errorf("intersectLineCircle = %v, %v", ps, ok)
	}

	cs, ok := intersectCircles(Circle{Center: Point{-1, 0}, Radius: math.Sqrt2}, Circle{Center: Point{1, 0}, Radius: math.Sqrt2})
	if !ok || !near(cs[0].X, 0) || !near(math.Abs(cs[0].Y), 1) {
		t.Errorf("intersectCircles = %v, %v", cs, ok)
	}

	in, ok := incircle(Point{0, 0}, Point{3, 0}, Point{0, 4})
	if !ok || !near(in.Radius, 1) || !near(in.Center.X, 1) || !near(in.Center.Y, 1) {
		t.Errorf("incircle = %+v, %v", in, ok)
	}

	if _, ok := circumcircle(Point{0, 0}, Point{1, 1}, Point{2, 2}); ok {
		t.Error("collinear points have no circumcircle")
	}
}
