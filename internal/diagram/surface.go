package diagram

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/google/uuid"
)

// DefaultBoundingBox is [left, top, right, bottom] in user coordinates.
var DefaultBoundingBox = [4]float64{-5, 5, 5, -5}

// DefaultTimeout bounds how long a diagram source may run.
const DefaultTimeout = 2 * time.Second

// ErrTimeout is recorded when a source is interrupted.
var ErrTimeout = errors.New("diagram source timed out")

// Surface is one mounted drawing area and the elements its source created.
type Surface struct {
	ID          string
	BoundingBox [4]float64
	Elements    []*Element
	// Err holds the failure that stopped the source, if any.
	Err error

	disposed bool
}

func newSurface() *Surface {
	return &Surface{
		ID:          "jxgbox-" + uuid.NewString()[:8],
		BoundingBox: DefaultBoundingBox,
	}
}

// Disposed reports whether the surface has been torn down.
func (s *Surface) Disposed() bool {
	return s.disposed
}

func (s *Surface) dispose() {
	s.disposed = true
	s.Elements = nil
}

// Run executes source against a fresh surface and returns it. Failures
// never propagate: they end up in Surface.Err, and the elements created
// before the failure are kept.
func Run(source string, timeout time.Duration) *Surface {
	s := newSurface()
	s.Err = s.execute(source, timeout)
	return s
}

// execute runs source as the body of function(board, JXG) in its own
// runtime.
func (s *Surface) execute(source string, timeout time.Duration) (err error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	vm := goja.New()
	b := newBoard(vm, s)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diagram source panicked: %v", r)
		}
	}()

	timer := time.AfterFunc(timeout, func() { vm.Interrupt(ErrTimeout) })
	defer timer.Stop()

	if err := vm.Set("__source", source); err != nil {
		return err
	}
	fnVal, err := vm.RunString(`new Function("board", "JXG", __source)`)
	if err != nil {
		return scriptError(err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return errors.New("diagram source did not compile to a function")
	}
	if _, err := fn(goja.Undefined(), b.object(), b.jxg()); err != nil {
		return scriptError(err)
	}
	return nil
}

func scriptError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if v, ok := interrupted.Value().(error); ok {
			return v
		}
		return ErrTimeout
	}
	return fmt.Errorf("diagram source: %w", err)
}

// Visible returns the elements that should be drawn.
func (s *Surface) Visible() []*Element {
	var out []*Element
	for _, el := range s.Elements {
		if el.Visible && el.Resolved() {
			out = append(out, el)
		}
	}
	return out
}

// viewport maps user coordinates to a w×h raster.
type viewport struct {
	left, top, right, bottom float64
	w, h                     float64
}

func (s *Surface) viewport(w, h int) viewport {
	bb := s.BoundingBox
	return viewport{left: bb[0], top: bb[1], right: bb[2], bottom: bb[3], w: float64(w), h: float64(h)}
}

func (v viewport) project(p Point) (float64, float64) {
	x := (p.X - v.left) / (v.right - v.left) * v.w
	y := (v.top - p.Y) / (v.top - v.bottom) * v.h
	return x, y
}

func (v viewport) contains(p Point) bool {
	return p.X >= v.left && p.X <= v.right && p.Y >= v.bottom && p.Y <= v.top
}

// span returns the parameter range that covers the viewport for an
// unbounded line.
func (v viewport) span(l Line) (float64, float64) {
	if l.Bounded {
		return 0, 1
	}
	diag := math.Hypot(v.right-v.left, v.top-v.bottom)
	k := (diag + l.A.Dist(Point{(v.left + v.right) / 2, (v.top + v.bottom) / 2})) / lineDir(l).Dist(Point{})
	return -k, k
}

// Plot rasterizes the visible elements onto a w×h character canvas.
func (s *Surface) Plot(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	canvas := make([][]rune, h)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", w))
	}
	vp := s.viewport(w-1, h-1)

	set := func(p Point, r rune) (int, int, bool) {
		if !vp.contains(p) {
			return 0, 0, false
		}
		x, y := vp.project(p)
		col, row := int(math.Round(x)), int(math.Round(y))
		if row < 0 || row >= h || col < 0 || col >= w {
			return 0, 0, false
		}
		canvas[row][col] = r
		return col, row, true
	}
	label := func(col, row int, text string) {
		for i, r := range []rune(text) {
			if c := col + 1 + i; c < w && canvas[row][c] == ' ' {
				canvas[row][c] = r
			}
		}
	}
	stroke := func(from, to Point, steps int) {
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			set(from.add(to.sub(from).scale(t)), '·')
		}
	}
	steps := 4 * (w + h)

	for _, el := range s.Visible() {
		switch {
		case el.Circle != nil:
			for i := 0; i <= steps; i++ {
				a := 2 * math.Pi * float64(i) / float64(steps)
				set(el.Circle.Center.add(Point{math.Cos(a), math.Sin(a)}.scale(el.Circle.Radius)), '·')
			}
		case el.Line != nil:
			t0, t1 := vp.span(*el.Line)
			d := lineDir(*el.Line)
			stroke(el.Line.A.add(d.scale(t0)), el.Line.A.add(d.scale(t1)), steps)
		case len(el.Vertices) > 1:
			for i, p := range el.Vertices {
				stroke(p, el.Vertices[(i+1)%len(el.Vertices)], steps)
			}
		}
	}
	for _, el := range s.Visible() {
		if el.Point == nil {
			continue
		}
		if el.Text != "" {
			if col, row, ok := set(*el.Point, ' '); ok {
				label(col-1, row, el.Text)
			}
			continue
		}
		if col, row, ok := set(*el.Point, '•'); ok && el.Name != "" {
			label(col, row, el.Name)
		}
	}

	lines := make([]string, h)
	for i, row := range canvas {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

// SVG renders the visible elements as a standalone 400×400 image.
func (s *Surface) SVG() string {
	const size = 400
	vp := s.viewport(size, size)
	scale := size / (vp.right - vp.left)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		html.EscapeString(s.ID), size, size, size, size)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	color := func(el *Element, def string) string {
		if el.Color != "" {
			return html.EscapeString(el.Color)
		}
		return def
	}

	for _, el := range s.Visible() {
		switch {
		case el.Circle != nil:
			cx, cy := vp.project(el.Circle.Center)
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s"/>`+"\n",
				cx, cy, el.Circle.Radius*scale, color(el, "#2563eb"))
		case el.Line != nil:
			t0, t1 := vp.span(*el.Line)
			d := lineDir(*el.Line)
			x1, y1 := vp.project(el.Line.A.add(d.scale(t0)))
			x2, y2 := vp.project(el.Line.A.add(d.scale(t1)))
			fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
				x1, y1, x2, y2, color(el, "#334155"))
		case len(el.Vertices) > 0:
			pts := make([]string, len(el.Vertices))
			for i, p := range el.Vertices {
				x, y := vp.project(p)
				pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
			}
			fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.15" stroke="%s"/>`+"\n",
				strings.Join(pts, " "), color(el, "#f59e0b"), color(el, "#f59e0b"))
		}
	}
	for _, el := range s.Visible() {
		if el.Point == nil {
			continue
		}
		x, y := vp.project(*el.Point)
		if el.Text != "" {
			fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-size="14">%s</text>`+"\n", x, y, html.EscapeString(el.Text))
			continue
		}
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="3" fill="%s"/>`+"\n", x, y, color(el, "#dc2626"))
		if el.Name != "" {
			fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-size="14">%s</text>`+"\n", x+5, y-5, html.EscapeString(el.Name))
		}
	}
	b.WriteString("</svg>\n")
	return b.String()
}
