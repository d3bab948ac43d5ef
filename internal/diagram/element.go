package diagram

// Element is one object created on a board. Geometry fields are set when
// the element's position could be resolved from its parents.
type Element struct {
	ID      string
	Type    string
	Name    string
	Visible bool
	Color   string

	Point    *Point
	Line     *Line
	Circle   *Circle
	Vertices []Point
	Text     string
}

// Resolved reports whether the element has a drawable position.
func (e *Element) Resolved() bool {
	return e.Point != nil || e.Line != nil || e.Circle != nil || len(e.Vertices) > 0
}

// anchor returns a representative position, used for gliders and labels.
func (e *Element) anchor() (Point, bool) {
	switch {
	case e.Point != nil:
		return *e.Point, true
	case e.Line != nil:
		return e.Line.A, true
	case e.Circle != nil:
		return e.Circle.Center.add(Point{0, e.Circle.Radius}), true
	case len(e.Vertices) > 0:
		return e.Vertices[0], true
	}
	return Point{}, false
}

func (e *Element) setPoint(p Point) {
	if p.finite() {
		e.Point = &p
	}
}

func (e *Element) setLine(a, b Point, bounded bool) {
	if l, ok := newLine(a, b); ok && a.finite() && b.finite() {
		l.Bounded = bounded
		e.Line = &l
	}
}

func (e *Element) setCircle(c Circle) {
	if c.Center.finite() && c.Radius > 0 && !nearZero(c.Radius) {
		e.Circle = &c
	}
}

// segmentLength returns the length of a bounded line element.
func (e *Element) segmentLength() (float64, bool) {
	if e.Line == nil {
		return 0, false
	}
	return e.Line.A.Dist(e.Line.B), true
}
