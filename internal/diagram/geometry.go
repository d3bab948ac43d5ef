package diagram

import "math"

// Point is a position in user coordinates.
type Point struct {
	X, Y float64
}

func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) scale(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) finite() bool { return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) }
func midpoint(a, b Point) Point { return a.add(b).scale(0.5) }
func perp(v Point) Point { return Point{-v.Y, v.X} }
func nearZero(v float64) bool { return math.Abs(v) < 1e-12 }
func lineDir(l Line) Point { return l.B.sub(l.A) }
func newLine(a, b Point) (Line, bool) { return Line{A: a, B: b}, a.Dist(b) > 1e-12 }
func circleOf(c Point, r float64) Circle { return Circle{Center: c, Radius: r} }

// Line is the line through A and B. Segments use the same shape with
// Bounded set.
type Line struct {
	A, B    Point
	Bounded bool
}

// Circle is a center and a radius.
type Circle struct {
	Center Point
	Radius float64
}

// intersectLines returns the crossing point of two lines.
func intersectLines(l, m Line) (Point, bool) {
	d1, d2 := lineDir(l), lineDir(m)
	den := d1.cross(d2)
	if nearZero(den) {
		return Point{}, false
	}
	t := m.A.sub(l.A).cross(d2) / den
	return l.A.add(d1.scale(t)), true
}

// intersectLineCircle returns the crossings ordered along the line from A
// to B. Tangency yields the same point twice.
func intersectLineCircle(l Line, c Circle) ([2]Point, bool) {
	d := lineDir(l)
	f := l.A.sub(c.Center)
	a := d.dot(d)
	b := 2 * f.dot(d)
	cc := f.dot(f) - c.Radius*c.Radius
	disc := b*b - 4*a*cc
	if nearZero(a) || disc < -1e-12 {
		return [2]Point{}, false
	}
	disc = math.Sqrt(math.Max(disc, 0))
	t1 := (-b - disc) / (2 * a)
	t2 := (-b + disc) / (2 * a)
	return [2]Point{l.A.add(d.scale(t1)), l.A.add(d.scale(t2))}, true
}

// intersectCircles returns the two crossings of distinct circles.
func intersectCircles(c1, c2 Circle) ([2]Point, bool) {
	d := c1.Center.Dist(c2.Center)
	if nearZero(d) || d > c1.Radius+c2.Radius+1e-12 || d < math.Abs(c1.Radius-c2.Radius)-1e-12 {
		return [2]Point{}, false
	}
	a := (c1.Radius*c1.Radius - c2.Radius*c2.Radius + d*d) / (2 * d)
	h := math.Sqrt(math.Max(c1.Radius*c1.Radius-a*a, 0))
	u := c2.Center.sub(c1.Center).scale(1 / d)
	base := c1.Center.add(u.scale(a))
	off := perp(u).scale(h)
	return [2]Point{base.add(off), base.sub(off)}, true
}

// circumcircle returns the circle through three non-collinear points.
func circumcircle(a, b, c Point) (Circle, bool) {
	bisAB, ok1 := newLine(midpoint(a, b), midpoint(a, b).add(perp(b.sub(a))))
	bisBC, ok2 := newLine(midpoint(b, c), midpoint(b, c).add(perp(c.sub(b))))
	if !ok1 || !ok2 {
		return Circle{}, false
	}
	o, ok := intersectLines(bisAB, bisBC)
	if !ok {
		return Circle{}, false
	}
	return circleOf(o, o.Dist(a)), true
}

// incircle returns the inscribed circle of triangle abc.
func incircle(a, b, c Point) (Circle, bool) {
	la, lb, lc := b.Dist(c), a.Dist(c), a.Dist(b)
	p := la + lb + lc
	if nearZero(p) {
		return Circle{}, false
	}
	center := a.scale(la).add(b.scale(lb)).add(c.scale(lc)).scale(1 / p)
	area := math.Abs(b.sub(a).cross(c.sub(a))) / 2
	if nearZero(area) {
		return Circle{}, false
	}
	return circleOf(center, 2*area/p), true
}

// foot returns the orthogonal projection of p onto l.
func foot(p Point, l Line) Point {
	d := lineDir(l)
	t := p.sub(l.A).dot(d) / d.dot(d)
	return l.A.add(d.scale(t))
}
