package diagram

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// elementKey is a hidden property linking a script object to its Element.
const elementKey = "__forgeElement"

// board records the elements a script creates and exposes a small subset
// of the JSXGraph board API to it.
type board struct {
	vm      *goja.Runtime
	surface *Surface
	objects []*goja.Object
}

func newBoard(vm *goja.Runtime, s *Surface) *board {
	return &board{vm: vm, surface: s}
}

// object builds the script-facing board.
func (b *board) object() *goja.Object {
	o := b.vm.NewObject()
	self := func(goja.FunctionCall) goja.Value { return o }

	_ = o.Set("id", b.surface.ID)
	_ = o.Set("create", b.create)
	_ = o.Set("select", b.selectByName)
	_ = o.Set("removeObject", b.remove)
	_ = o.Set("update", self)
	_ = o.Set("fullUpdate", self)
	_ = o.Set("suspendUpdate", self)
	_ = o.Set("unsuspendUpdate", self)
	_ = o.Set("setBoundingBox", self)
	_ = o.Set("on", self)
	_ = o.Set("off", self)
	return o
}

// jxg builds the script-facing JXG namespace.
func (b *board) jxg() *goja.Object {
	o := b.vm.NewObject()
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }

	js := b.vm.NewObject()
	_ = js.Set("freeBoard", noop)
	_ = o.Set("JSXGraph", js)
	_ = o.Set("COORDS_BY_USER", 1)
	_ = o.Set("COORDS_BY_SCREEN", 2)
	_ = o.Set("Options", b.vm.NewObject())
	return o
}

func (b *board) create(call goja.FunctionCall) goja.Value {
	typ := strings.ToLower(strings.TrimSpace(call.Argument(0).String()))
	parents := b.list(call.Argument(1))

	el := &Element{
		ID:      fmt.Sprintf("%s_%d", b.surface.ID, len(b.surface.Elements)),
		Type:    typ,
		Visible: true,
	}
	b.applyAttrs(el, call.Argument(2))
	b.resolve(el, parents)

	b.surface.Elements = append(b.surface.Elements, el)
	return b.wrap(el, len(b.surface.Elements)-1)
}

func (b *board) selectByName(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	for i, el := range b.surface.Elements {
		if el.Name == name || el.ID == name {
			return b.objects[i]
		}
	}
	return goja.Undefined()
}

func (b *board) remove(call goja.FunctionCall) goja.Value {
	if el := b.element(call.Argument(0)); el != nil {
		el.Visible = false
	}
	return goja.Undefined()
}

// wrap returns the script object for el.
func (b *board) wrap(el *Element, idx int) *goja.Object {
	o := b.vm.NewObject()
	_ = o.DefineDataProperty(elementKey, b.vm.ToValue(idx), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	_ = o.Set("id", el.ID)
	_ = o.Set("name", el.Name)
	_ = o.Set("elType", el.Type)

	coord := func(pick func(Point) float64) func(goja.FunctionCall) goja.Value {
		return func(goja.FunctionCall) goja.Value {
			if p, ok := el.anchor(); ok {
				return b.vm.ToValue(pick(p))
			}
			return b.vm.ToValue(math.NaN())
		}
	}
	_ = o.Set("X", coord(func(p Point) float64 { return p.X }))
	_ = o.Set("Y", coord(func(p Point) float64 { return p.Y }))
	_ = o.Set("Dist", func(call goja.FunctionCall) goja.Value {
		p, ok1 := el.anchor()
		q, ok2 := b.point(call.Argument(0))
		if !ok1 || !ok2 {
			return b.vm.ToValue(math.NaN())
		}
		return b.vm.ToValue(p.Dist(q))
	})
	_ = o.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		b.applyAttrs(el, call.Argument(0))
		_ = o.Set("name", el.Name)
		return o
	})
	_ = o.Set("hide", func(goja.FunctionCall) goja.Value {
		el.Visible = false
		return o
	})
	_ = o.Set("show", func(goja.FunctionCall) goja.Value {
		el.Visible = true
		return o
	})
	_ = o.Set("on", func(goja.FunctionCall) goja.Value { return o })

	b.objects = append(b.objects, o)
	return o
}

func (b *board) applyAttrs(el *Element, v goja.Value) {
	if isAbsent(v) {
		return
	}
	attrs, ok := v.Export().(map[string]any)
	if !ok {
		return
	}
	if name, ok := attrs["name"].(string); ok {
		el.Name = name
	}
	if vis, ok := attrs["visible"].(bool); ok {
		el.Visible = vis
	}
	for _, key := range []string{"strokeColor", "color", "fillColor"} {
		if c, ok := attrs[key].(string); ok && c != "" {
			el.Color = c
			break
		}
	}
}

// resolve computes el's geometry from its parents where the construction
// is one the renderer understands. Anything else stays unresolved.
func (b *board) resolve(el *Element, parents []goja.Value) {
	switch el.Type {
	case "point", "glider":
		b.resolvePoint(el, parents)

	case "midpoint":
		if len(parents) >= 2 {
			if p, q, ok := b.twoPoints(parents); ok {
				el.setPoint(midpoint(p, q))
			}
		} else if l, ok := b.line(first(parents)); ok {
			el.setPoint(midpoint(l.A, l.B))
		}

	case "line", "segment", "arrow":
		if p, q, ok := b.twoPoints(parents); ok {
			el.setLine(p, q, el.Type != "line")
		}

	case "circle":
		b.resolveCircle(el, parents)

	case "circumcircle", "circumcenter", "incircle", "incenter":
		if len(parents) < 3 {
			return
		}
		pa, ok1 := b.point(parents[0])
		pb, ok2 := b.point(parents[1])
		pc, ok3 := b.point(parents[2])
		if !ok1 || !ok2 || !ok3 {
			return
		}
		fn := circumcircle
		if strings.HasPrefix(el.Type, "in") {
			fn = incircle
		}
		c, ok := fn(pa, pb, pc)
		if !ok {
			return
		}
		if strings.HasSuffix(el.Type, "center") {
			el.setPoint(c.Center)
		} else {
			el.setCircle(c)
		}

	case "intersection", "otherintersection":
		b.resolveIntersection(el, parents)

	case "perpendicular", "parallel":
		l, p, ok := b.lineAndPoint(parents)
		if !ok {
			return
		}
		d := lineDir(l)
		if el.Type == "perpendicular" {
			d = perp(d)
		}
		el.setLine(p, p.add(d), false)

	case "perpendicularpoint", "orthogonalprojection":
		if l, p, ok := b.lineAndPoint(parents); ok {
			el.setPoint(foot(p, l))
		}

	case "reflection":
		if l, p, ok := b.lineAndPoint(parents); ok {
			f := foot(p, l)
			el.setPoint(f.add(f.sub(p)))
		}

	case "polygon":
		for _, v := range parents {
			p, ok := b.point(v)
			if !ok {
				el.Vertices = nil
				return
			}
			el.Vertices = append(el.Vertices, p)
		}

	case "text":
		if len(parents) >= 3 {
			x, ok1 := b.number(parents[0])
			y, ok2 := b.number(parents[1])
			if ok1 && ok2 {
				el.setPoint(Point{x, y})
			}
			el.Text = b.text(parents[2])
		}
	}
}

func (b *board) resolvePoint(el *Element, parents []goja.Value) {
	if len(parents) >= 2 {
		x, ok1 := b.number(parents[0])
		y, ok2 := b.number(parents[1])
		if ok1 && ok2 {
			el.setPoint(Point{x, y})
			return
		}
	}
	if el.Type == "glider" {
		if host := b.element(last(parents)); host != nil {
			if p, ok := host.anchor(); ok {
				el.setPoint(p)
			}
		}
	}
}

func (b *board) resolveCircle(el *Element, parents []goja.Value) {
	switch len(parents) {
	case 2:
		center, ok := b.point(parents[0])
		if !ok {
			return
		}
		if r, ok := b.number(parents[1]); ok {
			el.setCircle(circleOf(center, r))
		} else if on, ok := b.point(parents[1]); ok {
			el.setCircle(circleOf(center, center.Dist(on)))
		} else if seg := b.element(parents[1]); seg != nil {
			if r, ok := seg.segmentLength(); ok {
				el.setCircle(circleOf(center, r))
			}
		}
	case 3:
		pa, ok1 := b.point(parents[0])
		pb, ok2 := b.point(parents[1])
		pc, ok3 := b.point(parents[2])
		if ok1 && ok2 && ok3 {
			if c, ok := circumcircle(pa, pb, pc); ok {
				el.setCircle(c)
			}
		}
	}
}

func (b *board) resolveIntersection(el *Element, parents []goja.Value) {
	if len(parents) < 2 {
		return
	}
	e1, e2 := b.element(parents[0]), b.element(parents[1])
	if e1 == nil || e2 == nil {
		return
	}

	var cands []Point
	switch {
	case e1.Line != nil && e2.Line != nil:
		if p, ok := intersectLines(*e1.Line, *e2.Line); ok {
			cands = []Point{p}
		}
	case e1.Line != nil && e2.Circle != nil:
		if ps, ok := intersectLineCircle(*e1.Line, *e2.Circle); ok {
			cands = ps[:]
		}
	case e1.Circle != nil && e2.Line != nil:
		if ps, ok := intersectLineCircle(*e2.Line, *e1.Circle); ok {
			cands = ps[:]
		}
	case e1.Circle != nil && e2.Circle != nil:
		if ps, ok := intersectCircles(*e1.Circle, *e2.Circle); ok {
			cands = ps[:]
		}
	}
	if len(cands) == 0 {
		return
	}

	if el.Type == "otherintersection" {
		if len(parents) >= 3 {
			if known, ok := b.point(parents[2]); ok && len(cands) == 2 {
				if cands[0].Dist(known) < cands[1].Dist(known) {
					el.setPoint(cands[1])
				} else {
					el.setPoint(cands[0])
				}
				return
			}
		}
		el.setPoint(cands[len(cands)-1])
		return
	}

	i := 0
	if len(parents) >= 3 {
		if n, ok := b.number(parents[2]); ok && int(n) >= 0 && int(n) < len(cands) {
			i = int(n)
		}
	}
	el.setPoint(cands[i])
}

// twoPoints reads the first two parents as points.
func (b *board) twoPoints(parents []goja.Value) (Point, Point, bool) {
	if len(parents) < 2 {
		return Point{}, Point{}, false
	}
	p, ok1 := b.point(parents[0])
	q, ok2 := b.point(parents[1])
	return p, q, ok1 && ok2
}

// lineAndPoint accepts (line, point) or (point, line).
func (b *board) lineAndPoint(parents []goja.Value) (Line, Point, bool) {
	if len(parents) < 2 {
		return Line{}, Point{}, false
	}
	if l, ok := b.line(parents[0]); ok {
		p, ok := b.point(parents[1])
		return l, p, ok
	}
	if l, ok := b.line(parents[1]); ok {
		p, ok := b.point(parents[0])
		return l, p, ok
	}
	return Line{}, Point{}, false
}

func (b *board) point(v goja.Value) (Point, bool) {
	if el := b.element(v); el != nil {
		if el.Point != nil {
			return *el.Point, true
		}
		return Point{}, false
	}
	coords := b.list(v)
	if len(coords) != 2 {
		return Point{}, false
	}
	x, ok1 := b.number(coords[0])
	y, ok2 := b.number(coords[1])
	return Point{x, y}, ok1 && ok2
}

func (b *board) line(v goja.Value) (Line, bool) {
	if el := b.element(v); el != nil && el.Line != nil {
		return *el.Line, true
	}
	return Line{}, false
}

// number reads a numeric parent. Functions are evaluated once.
func (b *board) number(v goja.Value) (float64, bool) {
	if isAbsent(v) {
		return 0, false
	}
	if fn, ok := goja.AssertFunction(v); ok {
		out, err := fn(goja.Undefined())
		if err != nil {
			return 0, false
		}
		v = out
	}
	switch n := v.Export().(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	}
	return 0, false
}

func (b *board) text(v goja.Value) string {
	if fn, ok := goja.AssertFunction(v); ok {
		if out, err := fn(goja.Undefined()); err == nil {
			return out.String()
		}
		return ""
	}
	return v.String()
}

// element returns the Element behind a script object, if any.
func (b *board) element(v goja.Value) *Element {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return nil
	}
	idx, ok := obj.Get(elementKey).Export().(int64)
	if !ok || idx < 0 || int(idx) >= len(b.surface.Elements) {
		return nil
	}
	return b.surface.Elements[idx]
}

// maxParents bounds the array arguments read on the Go side, where the
// interrupt timer cannot stop a loop.
const maxParents = 1024

// list reads an array argument. A non-array value is a one-element list.
// Arrays longer than maxParents read as no parents at all.
func (b *board) list(v goja.Value) []goja.Value {
	if isAbsent(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		return []goja.Value{v}
	}
	n := obj.Get("length").ToInteger()
	if n <= 0 || n > maxParents {
		return nil
	}
	out := make([]goja.Value, 0, n)
	for i := int64(0); i < n; i++ {
		out = append(out, obj.Get(strconv.FormatInt(i, 10)))
	}
	return out
}

func isAbsent(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func first(vs []goja.Value) goja.Value {
	if len(vs) == 0 {
		return goja.Undefined()
	}
	return vs[0]
}

func last(vs []goja.Value) goja.Value {
	if len(vs) == 0 {
		return goja.Undefined()
	}
	return vs[len(vs)-1]
}
