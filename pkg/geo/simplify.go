package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify reduces a ring with Douglas-Peucker at the given tolerance and
// then drops collinear leftovers. Rings that would degenerate are returned
// cleaned but otherwise untouched.
func Simplify(p Polygon, tolerance float64) Polygon {
	if len(p.Vertices) < 4 || tolerance <= 0 {
		return p.Clean(1e-9)
	}
	ring := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	ring = append(ring, ring[0])

	simplified, ok := simplify.DouglasPeucker(tolerance).Simplify(ring).(orb.Ring)
	if !ok || len(simplified) < 4 {
		return p.Clean(1e-9)
	}
	out := make([]Point2D, 0, len(simplified))
	for _, pt := range simplified {
		out = append(out, Pt(pt[0], pt[1]))
	}
	res := Polygon{Vertices: out}.Clean(1e-9)
	if res.Len() < 3 || res.Area() < 0.5*p.Area() {
		return p.Clean(1e-9)
	}
	if p.IsCounterClockwise() != res.IsCounterClockwise() {
		res = res.Reverse()
	}
	return res
}
