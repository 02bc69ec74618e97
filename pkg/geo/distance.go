package geo

import "math"

// PointSegmentDistance returns the distance from p to the segment a-b.
func PointSegmentDistance(p, a, b Point2D) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < 1e-12 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(d)/lenSq))
	return p.Distance(a.Lerp(b, t))
}

// segmentsIntersect reports whether the closed segments p1-p2 and p3-p4 share
// at least one point.
func segmentsIntersect(p1, p2, p3, p4 Point2D) bool {
	d1 := orient(p3, p4, p1)
	d2 := orient(p3, p4, p2)
	d3 := orient(p1, p2, p3)
	d4 := orient(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	const eps = 1e-9
	return (math.Abs(d1) < eps && PointSegmentDistance(p1, p3, p4) < eps) ||
		(math.Abs(d2) < eps && PointSegmentDistance(p2, p3, p4) < eps) ||
		(math.Abs(d3) < eps && PointSegmentDistance(p3, p1, p2) < eps) ||
		(math.Abs(d4) < eps && PointSegmentDistance(p4, p1, p2) < eps)
}

func orient(a, b, c Point2D) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// RingDistance returns the smallest distance between the boundaries of two
// rings, or zero when one ring contains a vertex of the other or their edges
// cross.
func RingDistance(a, b Polygon) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return math.Inf(1)
	}
	if b.Contains(a.Vertices[0]) || a.Contains(b.Vertices[0]) {
		return 0
	}
	best := math.Inf(1)
	for i := range a.Vertices {
		a1, a2 := a.Edge(i)
		for j := range b.Vertices {
			b1, b2 := b.Edge(j)
			if segmentsIntersect(a1, a2, b1, b2) {
				return 0
			}
			best = math.Min(best, PointSegmentDistance(a1, b1, b2))
			best = math.Min(best, PointSegmentDistance(b1, a1, a2))
		}
	}
	return best
}

// Distance returns the smallest boundary distance between any outer ring of
// r and any outer ring of o. Overlapping regions are at distance zero.
func Distance(r, o Region) float64 {
	best := math.Inf(1)
	for _, p := range r.Parts {
		for _, q := range o.Parts {
			best = math.Min(best, RingDistance(p.Outer, q.Outer))
			if best == 0 {
				return 0
			}
		}
	}
	return best
}
