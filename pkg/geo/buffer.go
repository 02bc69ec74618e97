package geo

import "math"

// arcSegments is the number of chords used per half circle when rounding
// buffer corners.
const arcSegments = 8

// Buffer offsets the region boundary by d meters: outward for d > 0, inward
// for d < 0. Convex parts are offset directly. Other parts are combined with
// the band of stadiums (capsules) around their edges, the Minkowski sum of
// the boundary with a disc of radius |d|: subtracted to erode, added to
// dilate.
func Buffer(r Region, d float64) Region {
	if d == 0 || r.IsEmpty() {
		return r
	}
	if d < 0 {
		var out Region
		for _, p := range r.Parts {
			if len(p.Holes) == 0 && p.Outer.IsConvex() {
				s := shrinkConvex(p.Outer.EnsureCCW(), -d)
				if s.Area() > sliverArea {
					out.Parts = append(out.Parts, Part{Outer: s.EnsureCCW()})
				}
				continue
			}
			out = Merge(out, erode(p, -d))
		}
		return out
	}
	grown := make([]Region, 0, len(r.Parts))
	for _, p := range r.Parts {
		if len(p.Holes) == 0 && p.Outer.IsConvex() {
			grown = append(grown, RegionOf(growConvex(p.Outer.EnsureCCW(), d)))
			continue
		}
		grown = append(grown, dilate(p, d))
	}
	return UnionAll(grown...)
}

// shrinkConvex intersects the inward half-planes of every edge offset by d.
func shrinkConvex(ring Polygon, d float64) Polygon {
	out := ring
	for i := range ring.Vertices {
		a, b := ring.Edge(i)
		if a.Distance(b) < 1e-12 {
			continue
		}
		n := b.Sub(a).Normalize().Perp().Scale(d)
		out = ClipHalfPlane(out, a.Add(n), b.Add(n))
		if out.IsEmpty() {
			return Polygon{}
		}
	}
	return out
}

// growConvex offsets a counterclockwise convex ring outward with round joins.
func growConvex(ring Polygon, d float64) Polygon {
	n := len(ring.Vertices)
	pts := make([]Point2D, 0, n*(arcSegments+1))
	for i := 0; i < n; i++ {
		prev := ring.Vertices[(i+n-1)%n]
		cur := ring.Vertices[i]
		next := ring.Vertices[(i+1)%n]
		in := cur.Sub(prev).Normalize()
		out := next.Sub(cur).Normalize()
		start := math.Atan2(-in.X, in.Y) // outward normal of the incoming edge
		sweep := math.Atan2(in.Cross(out), in.Dot(out))
		if sweep < 1e-9 {
			pts = append(pts, cur.Add(Direction(start).Scale(d)))
			continue
		}
		steps := int(math.Ceil(sweep / (math.Pi / arcSegments)))
		for k := 0; k <= steps; k++ {
			a := start + sweep*float64(k)/float64(steps)
			pts = append(pts, cur.Add(Direction(a).Scale(d)))
		}
	}
	return Polygon{Vertices: pts}.Clean(1e-9)
}

// stadium returns the counterclockwise capsule of radius d around segment
// a-b, with its cap vertices turned by phase (a fraction of one chord step). Both straight sides stay parallel to a-b at
// d·cos(phase·π/segments).
func stadium(a, b Point2D, d float64, segments int, phase float64) Polygon {
	u := b.Sub(a).Normalize()
	if u.Length() == 0 {
		return ApproximateCircle(a, d, 2*segments)
	}
	n := u.Perp()
	step := math.Pi / float64(segments)
	pts := make([]Point2D, 0, 2*(segments+1))
	capB := n.Scale(-1).Angle()
	for k := 0; k <= segments; k++ {
		pts = append(pts, b.Add(Direction(capB+step*(float64(k)+phase)).Scale(d)))
	}
	capA := n.Angle()
	for k := 0; k <= segments; k++ {
		pts = append(pts, a.Add(Direction(capA+step*(float64(k)+phase)).Scale(d)))
	}
	return Polygon{Vertices: pts}
}

// edgeBand unions the capsules around every edge of every ring of p. Each
// capsule gets its own cap phase so that no two capsules share a vertex or a
// collinear side, and no capsule vertex falls on a ring edge. Every ring edge
// lies strictly inside the band, so the final boolean against p never meets a
// touching edge.
func edgeBand(p Part, d float64) Region {
	var stadiums []Region
	k := 0
	for _, ring := range p.Rings() {
		ring = ring.Clean(1e-9)
		for i := range ring.Vertices {
			a, b := ring.Edge(i)
			stadiums = append(stadiums, RegionOf(stadium(a, b, d, arcSegments, capPhase(k))))
			k++
		}
	}
	return UnionAll(stadiums...)
}

// capPhase spreads phases over [0.05, 0.2) along the golden-ratio sequence.
// The range keeps the side offset within 0.4% of d.
func capPhase(k int) float64 {
	_, f := math.Modf(float64(k) * 0.6180339887498949)
	return 0.05 + 0.15*f
}

func erode(p Part, d float64) Region {
	return Region{Parts: []Part{p}}.Difference(edgeBand(p, d)).DropSmallerThan(sliverArea)
}

func dilate(p Part, d float64) Region {
	return Region{Parts: []Part{p}}.Union(edgeBand(p, d))
}
