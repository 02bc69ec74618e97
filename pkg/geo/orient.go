package geo

import (
	"math"
	"sort"
)

// OrientedRect is a rectangle in a local frame: U is the unit running axis,
// V = U.Perp(), and the rectangle spans [MinU, MaxU] × [MinV, MaxV] measured
// from Origin.
type OrientedRect struct {
	Origin     Point2D `json:"origin"`
	U          Point2D `json:"u"`
	MinU, MaxU float64
	MinV, MaxV float64
}

// NewOrientedRect returns the rectangle spanning [0, length] along the
// direction from start towards toward, and [0, depth] to its left.
func NewOrientedRect(start, toward Point2D, length, depth float64) OrientedRect {
	return OrientedRect{
		Origin: start,
		U:      toward.Sub(start).Normalize(),
		MaxU:   length,
		MaxV:   depth,
	}
}

// V returns the unit axis perpendicular to U.
func (o OrientedRect) V() Point2D {
	return o.U.Perp()
}

// At maps local (u, v) coordinates to the plane.
func (o OrientedRect) At(u, v float64) Point2D {
	return o.Origin.Add(o.U.Scale(u)).Add(o.V().Scale(v))
}

// Local maps a plane point to local (u, v) coordinates.
func (o OrientedRect) Local(p Point2D) (float64, float64) {
	rel := p.Sub(o.Origin)
	return rel.Dot(o.U), rel.Dot(o.V())
}

// Length returns the extent along U.
func (o OrientedRect) Length() float64 {
	return o.MaxU - o.MinU
}

// Depth returns the extent along V.
func (o OrientedRect) Depth() float64 {
	return o.MaxV - o.MinV
}

// Area returns Length × Depth.
func (o OrientedRect) Area() float64 {
	return o.Length() * o.Depth()
}

// Center returns the rectangle center.
func (o OrientedRect) Center() Point2D {
	return o.At((o.MinU+o.MaxU)/2, (o.MinV+o.MaxV)/2)
}

// Polygon returns the rectangle as a counterclockwise ring.
func (o OrientedRect) Polygon() Polygon {
	return NewPolygon(
		o.At(o.MinU, o.MinV),
		o.At(o.MaxU, o.MinV),
		o.At(o.MaxU, o.MaxV),
		o.At(o.MinU, o.MaxV),
	)
}

// Region returns the rectangle as a region.
func (o OrientedRect) Region() Region {
	return RegionOf(o.Polygon())
}

// Expand grows the rectangle by d on every side. Negative d shrinks it.
func (o OrientedRect) Expand(d float64) OrientedRect {
	o.MinU -= d
	o.MaxU += d
	o.MinV -= d
	o.MaxV += d
	return o
}

// Extents returns the tightest rectangle in the frame (origin, u) that holds
// every point.
func Extents(pts []Point2D, origin, u Point2D) OrientedRect {
	o := OrientedRect{Origin: origin, U: u.Normalize()}
	if len(pts) == 0 {
		return o
	}
	o.MinU, o.MinV = math.Inf(1), math.Inf(1)
	o.MaxU, o.MaxV = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		lu, lv := o.Local(p)
		o.MinU = math.Min(o.MinU, lu)
		o.MaxU = math.Max(o.MaxU, lu)
		o.MinV = math.Min(o.MinV, lv)
		o.MaxV = math.Max(o.MaxV, lv)
	}
	return o
}

// MinAreaRect returns the minimum-area enclosing rectangle of the region.
// One side of that rectangle is always collinear with a convex hull edge, so
// only hull edge directions are tried. U runs along the longer side.
func MinAreaRect(r Region) OrientedRect {
	hull := ConvexHull(r.Vertices())
	if hull.IsEmpty() {
		return OrientedRect{U: Pt(1, 0)}
	}
	origin := hull.Centroid()
	best := OrientedRect{}
	bestArea := math.Inf(1)
	for i := range hull.Vertices {
		a, b := hull.Edge(i)
		if a.Distance(b) < 1e-9 {
			continue
		}
		o := Extents(hull.Vertices, origin, b.Sub(a))
		if area := o.Area(); area < bestArea-1e-9 {
			best, bestArea = o, area
		}
	}
	if best.Depth() > best.Length() {
		best = Extents(hull.Vertices, origin, best.V())
	}
	return best
}

// ConvexHull returns the counterclockwise convex hull of the points
// (Andrew's monotone chain).
func ConvexHull(pts []Point2D) Polygon {
	if len(pts) < 3 {
		return Polygon{}
	}
	sorted := make([]Point2D, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	hull := make([]Point2D, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && orient(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && orient(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: hull}
}

// SidesFromAreaPerimeter recovers the two side lengths of the rectangle with
// the given area and perimeter, the roots of x² − (P/2)x + A = 0. Shapes that
// are not rectangles get the closest real answer (equal sides when the
// discriminant is negative).
func SidesFromAreaPerimeter(area, perimeter float64) (short, long float64) {
	if area <= 0 || perimeter <= 0 {
		return 0, 0
	}
	half := perimeter / 2
	disc := half*half - 4*area
	if disc < 0 {
		disc = 0
	}
	root := math.Sqrt(disc)
	return (half - root) / 2, (half + root) / 2
}
