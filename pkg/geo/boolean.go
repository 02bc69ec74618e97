package geo

import (
	"github.com/ctessum/geom"
)

// sliverArea is the smallest ring area kept after a boolean operation.
const sliverArea = 1e-6

// Intersection returns the area shared by r and o.
func (r Region) Intersection(o Region) Region {
	if r.IsEmpty() || o.IsEmpty() || !boundsOverlap(r, o) {
		return Region{}
	}
	return fromGeom(toGeom(r).Intersection(toGeom(o)))
}

// Union returns the area covered by r or o.
func (r Region) Union(o Region) Region {
	switch {
	case r.IsEmpty():
		return o
	case o.IsEmpty():
		return r
	case !boundsOverlap(r, o):
		return Merge(r, o)
	}
	return fromGeom(toGeom(r).Union(toGeom(o)))
}

// Difference returns the area of r not covered by o.
func (r Region) Difference(o Region) Region {
	if r.IsEmpty() {
		return Region{}
	}
	if o.IsEmpty() || !boundsOverlap(r, o) {
		return r
	}
	return fromGeom(toGeom(r).Difference(toGeom(o)))
}

// IntersectionArea returns the area of r ∩ o.
func IntersectionArea(r, o Region) float64 {
	return r.Intersection(o).Area()
}

// UnionAll folds Union over the given regions.
func UnionAll(regions ...Region) Region {
	var out Region
	for _, r := range regions {
		out = out.Union(r)
	}
	return out
}

func boundsOverlap(r, o Region) bool {
	rMin, rMax := r.BoundingBox()
	oMin, oMax := o.BoundingBox()
	return rMin.X <= oMax.X && oMin.X <= rMax.X && rMin.Y <= oMax.Y && oMin.Y <= rMax.Y
}

// toGeom flattens every ring of every part into one geom.Polygon. The clipper
// resolves holes by nesting, so ring orientation does not matter.
func toGeom(r Region) geom.Polygon {
	var out geom.Polygon
	for _, p := range r.Parts {
		for _, ring := range p.Rings() {
			path := make(geom.Path, len(ring.Vertices))
			for i, v := range ring.Vertices {
				path[i] = geom.Point{X: v.X, Y: v.Y}
			}
			out = append(out, path)
		}
	}
	return out
}

// fromGeom collects the rings of every polygon in g and nests them back into
// parts.
func fromGeom(g geom.Polygonal) Region {
	if g == nil {
		return Region{}
	}
	var rings []Polygon
	for _, poly := range g.Polygons() {
		for _, path := range poly {
			pts := make([]Point2D, 0, len(path))
			for _, pt := range path {
				pts = append(pts, Pt(pt.X, pt.Y))
			}
			ring := Polygon{Vertices: pts}
			if ring.Area() < sliverArea {
				continue
			}
			rings = append(rings, ring)
		}
	}
	return assemble(rings)
}
