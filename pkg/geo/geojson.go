package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrUnsupportedGeometry is returned when a geometry has no area.
var ErrUnsupportedGeometry = errors.New("geometry is not polygonal")

// Region converts a polygonal orb geometry into a plan region. Rings are
// re-assembled by nesting, so input winding order is not trusted.
func (f Frame) Region(g orb.Geometry) (Region, error) {
	var rings []Polygon
	switch v := g.(type) {
	case orb.Ring:
		rings = append(rings, f.ring(v))
	case orb.Polygon:
		for _, r := range v {
			rings = append(rings, f.ring(r))
		}
	case orb.MultiPolygon:
		// Parts of a multipolygon never nest, so each polygon is assembled on
		// its own to keep an island inside a hole of another part.
		var out Region
		for _, poly := range v {
			sub, err := f.Region(poly)
			if err != nil {
				return Region{}, err
			}
			out = Merge(out, sub)
		}
		return out, nil
	case orb.Bound:
		return f.Region(v.ToRing())
	case nil:
		return Region{}, fmt.Errorf("%w: missing geometry", ErrUnsupportedGeometry)
	default:
		return Region{}, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	return assemble(rings), nil
}

func (f Frame) ring(r orb.Ring) Polygon {
	pts := make([]Point2D, 0, len(r))
	for _, p := range r {
		pts = append(pts, f.ToPlan(p))
	}
	return Polygon{Vertices: pts}.Clean(1e-9)
}

// Ring converts a plan ring to a closed orb ring.
func (f Frame) Ring(p Polygon) orb.Ring {
	out := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		out = append(out, f.FromPlan(v))
	}
	if len(out) > 0 {
		out = append(out, out[0])
	}
	return out
}

// Polygon converts a part to an orb polygon with a counterclockwise exterior
// and clockwise holes.
func (f Frame) Polygon(p Part) orb.Polygon {
	out := orb.Polygon{f.Ring(p.Outer.EnsureCCW())}
	for _, h := range p.Holes {
		out = append(out, f.Ring(h.EnsureCW()))
	}
	return out
}

// Geometry converts a region to an orb Polygon when it has a single part and
// to a MultiPolygon otherwise.
func (f Frame) Geometry(r Region) orb.Geometry {
	if len(r.Parts) == 1 {
		return f.Polygon(r.Parts[0])
	}
	mp := make(orb.MultiPolygon, 0, len(r.Parts))
	for _, p := range r.Parts {
		mp = append(mp, f.Polygon(p))
	}
	return mp
}
