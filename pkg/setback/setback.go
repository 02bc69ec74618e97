// Package setback turns a plot boundary into the buildable area left after
// mandatory clearances.
package setback

import (
	"math"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

// MinBuildableArea is the smallest buildable area, in m², that counts as a
// feasible plot.
const MinBuildableArea = 1.0

// stripMargin pushes carve rectangles past the plot bounds so their edges
// never coincide with the boundary being cut.
const stripMargin = 1.0

// Resolve applies the setback policy to the plot. A uniform policy (or one
// without road sides) is a single inward buffer. A directional policy buffers
// by the smallest of front, rear and side, then carves the remaining depth
// from each road side (front) and from the side opposite it (rear). Other
// sides keep the baseline. ok is false when nothing buildable remains.
func Resolve(plot geo.Region, p spec.SetbackPolicy) (geo.Region, bool) {
	if !p.Directional() {
		return shrink(plot, p.Uniform)
	}

	base := math.Min(p.Front, math.Min(p.Rear, p.Side))
	out, ok := shrink(plot, base)
	if !ok {
		return geo.Region{}, false
	}
	for _, side := range carvedSides(p) {
		extra := Distance(p, side) - base
		if extra <= 0 {
			continue
		}
		out = out.Difference(strip(out, side, extra))
		if out.Area() < MinBuildableArea {
			return geo.Region{}, false
		}
	}
	return out, true
}

// Distance returns the setback distance that applies to a cardinal side.
// A side that is both a road side and opposite another road side counts as
// a road side.
func Distance(p spec.SetbackPolicy, side spec.Side) float64 {
	if !p.Directional() {
		return p.Uniform
	}
	switch {
	case p.HasRoad(side):
		return p.Front
	case p.HasRoad(side.Opposite()):
		return p.Rear
	default:
		return p.Side
	}
}

// carvedSides returns the road sides and their opposites in cardinal order.
func carvedSides(p spec.SetbackPolicy) []spec.Side {
	var out []spec.Side
	for _, side := range spec.Sides {
		if p.HasRoad(side) || p.HasRoad(side.Opposite()) {
			out = append(out, side)
		}
	}
	return out
}

// Clearance deducts a peripheral ring of the given width, reserved for
// parking and an access road, before any setback is applied.
func Clearance(plot geo.Region, width float64) (geo.Region, bool) {
	return shrink(plot, width)
}

func shrink(plot geo.Region, d float64) (geo.Region, bool) {
	if d <= 0 {
		return plot, plot.Area() >= MinBuildableArea
	}
	out := geo.Buffer(plot, -d)
	if out.Area() < MinBuildableArea {
		return geo.Region{}, false
	}
	return out, true
}

// strip returns the band of the given depth along one side of the region's
// bounding box.
func strip(r geo.Region, side spec.Side, depth float64) geo.Region {
	lo, hi := r.BoundingBox()
	minX, minY := lo.X-stripMargin, lo.Y-stripMargin
	maxX, maxY := hi.X+stripMargin, hi.Y+stripMargin
	switch side {
	case spec.North:
		return geo.RectRegion(minX, hi.Y-depth, maxX, maxY)
	case spec.South:
		return geo.RectRegion(minX, minY, maxX, lo.Y+depth)
	case spec.East:
		return geo.RectRegion(hi.X-depth, minY, maxX, maxY)
	case spec.West:
		return geo.RectRegion(minX, minY, lo.X+depth, maxY)
	}
	return geo.Region{}
}
