package massing

import (
	"math"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
)

// segment cuts a wing into blocks along the axis from start towards toward.
// Slices are seeded lengths in [MinLength, MaxLength], or the whole
// remainder once it fits, separated by the gap. A seeded slice is shortened
// when it would leave a tail too short for a block. A slice is kept when its
// recovered sides meet the minimum width and length; a rejected slice
// advances the cursor without a gap.
func (r *run) segment(wing geo.Region, start, toward geo.Point2D) []geo.Region {
	c := r.common
	tol := r.e.policy.DimensionTolerance
	ext := geo.Extents(wing.Vertices(), start, toward.Sub(start))
	if wing.IsEmpty() || ext.Length() < 1e-6 {
		return nil
	}

	var blocks []geo.Region
	cursor := ext.MinU
	for i := 0; i < r.e.policy.MaxSegments && ext.MaxU-cursor > 1e-6; i++ {
		remaining := ext.MaxU - cursor
		length := remaining
		if remaining > c.MaxLength {
			length = r.between(c.MinLength, c.MaxLength)
			// Leave room for one more full block rather than a stub.
			if tail := remaining - length - c.Gap; tail > 0 && tail < c.MinLength {
				length = math.Max(c.MinLength, remaining-c.Gap-c.MinLength)
			}
		}
		slice := geo.OrientedRect{
			Origin: ext.Origin,
			U:      ext.U,
			MinU:   cursor,
			MaxU:   cursor + length,
			MinV:   ext.MinV - margin,
			MaxV:   ext.MaxV + margin,
		}
		if i == 0 {
			slice.MinU -= margin
		}
		if length >= remaining {
			slice.MaxU += margin
		}

		block := slice.Region().Intersection(wing).Largest()
		short, long := geo.SidesFromAreaPerimeter(block.Area(), block.Perimeter())
		if !block.IsEmpty() && short >= c.MinWidth-tol && long >= c.MinLength-tol {
			blocks = append(blocks, block)
			cursor += length + c.Gap
			continue
		}
		cursor += length
		if ext.MaxU-cursor < r.e.policy.SegmentStopLength {
			break
		}
	}
	return blocks
}
