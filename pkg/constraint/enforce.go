// Package constraint enforces area budgets on candidate footprints and keeps
// them clear of obstacles.
package constraint

import "github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"

// MaxShrinkAttempts bounds the number of inward buffers Enforce tries.
const MaxShrinkAttempts = 15

// Enforce shrinks r until its area is at most maxArea. A region already
// within budget (or maxArea <= 0) is returned as is. ok is false when the
// region vanishes, drops under minArea, or is still too large after
// MaxShrinkAttempts buffers.
func Enforce(r geo.Region, maxArea, minArea float64) (geo.Region, bool) {
	area := r.Area()
	if maxArea <= 0 || area <= maxArea {
		return r, true
	}
	total := 0.0
	for attempt := 0; attempt < MaxShrinkAttempts; attempt++ {
		// Buffering the original by the running total avoids stacking the
		// rounding of every intermediate result.
		total += ShrinkStep(area, maxArea)
		cur := geo.Buffer(r, -total)
		area = cur.Area()
		switch {
		case cur.IsEmpty():
			return geo.Region{}, false
		case minArea > 0 && area < minArea:
			return geo.Region{}, false
		case area <= maxArea:
			return cur, true
		}
	}
	return geo.Region{}, false
}

// ShrinkStep returns the inward buffer distance for the next attempt: coarse
// while far over budget and fine close to it.
func ShrinkStep(area, maxArea float64) float64 {
	switch {
	case area > 2*maxArea:
		return 2.0
	case area > 1.5*maxArea:
		return 1.0
	default:
		return 0.2
	}
}
