package massing

import (
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
)

// lAnchors returns one anchor per convex corner. The two wings run along
// the edges meeting at the corner; the wing on the shorter edge owns the
// corner.
func (r *run) lAnchors(ring geo.Polygon) []anchor {
	var out []anchor
	for i := range ring.Vertices {
		if !ring.IsConvexVertex(i) {
			continue
		}
		prev, corner, inLen := edgeAt(ring, i-1)
		_, next, outLen := edgeAt(ring, i)
		if inLen < r.common.MinLength || outLen < r.common.MinLength {
			continue
		}
		out = append(out, anchor{
			origin: selection.Origin{Kind: selection.KindCorner, Index: i},
			at:     corner,
			plan: func(depth float64) ([]wingPlan, bool) {
				li := r.shorten(inLen, 0.1)
				lo := r.shorten(outLen, 0.1)
				if li < r.common.MinLength || lo < r.common.MinLength {
					return nil, false
				}
				incoming := edgeWing(prev, corner, inLen-li, inLen, depth)
				outgoing := edgeWing(corner, next, 0, lo, depth)
				if outLen <= inLen {
					return []wingPlan{outgoing, incoming}, true
				}
				return []wingPlan{incoming, outgoing}, true
			},
		})
	}
	return out
}
