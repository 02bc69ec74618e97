package massing

import (
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
)

// uAnchors returns one anchor per base edge whose corners are both convex.
// The base wing spans the whole edge and the arms rise along the
// neighbouring edges.
func (r *run) uAnchors(ring geo.Polygon) []anchor {
	var out []anchor
	n := ring.Len()
	for i := 0; i < n; i++ {
		if !ring.IsConvexVertex(i) || !ring.IsConvexVertex((i+1)%n) {
			continue
		}
		a, b, baseLen := edgeAt(ring, i)
		prev, _, leftLen := edgeAt(ring, i-1)
		_, next, rightLen := edgeAt(ring, i+1)
		if baseLen < r.common.MinLength {
			continue
		}
		out = append(out, anchor{
			origin: selection.Origin{Kind: selection.KindEdge, Index: i},
			at:     geo.MidPoint(a, b),
			plan: func(depth float64) ([]wingPlan, bool) {
				left := r.shorten(leftLen, 0.1)
				right := r.shorten(rightLen, 0.1)
				if left < depth+r.common.MinLength || right < depth+r.common.MinLength {
					return nil, false
				}
				return []wingPlan{
					edgeWing(a, b, 0, baseLen, depth),
					edgeWing(prev, a, leftLen-left, leftLen, depth),
					edgeWing(b, next, 0, right, depth),
				}, true
			},
		})
	}
	return out
}
