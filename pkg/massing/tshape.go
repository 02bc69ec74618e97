package massing

import (
	"math"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
)

// tAnchors returns one anchor per edge long enough for a bar. The bar is
// centred on the edge and the stem grows inward from the bar's midpoint.
func (r *run) tAnchors(ring geo.Polygon) []anchor {
	var out []anchor
	for i := range ring.Vertices {
		a, b, edgeLen := edgeAt(ring, i)
		if edgeLen < r.common.MinLength {
			continue
		}
		inward := b.Sub(a).Normalize().Perp()
		mid := geo.MidPoint(a, b)
		out = append(out, anchor{
			origin: selection.Origin{Kind: selection.KindEdge, Index: i},
			at:     mid,
			plan: func(depth float64) ([]wingPlan, bool) {
				bar := r.shorten(edgeLen, 0.1)
				if bar < r.common.MinLength {
					return nil, false
				}
				// The first gap metres of the stem are given up to the bar.
				reach := math.Min(r.common.MaxLength+r.common.Gap, r.minor-depth)
				stem := r.shorten(reach, 0.1)
				if stem-r.common.Gap < r.common.MinLength {
					return nil, false
				}
				from := (edgeLen - bar) / 2
				return []wingPlan{
					edgeWing(a, b, from, from+bar, depth),
					crossWing(mid.Add(inward.Scale(depth)), inward, stem, depth),
				}, true
			},
		})
	}
	return out
}
