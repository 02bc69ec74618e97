package massing

import (
	"github.com/golang/geo/s1"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
)

// opposite reports whether two edge directions are antiparallel within tol.
func opposite(d1, d2 geo.Point2D, tol s1.Angle) bool {
	diff := s1.Angle(d1.Angle()) - s1.Angle(d2.Angle()) + 180*s1.Degree
	return diff.Normalized().Abs() <= tol
}

// hAnchors returns one anchor per pair of opposite edges that lie far
// enough apart. Each edge carries a bar and a bridge joins the bars'
// inner faces.
func (r *run) hAnchors(ring geo.Polygon) []anchor {
	tol := s1.Angle(r.e.policy.OppositeTolerance) * s1.Degree
	minSep := r.e.policy.MinSeparation * r.minor

	var out []anchor
	pair := 0
	n := ring.Len()
	for i := 0; i < n; i++ {
		a1, b1, len1 := edgeAt(ring, i)
		if len1 < r.common.MinLength {
			continue
		}
		for j := i + 1; j < n; j++ {
			a2, b2, len2 := edgeAt(ring, j)
			if len2 < r.common.MinLength {
				continue
			}
			d1, d2 := b1.Sub(a1), b2.Sub(a2)
			m1, m2 := geo.MidPoint(a1, b1), geo.MidPoint(a2, b2)
			if !opposite(d1, d2, tol) || m1.Distance(m2) <= minSep {
				continue
			}
			n1, n2 := d1.Normalize().Perp(), d2.Normalize().Perp()
			out = append(out, anchor{
				origin: selection.Origin{Kind: selection.KindEdgePair, Index: pair},
				at:     geo.MidPoint(m1, m2),
				plan: func(depth float64) ([]wingPlan, bool) {
					bar1 := r.shorten(len1, 0.1)
					bar2 := r.shorten(len2, 0.1)
					if bar1 < r.common.MinLength || bar2 < r.common.MinLength {
						return nil, false
					}
					from, to := m1.Add(n1.Scale(depth)), m2.Add(n2.Scale(depth))
					span := to.Sub(from)
					if span.Length() < r.common.MinLength+2*r.common.Gap {
						return nil, false
					}
					bridge := crossWing(from, span, span.Length(), depth)
					bridge.template.MaxU += margin
					return []wingPlan{
						edgeWing(a1, b1, (len1-bar1)/2, (len1+bar1)/2, depth),
						edgeWing(a2, b2, (len2-bar2)/2, (len2+bar2)/2, depth),
						bridge,
					}, true
				},
			})
			pair++
		}
	}
	return out
}
