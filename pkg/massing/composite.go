package massing

import (
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

// anchor is one place a composite template can grow from. plan returns the
// ordered wings for a depth; earlier wings own the space they share with
// later ones.
type anchor struct {
	origin selection.Origin
	at     geo.Point2D
	plan   func(depth float64) ([]wingPlan, bool)
}

// composite builds L, U, T and H shapes. Every anchor is tried with every
// depth variant and the shapes compete as candidates; the chosen shape is a
// single footprint whose parts are its blocks.
func (r *run) composite(p *spec.CompositeParams) []Footprint {
	ring := r.anchorRing()
	if ring.Len() < 3 {
		return nil
	}

	var anchors []anchor
	switch p.Shape {
	case spec.TypologyL:
		anchors = r.lAnchors(ring)
	case spec.TypologyU:
		anchors = r.uAnchors(ring)
	case spec.TypologyT:
		anchors = r.tAnchors(ring)
	case spec.TypologyH:
		anchors = r.hAnchors(ring)
	}
	anchors = r.limitAnchors(anchors)
	if len(anchors) == 0 {
		r.debug("no anchors", "shape", p.Shape)
		return nil
	}

	variants := r.depthVariants(p.WingDepth)
	var cands []selection.Candidate[[]ref]
	for _, a := range anchors {
		for _, dv := range variants {
			origin := a.origin
			origin.Variant = dv.tag
			refs, ok := r.shape(a, dv.depth)
			if !ok {
				r.debug("anchor infeasible", "kind", origin.Kind, "index", origin.Index, "variant", origin.Variant)
				continue
			}
			merged := r.arena.merge(refs)
			cands = append(cands, selection.Candidate[[]ref]{
				Value:  refs,
				Score:  selection.Score(merged.Area(), merged.Compactness(), true),
				Origin: origin,
			})
		}
	}

	pick, ok := selection.Select(cands, r.common.Seed)
	if !ok {
		return nil
	}
	parts := r.clearCorners(pick.Value)
	if len(parts) == 0 {
		return nil
	}
	fp := Footprint{Subtype: p.Shape, Origin: pick.Origin}
	for _, part := range parts {
		fp.Parts = append(fp.Parts, Part{Subtype: p.Shape, Region: part, Area: part.Area()})
		fp.Region = geo.Merge(fp.Region, part)
	}
	fp.Area = fp.Region.Area()
	return []Footprint{fp}
}

// shape turns one anchor and depth into the blocks of a composite, capped
// and clear of obstacles.
func (r *run) shape(a anchor, depth float64) ([]ref, bool) {
	plans, ok := a.plan(depth)
	if !ok {
		return nil, false
	}
	wings, ok := r.buildWings(plans)
	if !ok {
		return nil, false
	}
	refs, ok := r.segmentWings(wings)
	if !ok {
		return nil, false
	}

	merged := r.arena.merge(refs)
	fitted, ok := r.newLedger().spend(merged)
	if !ok {
		r.debug("shape over the footprint cap", "area", merged.Area())
		return nil, false
	}
	if fitted.Area() < merged.Area()-1e-9 {
		var shrunk []ref
		for _, i := range refs {
			part := r.arena.get(i).Intersection(fitted)
			if !part.IsEmpty() {
				shrunk = append(shrunk, r.arena.put(part))
			}
		}
		refs = shrunk
	}

	for _, i := range refs {
		if r.guard.Collides(r.arena.get(i)) {
			return nil, false
		}
	}
	return refs, len(refs) > 0
}

// clearCorners keeps the parts of a composite at least the corner clearance
// apart: a part closer than that to an earlier part loses the earlier
// part's buffered outline.
func (r *run) clearCorners(refs []ref) []geo.Region {
	clearance := r.e.policy.CornerClearance
	var out []geo.Region
	for _, i := range refs {
		part := r.arena.get(i)
		for _, prev := range out {
			if geo.Distance(part, prev) < clearance {
				part = part.Difference(geo.Buffer(prev, clearance))
			}
		}
		if part = part.DropSmallerThan(1); !part.IsEmpty() {
			out = append(out, part)
		}
	}
	return out
}

// limitAnchors applies the anchor budget, or keeps only the anchor nearest
// to the target.
func (r *run) limitAnchors(anchors []anchor) []anchor {
	if len(anchors) == 0 {
		return nil
	}
	pts := make([]geo.Point2D, len(anchors))
	for i, a := range anchors {
		pts[i] = a.at
	}
	if i := r.nearestIndex(pts); i >= 0 {
		return anchors[i : i+1]
	}
	if len(anchors) > r.e.policy.MaxAnchors {
		anchors = anchors[:r.e.policy.MaxAnchors]
	}
	return anchors
}

// edgeAt returns the endpoints and length of ring edge i, wrapping around.
func edgeAt(ring geo.Polygon, i int) (geo.Point2D, geo.Point2D, float64) {
	n := ring.Len()
	a, b := ring.Edge(((i % n) + n) % n)
	return a, b, a.Distance(b)
}
