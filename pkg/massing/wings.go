package massing

import (
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
)

// wingPlan is one arm of a composite template. The nominal rectangle is the
// intended wing; the template reaches past the plot edge it is anchored to
// so that clipping cuts it exactly along the boundary.
type wingPlan struct {
	nominal  geo.OrientedRect
	template geo.OrientedRect
}

// edgeWing plans a strip of the given depth on the interior side of the
// edge a→b, spanning [from, to] measured from a. Rings are counterclockwise
// so the interior is on the left.
func edgeWing(a, b geo.Point2D, from, to, depth float64) wingPlan {
	nominal := geo.NewOrientedRect(a, b, 0, depth)
	nominal.MinU, nominal.MaxU = from, to
	template := nominal
	template.MinU -= margin
	template.MaxU += margin
	template.MinV -= margin
	return wingPlan{nominal: nominal, template: template}
}

// crossWing plans a strip of the given width centred on the line from start
// along dir, spanning [0, length]. Its start reaches back into whatever it
// grows from.
func crossWing(start, dir geo.Point2D, length, width float64) wingPlan {
	nominal := geo.OrientedRect{
		Origin: start,
		U:      dir.Normalize(),
		MaxU:   length,
		MinV:   -width / 2,
		MaxV:   width / 2,
	}
	template := nominal
	template.MinU -= margin
	return wingPlan{nominal: nominal, template: template}
}

// wing is a planned arm after clipping and exclusion.
type wing struct {
	plan   wingPlan
	region ref
}

// buildWings clips each planned wing to the buildable area and removes the
// earlier wings, expanded by the gap, from later ones. It fails when a wing
// keeps too little of its nominal area or vanishes.
func (r *run) buildWings(plans []wingPlan) ([]wing, bool) {
	wings := make([]wing, 0, len(plans))
	for i, p := range plans {
		clipped := r.clip(p.template.Region())
		if clipped.Area() < r.e.policy.WingRetention*p.nominal.Area() {
			r.debug("wing clipped away", "wing", i,
				"kept", clipped.Area(), "nominal", p.nominal.Area())
			return nil, false
		}
		for _, owner := range wings {
			clipped = clipped.Difference(owner.plan.nominal.Expand(r.common.Gap).Region())
		}
		if clipped.IsEmpty() {
			r.debug("wing excluded by earlier wings", "wing", i)
			return nil, false
		}
		wings = append(wings, wing{plan: p, region: r.arena.put(clipped)})
	}
	return wings, true
}

// segmentWings cuts every wing into blocks. Each wing must yield at least
// one block.
func (r *run) segmentWings(wings []wing) ([]ref, bool) {
	var refs []ref
	for i, w := range wings {
		n := w.plan.nominal
		blocks := r.segment(r.arena.get(w.region), n.Origin, n.At(1, 0))
		if len(blocks) == 0 {
			r.debug("wing yields no block", "wing", i)
			return nil, false
		}
		for _, b := range blocks {
			refs = append(refs, r.arena.put(b))
		}
	}
	return refs, true
}
