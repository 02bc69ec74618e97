package massing

import (
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

// perimeter builds a courtyard block: the band of the given depth along
// the whole buildable boundary. Each depth variant is a candidate.
func (r *run) perimeter(p *spec.PerimeterParams) []Footprint {
	var cands []selection.Candidate[ref]
	for _, dv := range r.depthVariants(p.Depth) {
		origin := selection.Origin{Kind: selection.KindRing, Variant: dv.tag}
		courtyard := geo.Buffer(r.buildable, -dv.depth)
		if courtyard.IsEmpty() {
			r.debug("no courtyard left", "depth", dv.depth)
			continue
		}
		ring := r.buildable.Difference(courtyard)
		ring, ok := r.newLedger().spend(ring)
		if !ok || ring.IsEmpty() {
			r.debug("ring over the footprint cap", "depth", dv.depth)
			continue
		}
		if r.guard.Collides(ring) {
			r.debug("anchor infeasible", "kind", origin.Kind, "variant", origin.Variant)
			continue
		}
		cands = append(cands, selection.Candidate[ref]{
			Value:  r.arena.put(ring),
			Score:  selection.Score(ring.Area(), 0, false),
			Origin: origin,
		})
	}

	pick, ok := selection.Select(cands, r.common.Seed)
	if !ok {
		return nil
	}
	region := r.arena.get(pick.Value)
	return []Footprint{{
		Subtype: spec.TypologyPerimeter,
		Region:  region,
		Area:    region.Area(),
		Origin:  pick.Origin,
	}}
}
