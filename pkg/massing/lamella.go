package massing

import (
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/constraint"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

// lamellas sweeps parallel rows across the buildable area, along and across
// the running axis, and cuts each row into blocks. Each direction and depth
// variant is a candidate; the blocks of the chosen one are separate
// footprints.
func (r *run) lamellas(p *spec.LamellaParams) []Footprint {
	axes := []geo.Point2D{r.axis, r.axis.Perp()}
	variants := r.depthVariants(p.Depth)

	var cands []selection.Candidate[[]ref]
	for ai, axis := range axes {
		for _, dv := range variants {
			origin := selection.Origin{Kind: selection.KindRow, Index: ai, Variant: dv.tag}
			refs, total := r.rows(axis, dv.depth, p.RowSpacing)
			if len(refs) == 0 {
				r.debug("anchor infeasible", "kind", origin.Kind, "index", origin.Index, "variant", origin.Variant)
				continue
			}
			cands = append(cands, selection.Candidate[[]ref]{
				Value:  refs,
				Score:  selection.Score(total, 0, false),
				Origin: origin,
			})
		}
	}

	pick, ok := selection.Select(cands, r.common.Seed)
	if !ok {
		return nil
	}
	fps := make([]Footprint, 0, len(pick.Value))
	for _, i := range pick.Value {
		region := r.arena.get(i)
		fps = append(fps, Footprint{
			Subtype: spec.TypologyLamella,
			Region:  region,
			Area:    region.Area(),
			Origin:  pick.Origin,
		})
	}
	return fps
}

// rows lays out rows of the given depth at stride depth + spacing. With a
// target, the rows are shifted so that one is centred on it.
func (r *run) rows(axis geo.Point2D, depth, spacing float64) ([]ref, float64) {
	frame := geo.Extents(r.buildable.Vertices(), r.buildable.Centroid(), axis)
	start := frame.MinV + 0.05
	if r.target != nil {
		_, tv := frame.Local(*r.target)
		start = tv - depth/2
	}

	budget := r.newLedger()
	var placed []geo.Region
	var refs []ref
	total := 0.0
	for _, v := range gridSteps(start, depth+spacing, depth, frame.MinV, frame.MaxV) {
		row := geo.OrientedRect{
			Origin: frame.Origin,
			U:      frame.U,
			MinU:   frame.MinU - margin,
			MaxU:   frame.MaxU + margin,
			MinV:   v,
			MaxV:   v + depth,
		}
		band := r.clip(row.Region())
		for _, piece := range band.Split() {
			for _, block := range r.segment(piece, row.At(0, v), row.At(1, v)) {
				if r.guard.Collides(block) || constraint.Collides(block, placed, r.e.policy.CollisionEpsilon) {
					continue
				}
				fitted, ok := budget.spend(block)
				if !ok {
					continue
				}
				placed = append(placed, fitted)
				refs = append(refs, r.arena.put(fitted))
				total += fitted.Area()
			}
		}
	}
	return refs, total
}
