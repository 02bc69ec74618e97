package massing

import (
	"math"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/constraint"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

// gridAnchor is the local position of one tower of a grid; the rest of the
// grid follows at the tower stride in both directions.
type gridAnchor struct {
	origin selection.Origin
	u, v   float64
}

// towers places rectangular towers on a grid aligned to the running axis.
// Each grid anchoring is one candidate; the towers of the chosen grid are
// returned as separate footprints.
func (r *run) towers(p *spec.TowerParams) []Footprint {
	width, length := p.Size()
	frame := geo.Extents(r.buildable.Vertices(), r.buildable.Centroid(), r.axis)

	// Convex plots are clipped exactly; elsewhere towers keep a hair's
	// distance from the extents so booleans never meet coincident edges.
	inset := 0.0
	if !r.buildable.IsConvex() {
		inset = 0.05
	}
	frame = frame.Expand(-inset)
	if frame.Length() < length || frame.Depth() < width {
		r.debug("tower does not fit the plot extents",
			"length", length, "width", width,
			"extent_u", frame.Length(), "extent_v", frame.Depth())
		return nil
	}

	var cands []selection.Candidate[[]ref]
	for _, a := range r.towerAnchors(frame, length, width) {
		refs, total := r.towerGrid(frame, a, length, width, p)
		if len(refs) == 0 {
			r.debug("anchor infeasible", "kind", a.origin.Kind, "index", a.origin.Index)
			continue
		}
		cands = append(cands, selection.Candidate[[]ref]{
			Value:  refs,
			Score:  selection.Score(total, 0, false),
			Origin: a.origin,
		})
	}

	pick, ok := selection.Select(cands, r.common.Seed)
	if !ok {
		return nil
	}
	fps := make([]Footprint, 0, len(pick.Value))
	for _, i := range pick.Value {
		region := r.arena.get(i)
		fps = append(fps, Footprint{
			Subtype: spec.TypologyTower,
			Region:  region,
			Area:    region.Area(),
			Origin:  pick.Origin,
		})
	}
	return fps
}

// towerAnchors returns the grid anchorings: the four corners of the
// extents and the centre, or only the target when one is set.
func (r *run) towerAnchors(frame geo.OrientedRect, length, width float64) []gridAnchor {
	if r.target != nil {
		tu, tv := frame.Local(*r.target)
		return []gridAnchor{{
			origin: selection.Origin{Kind: selection.KindTarget},
			u:      tu - length/2,
			v:      tv - width/2,
		}}
	}
	cu := (frame.MinU + frame.MaxU - length) / 2
	cv := (frame.MinV + frame.MaxV - width) / 2
	spots := [][2]float64{
		{frame.MinU, frame.MinV},
		{frame.MaxU - length, frame.MinV},
		{frame.MaxU - length, frame.MaxV - width},
		{frame.MinU, frame.MaxV - width},
		{cu, cv},
	}
	out := make([]gridAnchor, len(spots))
	for i, s := range spots {
		out[i] = gridAnchor{
			origin: selection.Origin{Kind: selection.KindGrid, Index: i},
			u:      s[0],
			v:      s[1],
		}
	}
	return out
}

// gridSteps returns the grid positions start + k·stride that keep a span
// of the given size inside [lo, hi].
func gridSteps(start, stride, size, lo, hi float64) []float64 {
	if stride <= 0 {
		return []float64{start}
	}
	first := math.Ceil((lo-start)/stride - 1e-9)
	last := math.Floor((hi-size-start)/stride + 1e-9)
	var out []float64
	for k := first; k <= last; k++ {
		out = append(out, start+k*stride)
	}
	return out
}

// towerGrid lays out the towers of one anchoring. Towers must lie almost
// entirely inside the buildable area and are clipped to it; towers that
// hit an obstacle or an earlier tower are skipped.
func (r *run) towerGrid(frame geo.OrientedRect, a gridAnchor, length, width float64, p *spec.TowerParams) ([]ref, float64) {
	budget := r.newLedger()
	var placed []geo.Region
	var refs []ref
	total := 0.0

	us := gridSteps(a.u, length+p.Spacing, length, frame.MinU, frame.MaxU)
	vs := gridSteps(a.v, width+p.Spacing, width, frame.MinV, frame.MaxV)
	for _, v := range vs {
		for _, u := range us {
			if p.MaxCount > 0 && len(refs) >= p.MaxCount {
				return refs, total
			}
			rect := geo.OrientedRect{
				Origin: frame.Origin,
				U:      frame.U,
				MinU:   u,
				MaxU:   u + length,
				MinV:   v,
				MaxV:   v + width,
			}
			tower := r.clip(rect.Region())
			if tower.IsEmpty() || tower.Area() < r.e.policy.TowerContainment*rect.Area() {
				continue
			}
			if r.guard.Collides(tower) || constraint.Collides(tower, placed, r.e.policy.CollisionEpsilon) {
				continue
			}
			fitted, ok := budget.spend(tower)
			if !ok {
				continue
			}
			placed = append(placed, fitted)
			refs = append(refs, r.arena.put(fitted))
			total += fitted.Area()
		}
	}
	return refs, total
}
