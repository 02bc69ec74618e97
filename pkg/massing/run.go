package massing

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/golang/geo/s1"
	"github.com/google/uuid"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/constraint"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

// margin extends templates past the edges they are anchored to, so that
// clipping never has to resolve coincident edges.
const margin = 1.0

// run is the state of one Generate call.
type run struct {
	e         *Engine
	report    *validation.Report
	common    *spec.CommonParams
	buildable geo.Region
	guard     *constraint.Guard
	rng       *rand.Rand
	arena     *arena
	target    *geo.Point2D
	axis      geo.Point2D
	minor     float64
}

func (e *Engine) newRun(req Request, buildable geo.Region, report *validation.Report) *run {
	c := req.Params.Base()
	r := &run{
		e:         e,
		report:    report,
		common:    c,
		buildable: buildable,
		rng:       newRand(c.Seed),
		arena:     &arena{},
		target:    req.Target,
	}

	obstacles := append(append([]geo.Region(nil), req.Obstacles...), req.Existing...)
	r.guard = constraint.NewGuard(e.policy.CollisionEpsilon, obstacles...)
	if c.VastuAvoid {
		reserve := vastuReserve(buildable)
		r.guard.Add(reserve)
		report.AddInfo(validation.Result{
			Level:   validation.LevelGeometric,
			Message: fmt.Sprintf("north-east reserve of %.1f m² kept free", reserve.Area()),
		})
	}

	r.minor = geo.MinAreaRect(buildable).Depth()
	r.axis = r.orientation()
	return r
}

// newRand returns the generator for one call. Every randomized branch draws
// from it in enumeration order, so a seed fixes the whole run.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// jitter returns v scaled by a uniform factor in [1-frac, 1+frac].
func (r *run) jitter(v, frac float64) float64 {
	return v * (1 + frac*(2*r.rng.Float64()-1))
}

// shorten returns v reduced by up to frac.
func (r *run) shorten(v, frac float64) float64 {
	return v * (1 - frac*r.rng.Float64())
}

// between returns a uniform value in [lo, hi].
func (r *run) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*r.rng.Float64()
}

// orientation returns the running axis: the requested angle, or the
// direction of the longest edge of the simplified buildable ring.
func (r *run) orientation() geo.Point2D {
	if r.common.Orientation != nil {
		a := s1.Angle(*r.common.Orientation) * s1.Degree
		return geo.Direction(a.Normalized().Radians())
	}
	ring := r.anchorRing()
	best, bestLen := geo.Pt(1, 0), 0.0
	for i := range ring.Vertices {
		a, b := ring.Edge(i)
		if l := a.Distance(b); l > bestLen+1e-9 {
			best, bestLen = b.Sub(a).Normalize(), l
		}
	}
	return best
}

// anchorRing returns the simplified counterclockwise outer ring of the
// largest buildable part.
func (r *run) anchorRing() geo.Polygon {
	largest := r.buildable.Largest()
	if largest.IsEmpty() {
		return geo.Polygon{}
	}
	return geo.Simplify(largest.Parts[0].Outer, r.e.policy.SimplifyTolerance).EnsureCCW()
}

// depthVariant is one of the size variants an anchor is tried with.
type depthVariant struct {
	tag   selection.Variant
	depth float64
}

var variantScales = []struct {
	tag   selection.Variant
	scale float64
}{
	{selection.VariantSlim, 0.75},
	{selection.VariantStandard, 1.0},
	{selection.VariantDeep, 1.5},
}

// depthVariants returns the slim, standard and deep variants of a
// seed-jittered target depth, clamped to the width range and to 45% of the
// plot's minor dimension. Variants that clamp to the same depth collapse.
func (r *run) depthVariants(target float64) []depthVariant {
	lo := r.common.MinWidth
	hi := math.Min(r.common.MaxWidth, 0.45*r.minor)
	if hi < lo {
		hi = lo
	}
	base := r.jitter(target, 0.1)
	var out []depthVariant
	for _, s := range variantScales {
		d := math.Max(lo, math.Min(hi, base*s.scale))
		dup := false
		for _, v := range out {
			if math.Abs(v.depth-d) < 0.01 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, depthVariant{tag: s.tag, depth: d})
		}
	}
	return out
}

// clip intersects a shape with the buildable area. Convex buildable areas
// are clipped half-plane by half-plane, which tolerates shapes that touch
// the boundary.
func (r *run) clip(shape geo.Region) geo.Region {
	if r.buildable.IsConvex() && shape.IsConvex() {
		return geo.RegionOf(geo.ClipToConvex(shape.Parts[0].Outer, r.buildable.Parts[0].Outer))
	}
	return shape.Intersection(r.buildable)
}

// minBlockArea is the smallest block worth keeping.
func (r *run) minBlockArea() float64 {
	return r.common.MinWidth * r.common.MinLength
}

// ledger tracks the footprint budget of one candidate.
type ledger struct {
	capped bool
	left   float64
	min    float64
}

func (r *run) newLedger() *ledger {
	limit := r.common.FootprintCap()
	return &ledger{capped: limit > 0, left: limit, min: r.minBlockArea()}
}

// spend charges a block against the budget. A block that overruns the
// remaining budget is shrunk to fit when it can be.
func (l *ledger) spend(block geo.Region) (geo.Region, bool) {
	if !l.capped {
		return block, true
	}
	if l.left < l.min {
		return geo.Region{}, false
	}
	fitted, ok := constraint.Enforce(block, l.left, l.min)
	if !ok {
		return geo.Region{}, false
	}
	l.left -= fitted.Area()
	return fitted, true
}

// nearestIndex returns the index of the point closest to the target, or -1
// when no target is set.
func (r *run) nearestIndex(pts []geo.Point2D) int {
	if r.target == nil || len(pts) == 0 {
		return -1
	}
	best, bestDist := 0, math.Inf(1)
	for i, p := range pts {
		if d := p.Distance(*r.target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (r *run) debug(msg string, keyvals ...any) {
	r.e.logger.Debug(msg, keyvals...)
}

// footprintID derives a stable id from the seed, typology and position.
func footprintID(seed uint64, t spec.Typology, index int) string {
	name := fmt.Sprintf("keystone/%d/%s/%d", seed, t, index)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
