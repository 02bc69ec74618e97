// Package massing generates building footprints inside a plot: it resolves
// setbacks, builds per-typology templates anchored to the plot, segments
// wings into blocks, enforces area caps, avoids obstacles and picks one
// candidate per seed.
package massing

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/constraint"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/setback"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

// Policy holds the acceptance thresholds of the engine. They are tuning
// values rather than fixed rules, so they are configurable.
type Policy struct {
	// TowerContainment is the share of a tower that must lie inside the
	// buildable area before it is clipped.
	TowerContainment float64 `toml:"tower_containment" json:"tower_containment"`
	// WingRetention is the share of a wing's nominal area that must survive
	// clipping to the buildable area.
	WingRetention float64 `toml:"wing_retention" json:"wing_retention"`
	// CollisionEpsilon is the overlap area in m² that counts as a collision.
	CollisionEpsilon float64 `toml:"collision_epsilon" json:"collision_epsilon"`
	// CornerClearance is the minimum distance between parts of a composite.
	CornerClearance float64 `toml:"corner_clearance" json:"corner_clearance"`
	// OppositeTolerance is how far, in degrees, two edges may deviate from
	// antiparallel and still count as opposite.
	OppositeTolerance float64 `toml:"opposite_tolerance" json:"opposite_tolerance"`
	// MinSeparation is the smallest midpoint distance of opposite edges as a
	// share of the plot's minor dimension.
	MinSeparation float64 `toml:"min_separation" json:"min_separation"`
	// DimensionTolerance relaxes the minimum block width and length.
	DimensionTolerance float64 `toml:"dimension_tolerance" json:"dimension_tolerance"`
	// SimplifyTolerance is the Douglas-Peucker tolerance for anchor search.
	SimplifyTolerance float64 `toml:"simplify_tolerance" json:"simplify_tolerance"`
	MaxAnchors        int     `toml:"max_anchors" json:"max_anchors"`
	MaxSegments       int     `toml:"max_segments" json:"max_segments"`
	// SegmentStopLength ends segmentation after a rejected slice once less
	// than this much wing remains.
	SegmentStopLength float64 `toml:"segment_stop_length" json:"segment_stop_length"`
}

// DefaultPolicy returns the tightest documented thresholds.
func DefaultPolicy() Policy {
	return Policy{
		TowerContainment:   0.99,
		WingRetention:      0.6,
		CollisionEpsilon:   constraint.DefaultEpsilon,
		CornerClearance:    1.5,
		OppositeTolerance:  45,
		MinSeparation:      0.3,
		DimensionTolerance: 1,
		SimplifyTolerance:  0.5,
		MaxAnchors:         20,
		MaxSegments:        20,
		SegmentStopLength:  20,
	}
}

// Request is the input of one generation call, already projected into the
// local plan.
type Request struct {
	Plot      geo.Region
	Obstacles []geo.Region
	// Existing holds blocks placed by earlier calls. They are obstacles
	// here and are never modified.
	Existing  []geo.Region
	Setback   spec.SetbackPolicy
	Clearance float64
	Params    spec.Params
	// Target is the projected anchor point, when the params set one.
	Target *geo.Point2D
}

// Footprint is one generated building footprint.
type Footprint struct {
	ID      string           `json:"id"`
	Subtype spec.Typology    `json:"subtype"`
	Region  geo.Region       `json:"-"`
	Area    float64          `json:"area"`
	Origin  selection.Origin `json:"-"`
	// Parts lists the constituent blocks of a composite footprint in order.
	Parts []Part `json:"parts,omitempty"`
}

// Part is one block of a composite footprint.
type Part struct {
	Subtype spec.Typology `json:"subtype"`
	Region  geo.Region    `json:"-"`
	Area    float64       `json:"area"`
}

// Engine generates footprints. It holds only immutable configuration and is
// safe for concurrent use.
type Engine struct {
	policy Policy
	logger *log.Logger
}

// NewEngine returns an engine with the given policy. Zero policy fields
// take their defaults. A nil logger discards debug output.
func NewEngine(p Policy, logger *log.Logger) *Engine {
	d := DefaultPolicy()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&p.TowerContainment, d.TowerContainment)
	fill(&p.WingRetention, d.WingRetention)
	fill(&p.CollisionEpsilon, d.CollisionEpsilon)
	fill(&p.CornerClearance, d.CornerClearance)
	fill(&p.OppositeTolerance, d.OppositeTolerance)
	fill(&p.MinSeparation, d.MinSeparation)
	fill(&p.DimensionTolerance, d.DimensionTolerance)
	fill(&p.SimplifyTolerance, d.SimplifyTolerance)
	fill(&p.SegmentStopLength, d.SegmentStopLength)
	if p.MaxAnchors <= 0 {
		p.MaxAnchors = d.MaxAnchors
	}
	if p.MaxSegments <= 0 {
		p.MaxSegments = d.MaxSegments
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{policy: p, logger: logger}
}

// Policy returns the effective policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Generate runs one typology on one plot. It never fails: infeasible input
// yields no footprints and a report explaining why.
func (e *Engine) Generate(req Request) ([]Footprint, *validation.Report) {
	report := validation.NewReport()

	if req.Params == nil {
		report.AddError(validation.Result{
			Level:   validation.LevelSchema,
			Message: "no typology parameters given",
			Path:    "params",
		})
		return nil, report
	}
	if req.Plot.IsEmpty() {
		report.AddError(validation.Result{
			Level:   validation.LevelGeometric,
			Message: "plot has no area",
			Path:    "plot",
		})
		return nil, report
	}

	buildable, ok := resolveBuildable(req, report)
	if !ok {
		return nil, report
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelSetback,
		Message: fmt.Sprintf("buildable area %.1f m² of %.1f m² plot", buildable.Area(), req.Plot.Area()),
	})

	r := e.newRun(req, buildable, report)

	var fps []Footprint
	switch p := req.Params.(type) {
	case *spec.TowerParams:
		fps = r.towers(p)
	case *spec.PerimeterParams:
		fps = r.perimeter(p)
	case *spec.LamellaParams:
		fps = r.lamellas(p)
	case *spec.CompositeParams:
		fps = r.composite(p)
	default:
		report.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unsupported parameter type %T", req.Params),
			Path:        "params",
			ActualValue: string(req.Params.Typology()),
		})
		return nil, report
	}

	fps = finalize(fps, req.Params)
	report.Merge(Verify(fps, req.Params.Typology(), Bounds{
		Buildable: buildable,
		Obstacles: append(append([]geo.Region(nil), req.Obstacles...), req.Existing...),
		Cap:       req.Params.Base().FootprintCap(),
		Epsilon:   e.policy.CollisionEpsilon,
	}))
	if len(fps) == 0 {
		report.AddWarning(validation.Result{
			Level:   validation.LevelGeometric,
			Message: fmt.Sprintf("no feasible %s footprint on this plot", req.Params.Typology()),
		})
	} else {
		total := 0.0
		for _, f := range fps {
			total += f.Area
		}
		report.AddInfo(validation.Result{
			Level:   validation.LevelGeometric,
			Message: fmt.Sprintf("generated %d %s footprints, %.1f m² total", len(fps), req.Params.Typology(), total),
		})
	}
	return fps, report
}

// Buildable returns the plot area left after the peripheral clearance and
// the setbacks. ok is false when nothing is left.
func (e *Engine) Buildable(req Request) (geo.Region, bool) {
	return resolveBuildable(req, validation.NewReport())
}

func resolveBuildable(req Request, report *validation.Report) (geo.Region, bool) {
	plot := req.Plot
	if req.Clearance > 0 {
		var ok bool
		plot, ok = setback.Clearance(plot, req.Clearance)
		if !ok {
			report.AddError(validation.Result{
				Level:       validation.LevelSetback,
				Message:     fmt.Sprintf("peripheral clearance of %.1f m leaves nothing buildable", req.Clearance),
				Path:        "clearance",
				ActualValue: req.Clearance,
			})
			return geo.Region{}, false
		}
	}
	buildable, ok := setback.Resolve(plot, req.Setback)
	if !ok {
		report.AddError(validation.Result{
			Level:       validation.LevelSetback,
			Message:     "setbacks leave nothing buildable",
			Path:        "setback",
			Suggestions: []string{"Reduce the setback distances or the peripheral clearance"},
		})
		return geo.Region{}, false
	}
	return buildable, true
}

// finalize drops degenerate results and assigns ids.
func finalize(fps []Footprint, p spec.Params) []Footprint {
	out := fps[:0]
	for _, f := range fps {
		if f.Region.IsEmpty() || math.IsNaN(f.Area) || f.Area <= 0 {
			continue
		}
		f.ID = footprintID(p.Base().Seed, p.Typology(), len(out))
		out = append(out, f)
	}
	return out
}
