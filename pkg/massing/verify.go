package massing

import (
	"fmt"
	"math"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/constraint"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

// Bounds are the limits a set of footprints must respect.
type Bounds struct {
	Buildable geo.Region
	Obstacles []geo.Region
	// Cap is the total footprint budget; zero means uncapped.
	Cap     float64
	Epsilon float64
}

// Verify performs structural checks on generated footprints: unique ids,
// finite positive areas, the subtype tag, containment in the buildable
// area, obstacle and mutual clearance, and the footprint budget.
func Verify(fps []Footprint, t spec.Typology, b Bounds) *validation.Report {
	r := validation.NewReport()
	eps := b.Epsilon
	if eps <= 0 {
		eps = constraint.DefaultEpsilon
	}

	verifyIDs(fps, r)
	total := 0.0
	for i, f := range fps {
		path := fmt.Sprintf("footprints[%d]", i)
		if math.IsNaN(f.Area) || math.IsInf(f.Area, 0) || f.Area <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometric,
				Message:     fmt.Sprintf("footprint %d has no usable area", i),
				Path:        path + ".area",
				ActualValue: f.Area,
				Expected:    "> 0",
			})
			continue
		}
		total += f.Area
		if f.Subtype != t {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometric,
				Message:     fmt.Sprintf("footprint %d tagged %s in a %s run", i, f.Subtype, t),
				Path:        path + ".subtype",
				ActualValue: string(f.Subtype),
				Expected:    string(t),
			})
		}
		if !b.Buildable.IsEmpty() {
			if outside := f.Region.Difference(b.Buildable).Area(); outside > eps {
				r.AddError(validation.Result{
					Level:       validation.LevelSetback,
					Message:     fmt.Sprintf("footprint %d extends %.1f m² past the setback line", i, outside),
					Path:        path,
					ActualValue: outside,
				})
			}
		}
		for j, u := range units(f) {
			if constraint.Collides(u, b.Obstacles, eps) {
				r.AddError(validation.Result{
					Level:   validation.LevelGeometric,
					Message: fmt.Sprintf("footprint %d block %d overlaps an obstacle", i, j),
					Path:    path,
				})
			}
		}
		for k := 0; k < i; k++ {
			if constraint.Collides(f.Region, []geo.Region{fps[k].Region}, eps) {
				r.AddError(validation.Result{
					Level:   validation.LevelGeometric,
					Message: fmt.Sprintf("footprints %d and %d overlap", k, i),
					Path:    path,
				})
			}
		}
	}

	if b.Cap > 0 && total > b.Cap*(1+1e-9) {
		r.AddError(validation.Result{
			Level:       validation.LevelGeometric,
			Message:     fmt.Sprintf("total footprint %.1f m² exceeds the %.1f m² cap", total, b.Cap),
			Path:        "params.max_footprint",
			ActualValue: total,
			Expected:    fmt.Sprintf("<= %.1f", b.Cap),
		})
	}
	return r
}

func verifyIDs(fps []Footprint, r *validation.Report) {
	seen := make(map[string]int, len(fps))
	for i, f := range fps {
		if f.ID == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  fmt.Sprintf("footprint %d has an empty id", i),
				Path:     fmt.Sprintf("footprints[%d].id", i),
				Expected: "non-empty string",
			})
			continue
		}
		if prev, ok := seen[f.ID]; ok {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("duplicate id %q at %d and %d", f.ID, prev, i),
				Path:        fmt.Sprintf("footprints[%d].id", i),
				ActualValue: f.ID,
			})
		}
		seen[f.ID] = i
	}
}

// units returns the blocks checked against obstacles: the parts of a
// composite, otherwise the footprint itself.
func units(f Footprint) []geo.Region {
	if len(f.Parts) == 0 {
		return []geo.Region{f.Region}
	}
	out := make([]geo.Region, len(f.Parts))
	for i, p := range f.Parts {
		out[i] = p.Region
	}
	return out
}
