package validation

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

// ValidateSite performs schema validation on a parsed site. It checks
// structural correctness before any geometry is computed.
func ValidateSite(s *spec.Site) *Report {
	r := NewReport()

	validateGeometry(s, r)
	validateSetback(s.Setback, r)
	validateClearance(s.Clearance, r)
	if s.Params != nil {
		validateCommon(s.Params.Base(), r)
		validateTypology(s.Params, r)
	}

	return r
}

func polygonal(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon, orb.Ring, orb.Bound:
		return true
	}
	return false
}

func validateGeometry(s *spec.Site, r *Report) {
	if !polygonal(s.Plot.Geometry) {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "plot must be a Polygon or MultiPolygon",
			Path:     "plot",
			Expected: "Polygon | MultiPolygon",
		})
	}
	for i, o := range s.Obstacles {
		if !polygonal(o.Geometry) {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("obstacles[%d] must be polygonal", i),
				Path:    fmt.Sprintf("obstacles[%d]", i),
			})
		}
	}
	for i, e := range s.Existing {
		if !polygonal(e.Geometry) {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("existing[%d] must be polygonal", i),
				Path:    fmt.Sprintf("existing[%d]", i),
			})
		}
	}
}

func validateSetback(p spec.SetbackPolicy, r *Report) {
	distances := []struct {
		name  string
		value float64
	}{
		{"uniform", p.Uniform},
		{"front", p.Front},
		{"rear", p.Rear},
		{"side", p.Side},
	}
	for _, d := range distances {
		if d.value < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("setback.%s must be non-negative", d.name),
				Path:        "setback." + d.name,
				ActualValue: d.value,
				Expected:    ">= 0",
			})
		}
	}

	for i, side := range p.RoadSides {
		if !side.Valid() {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("setback.road_sides[%d] %q is not a cardinal side", i, side),
				Path:        fmt.Sprintf("setback.road_sides[%d]", i),
				ActualValue: string(side),
				Suggestions: []string{"Use one of north, east, south, west"},
			})
		}
	}

	if len(p.RoadSides) == 0 && (p.Front > 0 || p.Rear > 0 || p.Side > 0) {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "front/rear/side setbacks are ignored without road_sides",
			Path:        "setback.road_sides",
			Suggestions: []string{"Declare the road-facing sides, or use setback.uniform"},
		})
	}
}

func validateClearance(c *spec.Clearance, r *Report) {
	if c == nil {
		return
	}
	if c.ParkingWidth < 0 || c.RoadWidth < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "clearance widths must be non-negative",
			Path:        "clearance",
			ActualValue: fmt.Sprintf("parking=%.1f road=%.1f", c.ParkingWidth, c.RoadWidth),
		})
	}
}

func validateCommon(c *spec.CommonParams, r *Report) {
	if c.MinWidth <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "params.min_width must be greater than 0",
			Path:        "params.min_width",
			ActualValue: c.MinWidth,
			Expected:    "> 0",
		})
	}
	if c.MaxWidth < c.MinWidth {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("params.max_width (%.1f) is below min_width (%.1f)", c.MaxWidth, c.MinWidth),
			Path:        "params.max_width",
			ActualValue: c.MaxWidth,
			Expected:    fmt.Sprintf(">= %.1f", c.MinWidth),
		})
	}
	if c.MinLength <= 0 || c.MaxLength < c.MinLength {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("params length range %.1f-%.1f is invalid", c.MinLength, c.MaxLength),
			Path:        "params.min_length",
			ActualValue: fmt.Sprintf("%.1f-%.1f", c.MinLength, c.MaxLength),
			Expected:    "0 < min_length <= max_length",
		})
	}
	if c.Gap < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "params.gap must be non-negative",
			Path:        "params.gap",
			ActualValue: c.Gap,
			Expected:    ">= 0",
		})
	}
	if len(c.Target) != 0 && len(c.Target) != 2 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "params.target must be a [x, y] pair",
			Path:        "params.target",
			ActualValue: c.Target,
		})
	}
	if c.MaxFootprint < 0 || c.MaxGFA < 0 || c.MaxFloors < 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "params.max_footprint, max_gfa and max_floors must be non-negative",
			Path:     "params",
			Expected: ">= 0",
		})
	}
	if c.MaxGFA > 0 && c.MaxFloors == 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "params.max_gfa is ignored without max_floors",
			Path:        "params.max_floors",
			Suggestions: []string{"Set max_floors so the GFA budget can be turned into a footprint cap"},
		})
	}
}

func validateTypology(p spec.Params, r *Report) {
	c := p.Base()
	switch v := p.(type) {
	case *spec.TowerParams:
		if w, l := v.Size(); w <= 0 || l <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "tower width and length must be greater than 0",
				Path:        "params.width",
				ActualValue: fmt.Sprintf("%.1fx%.1f", w, l),
				Expected:    "> 0",
			})
		}
		if v.Spacing < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "params.spacing must be non-negative",
				Path:        "params.spacing",
				ActualValue: v.Spacing,
			})
		}
	case *spec.PerimeterParams:
		checkDepth(r, "params.depth", v.Depth, c)
	case *spec.LamellaParams:
		checkDepth(r, "params.depth", v.Depth, c)
		if v.RowSpacing < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "params.row_spacing must be non-negative",
				Path:        "params.row_spacing",
				ActualValue: v.RowSpacing,
			})
		}
	case *spec.CompositeParams:
		checkDepth(r, "params.wing_depth", v.WingDepth, c)
	}
}

func checkDepth(r *Report, path string, depth float64, c *spec.CommonParams) {
	if depth <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s must be greater than 0", path),
			Path:        path,
			ActualValue: depth,
			Expected:    "> 0",
		})
		return
	}
	if depth < c.MinWidth || depth > c.MaxWidth {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s %.1f is outside the width range %.1f-%.1f and will be clamped", path, depth, c.MinWidth, c.MaxWidth),
			Path:        path,
			ActualValue: depth,
			Expected:    fmt.Sprintf("%.1f-%.1f", c.MinWidth, c.MaxWidth),
		})
	}
}
