// Package analytics derives site metrics from generated footprints: ground
// coverage, buildable use, gross floor area and floor area ratio.
package analytics

import (
	"fmt"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

const (
	// highCoverage is the ground coverage above which a warning is raised.
	highCoverage = 0.60
	m2PerHa      = 10000
)

// Metrics summarises one generation result.
type Metrics struct {
	PlotAreaM2      float64 `json:"plot_area_m2"`
	BuildableAreaM2 float64 `json:"buildable_area_m2"`
	FootprintAreaM2 float64 `json:"footprint_area_m2"`
	Footprints      int     `json:"footprints"`
	Parts           int     `json:"parts"`

	// Coverage is footprint area over plot area.
	Coverage float64 `json:"coverage"`
	// BuildableUse is footprint area over buildable area.
	BuildableUse float64 `json:"buildable_use"`
	// MeanCompactness averages 4π·area/perimeter² over the footprints.
	MeanCompactness float64 `json:"mean_compactness"`

	// GFAM2 and FAR are only set when the params name a floor count.
	GFAM2 float64 `json:"gfa_m2,omitempty"`
	FAR   float64 `json:"far,omitempty"`
}

// PlotAreaHa returns the plot area in hectares.
func (m Metrics) PlotAreaHa() float64 {
	return m.PlotAreaM2 / m2PerHa
}

// Measure computes the metrics of a result and reports notable values.
func Measure(plot, buildable geo.Region, fps []massing.Footprint, p spec.Params) (*Metrics, *validation.Report) {
	report := validation.NewReport()
	m := &Metrics{
		PlotAreaM2:      plot.Area(),
		BuildableAreaM2: buildable.Area(),
		Footprints:      len(fps),
	}

	compactness := 0.0
	for _, f := range fps {
		m.FootprintAreaM2 += f.Area
		m.Parts += len(f.Parts)
		compactness += f.Region.Compactness()
	}
	if len(fps) > 0 {
		m.MeanCompactness = compactness / float64(len(fps))
	}
	if m.PlotAreaM2 > 0 {
		m.Coverage = m.FootprintAreaM2 / m.PlotAreaM2
	}
	if m.BuildableAreaM2 > 0 {
		m.BuildableUse = m.FootprintAreaM2 / m.BuildableAreaM2
	}

	if p != nil {
		if floors := p.Base().MaxFloors; floors > 0 {
			m.GFAM2 = m.FootprintAreaM2 * float64(floors)
			if m.PlotAreaM2 > 0 {
				m.FAR = m.GFAM2 / m.PlotAreaM2
			}
		}
	}

	validateMetrics(m, p, report)
	return m, report
}

func validateMetrics(m *Metrics, p spec.Params, r *validation.Report) {
	if m.Footprints == 0 {
		return
	}
	r.Infof(validation.LevelGeometric, "ground coverage %.1f%%, %.1f%% of the buildable area",
		100*m.Coverage, 100*m.BuildableUse)

	if m.Coverage > highCoverage {
		r.AddWarning(validation.Result{
			Level:       validation.LevelGeometric,
			Message:     fmt.Sprintf("ground coverage %.0f%% exceeds %.0f%%", 100*m.Coverage, 100*highCoverage),
			ActualValue: m.Coverage,
			Expected:    fmt.Sprintf("<= %.2f", highCoverage),
			Suggestions: []string{"Increase the gap or the setbacks", "Set max_footprint to cap the built area"},
		})
	}

	if p == nil || m.GFAM2 == 0 {
		return
	}
	r.Infof(validation.LevelGeometric, "gross floor area %.0f m² over %d floors, FAR %.2f",
		m.GFAM2, p.Base().MaxFloors, m.FAR)
	if limit := p.Base().MaxGFA; limit > 0 && m.GFAM2 > limit*(1+1e-9) {
		r.AddWarning(validation.Result{
			Level:       validation.LevelGeometric,
			Message:     fmt.Sprintf("gross floor area %.0f m² exceeds max_gfa %.0f m²", m.GFAM2, limit),
			Path:        "params.max_gfa",
			ActualValue: m.GFAM2,
			Expected:    fmt.Sprintf("<= %.0f", limit),
		})
	}
}
