package analytics

import (
	"math"
	"testing"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func footprint(x0, y0, x1, y1 float64) massing.Footprint {
	r := geo.RectRegion(x0, y0, x1, y1)
	return massing.Footprint{Subtype: spec.TypologyTower, Region: r, Area: r.Area()}
}

func TestMeasure(t *testing.T) {
	plot := geo.RectRegion(0, 0, 60, 40)
	buildable := geo.RectRegion(6, 6, 54, 34)
	fps := []massing.Footprint{footprint(6, 6, 26, 26), footprint(34, 6, 54, 26)}
	p := &spec.TowerParams{CommonParams: spec.CommonParams{MaxFloors: 10}, Width: 20}

	m, report := Measure(plot, buildable, fps, p)
	if !report.Valid {
		t.Fatalf("report invalid: %v", report.Errors)
	}
	if m.Footprints != 2 || !approxEqual(m.FootprintAreaM2, 800, 1e-6) {
		t.Errorf("footprints = %d, area = %.1f", m.Footprints, m.FootprintAreaM2)
	}
	if !approxEqual(m.Coverage, 800.0/2400, 1e-9) {
		t.Errorf("coverage = %.4f", m.Coverage)
	}
	if !approxEqual(m.BuildableUse, 800.0/1344, 1e-9) {
		t.Errorf("buildable use = %.4f", m.BuildableUse)
	}
	if !approxEqual(m.GFAM2, 8000, 1e-6) || !approxEqual(m.FAR, 8000.0/2400, 1e-9) {
		t.Errorf("gfa = %.1f, far = %.3f", m.GFAM2, m.FAR)
	}
	if !approxEqual(m.MeanCompactness, math.Pi/4, 1e-9) {
		t.Errorf("compactness = %.4f, want π/4 for squares", m.MeanCompactness)
	}
	if !approxEqual(m.PlotAreaHa(), 0.24, 1e-9) {
		t.Errorf("plot area = %.3f ha", m.PlotAreaHa())
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}
}

func TestMeasureWithoutFloors(t *testing.T) {
	m, _ := Measure(geo.RectRegion(0, 0, 60, 40), geo.RectRegion(6, 6, 54, 34),
		[]massing.Footprint{footprint(6, 6, 26, 26)}, &spec.TowerParams{Width: 20})
	if m.GFAM2 != 0 || m.FAR != 0 {
		t.Errorf("gfa/far set without floors: %.1f %.2f", m.GFAM2, m.FAR)
	}
}

func TestMeasureEmpty(t *testing.T) {
	m, report := Measure(geo.RectRegion(0, 0, 60, 40), geo.Region{}, nil, nil)
	if m.Footprints != 0 || m.Coverage != 0 || m.MeanCompactness != 0 {
		t.Errorf("metrics of nothing = %+v", m)
	}
	if len(report.Info) != 0 || len(report.Warnings) != 0 {
		t.Errorf("expected an empty report, got %s", report.Summary)
	}
}

func TestHighCoverageWarns(t *testing.T) {
	plot := geo.RectRegion(0, 0, 40, 40)
	_, report := Measure(plot, plot, []massing.Footprint{footprint(0, 0, 40, 30)}, nil)
	if len(report.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(report.Warnings))
	}
	t.Logf("warning: %s", report.Warnings[0].Message)
}

func TestGFAOverLimitWarns(t *testing.T) {
	p := &spec.TowerParams{CommonParams: spec.CommonParams{MaxFloors: 10, MaxGFA: 3000}, Width: 20}
	_, report := Measure(geo.RectRegion(0, 0, 60, 40), geo.RectRegion(6, 6, 54, 34),
		[]massing.Footprint{footprint(6, 6, 26, 26)}, p)
	found := false
	for _, w := range report.Warnings {
		if w.Path == "params.max_gfa" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a max_gfa warning, got %v", report.Warnings)
	}
}
