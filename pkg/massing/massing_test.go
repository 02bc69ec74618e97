package massing

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/golang/geo/s1"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/selection"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func rectPlot() geo.Region {
	return geo.RectRegion(0, 0, 60, 40)
}

func lPlot() geo.Region {
	return geo.RegionOf(geo.NewPolygon(
		geo.Pt(0, 0), geo.Pt(80, 0), geo.Pt(80, 14), geo.Pt(14, 14), geo.Pt(14, 60), geo.Pt(0, 60)))
}

func towerParams() *spec.TowerParams {
	p, _ := spec.DefaultParams(spec.TypologyTower)
	tp := p.(*spec.TowerParams)
	tp.Width = 20
	tp.Spacing = 8
	return tp
}

func composite(t spec.Typology) *spec.CompositeParams {
	p, _ := spec.DefaultParams(t)
	return p.(*spec.CompositeParams)
}

func generate(t *testing.T, req Request) []Footprint {
	t.Helper()
	fps, report := NewEngine(DefaultPolicy(), nil).Generate(req)
	if !report.Valid {
		t.Fatalf("generation failed: %v", report.Errors)
	}
	return fps
}

// within reports whether r lies inside outer up to eps m² of overhang.
func within(r, outer geo.Region, eps float64) bool {
	return r.Area()-geo.IntersectionArea(r, outer) <= eps
}

func TestTowersInsideSetback(t *testing.T) {
	fps := generate(t, Request{
		Plot:    rectPlot(),
		Setback: spec.SetbackPolicy{Uniform: 6},
		Params:  towerParams(),
	})
	if len(fps) == 0 {
		t.Fatal("expected at least one tower")
	}
	buildable := geo.RectRegion(6, 6, 54, 34)
	ids := map[string]bool{}
	for _, fp := range fps {
		if !approxEqual(fp.Area, 400, 0.5) {
			t.Errorf("tower area = %f, want ~400", fp.Area)
		}
		if !within(fp.Region, buildable, 0.01) {
			t.Errorf("tower %s crosses the setback line", fp.ID)
		}
		if fp.Subtype != spec.TypologyTower {
			t.Errorf("subtype = %q, want tower", fp.Subtype)
		}
		if fp.ID == "" || ids[fp.ID] {
			t.Errorf("missing or duplicate id %q", fp.ID)
		}
		ids[fp.ID] = true
	}
	t.Logf("%d towers from %s", len(fps), fps[0].Origin)
}

func TestTowersAvoidObstacles(t *testing.T) {
	obstacle := geo.RectRegion(6, 6, 30, 34)
	fps := generate(t, Request{
		Plot:      rectPlot(),
		Obstacles: []geo.Region{obstacle},
		Setback:   spec.SetbackPolicy{Uniform: 6},
		Params:    towerParams(),
	})
	if len(fps) == 0 {
		t.Fatal("expected a tower east of the obstacle")
	}
	for _, fp := range fps {
		if a := geo.IntersectionArea(fp.Region, obstacle); a > 1 {
			t.Errorf("tower overlaps the obstacle by %f m²", a)
		}
	}
}

func TestTowersSpendCapCumulatively(t *testing.T) {
	p := towerParams()
	p.MaxFootprint = 600
	fps := generate(t, Request{Plot: rectPlot(), Setback: spec.SetbackPolicy{Uniform: 6}, Params: p})
	total := 0.0
	for _, fp := range fps {
		total += fp.Area
	}
	if total > 600+1e-6 {
		t.Errorf("towers use %f m², cap is 600", total)
	}
	if len(fps) == 0 {
		t.Error("expected at least one tower under the cap")
	}
}

func TestTowersTargetAnchor(t *testing.T) {
	target := geo.Pt(30, 20)
	fps := generate(t, Request{
		Plot:    rectPlot(),
		Setback: spec.SetbackPolicy{Uniform: 6},
		Params:  towerParams(),
		Target:  &target,
	})
	if len(fps) == 0 {
		t.Fatal("expected a tower at the target")
	}
	if fps[0].Origin.Kind != selection.KindTarget {
		t.Errorf("origin = %s, want target", fps[0].Origin)
	}
	hit := false
	for _, fp := range fps {
		hit = hit || fp.Region.Contains(target)
	}
	if !hit {
		t.Error("no tower covers the target point")
	}
}

func TestVastuReserveStaysFree(t *testing.T) {
	p := towerParams()
	p.VastuAvoid = true
	fps, report := NewEngine(DefaultPolicy(), nil).Generate(Request{
		Plot:    rectPlot(),
		Setback: spec.SetbackPolicy{Uniform: 6},
		Params:  p,
	})
	reserve := vastuReserve(geo.RectRegion(6, 6, 54, 34))
	for _, fp := range fps {
		if a := geo.IntersectionArea(fp.Region, reserve); a > 1 {
			t.Errorf("tower overlaps the north-east reserve by %f m²", a)
		}
	}
	reported := false
	for _, info := range report.Info {
		reported = reported || strings.Contains(info.Message, "north-east")
	}
	if !reported {
		t.Errorf("expected the reserve to be reported, got %v", report.Info)
	}
}

func TestInfeasibleSetbackReports(t *testing.T) {
	fps, report := NewEngine(DefaultPolicy(), nil).Generate(Request{
		Plot:    rectPlot(),
		Setback: spec.SetbackPolicy{Uniform: 25},
		Params:  towerParams(),
	})
	if len(fps) != 0 {
		t.Errorf("expected no footprints, got %d", len(fps))
	}
	if report.Valid || report.Errors[0].Level != validation.LevelSetback {
		t.Errorf("expected a setback error, got %+v", report)
	}
}

func TestPerimeterLeavesCourtyard(t *testing.T) {
	p, _ := spec.DefaultParams(spec.TypologyPerimeter)
	fps := generate(t, Request{Plot: rectPlot(), Params: p})
	if len(fps) != 1 {
		t.Fatalf("expected one ring, got %d", len(fps))
	}
	ring := fps[0].Region
	if len(ring.Parts) != 1 || len(ring.Parts[0].Holes) != 1 {
		t.Fatalf("expected a single part with one courtyard, got %+v", ring.Parts)
	}
	if fps[0].Area >= 2400 || fps[0].Area <= 0 {
		t.Errorf("ring area = %f", fps[0].Area)
	}
	if fps[0].Origin.Kind != selection.KindRing {
		t.Errorf("origin = %s, want ring", fps[0].Origin)
	}
}

func TestLamellaRows(t *testing.T) {
	p, _ := spec.DefaultParams(spec.TypologyLamella)
	fps := generate(t, Request{Plot: geo.RectRegion(0, 0, 80, 60), Params: p})
	if len(fps) < 2 {
		t.Fatalf("expected several blocks, got %d", len(fps))
	}
	c := p.Base()
	for i, a := range fps {
		short, long := geo.SidesFromAreaPerimeter(a.Area, a.Region.Perimeter())
		if short < c.MinWidth-1 || long < c.MinLength-1 {
			t.Errorf("block %d is %.1f x %.1f", i, short, long)
		}
		for _, b := range fps[i+1:] {
			if geo.IntersectionArea(a.Region, b.Region) > 1 {
				t.Errorf("blocks overlap")
			}
		}
	}
}

func testRun(buildable geo.Region, p spec.Params) *run {
	e := NewEngine(DefaultPolicy(), nil)
	return e.newRun(Request{Plot: buildable, Params: p}, buildable, validation.NewReport())
}

func TestSegmentLongWing(t *testing.T) {
	p := composite(spec.TypologyL)
	p.MinLength, p.MaxLength, p.Gap, p.WingDepth = 25, 55, 6, 14
	r := testRun(lPlot(), p)

	wing := geo.RectRegion(0, 0, 80, 14)
	blocks := r.segment(wing, geo.Pt(0, 0), geo.Pt(80, 0))
	if want := int((80 - 14) / (55 + 6)); len(blocks) < want {
		t.Fatalf("got %d segments, want at least %d", len(blocks), want)
	}
	for i, b := range blocks {
		short, long := geo.SidesFromAreaPerimeter(b.Area(), b.Perimeter())
		if short < 13 {
			t.Errorf("segment %d: short side %.2f < 13", i, short)
		}
		if long < 25-1e-6 || long > 55+1e-6 {
			t.Errorf("segment %d: long side %.2f outside [25, 55]", i, long)
		}
	}
	for i := 1; i < len(blocks); i++ {
		if d := geo.Distance(blocks[i-1], blocks[i]); d < p.Gap-1e-6 {
			t.Errorf("segments %d and %d are %.2f m apart, gap is %.0f", i-1, i, d, p.Gap)
		}
	}
}

func TestDepthVariantsClamp(t *testing.T) {
	p := composite(spec.TypologyU)
	r := testRun(rectPlot(), p)
	vs := r.depthVariants(14)
	if len(vs) != 3 {
		t.Fatalf("expected slim, standard and deep, got %+v", vs)
	}
	limit := math.Min(p.MaxWidth, 0.45*40)
	for _, v := range vs {
		if v.depth < p.MinWidth || v.depth > limit+1e-9 {
			t.Errorf("%s depth %.2f outside [%.1f, %.1f]", v.tag, v.depth, p.MinWidth, limit)
		}
	}
}

func checkComposite(t *testing.T, shape spec.Typology, plot geo.Region, sb spec.SetbackPolicy, minParts int) Footprint {
	t.Helper()
	req := Request{Plot: plot, Setback: sb, Params: composite(shape)}
	buildable, ok := NewEngine(DefaultPolicy(), nil).Buildable(req)
	if !ok {
		t.Fatalf("%s: setback leaves nothing buildable", shape)
	}
	fps := generate(t, req)
	if len(fps) != 1 {
		t.Fatalf("%s: expected one footprint, got %d", shape, len(fps))
	}
	fp := fps[0]
	if len(fp.Parts) < minParts {
		t.Fatalf("%s: expected at least %d parts, got %d", shape, minParts, len(fp.Parts))
	}
	sum := 0.0
	for i, part := range fp.Parts {
		if part.Subtype != shape {
			t.Errorf("%s: part %d has subtype %q", shape, i, part.Subtype)
		}
		if !within(part.Region, buildable, 0.01) {
			t.Errorf("%s: part %d crosses the setback line", shape, i)
		}
		for _, other := range fp.Parts[:i] {
			if d := geo.Distance(part.Region, other.Region); d < DefaultPolicy().CornerClearance-1e-6 {
				t.Errorf("%s: parts %.2f m apart", shape, d)
			}
		}
		sum += part.Area
	}
	if !approxEqual(sum, fp.Area, 1e-6) {
		t.Errorf("%s: parts sum to %f, footprint is %f", shape, sum, fp.Area)
	}
	t.Logf("%s: %d parts, %.1f m², origin %s", shape, len(fp.Parts), fp.Area, fp.Origin)
	return fp
}

func TestLShape(t *testing.T) {
	fp := checkComposite(t, spec.TypologyL, lPlot(), spec.SetbackPolicy{}, 2)
	if fp.Origin.Kind != selection.KindCorner || fp.Origin.Index != 0 {
		t.Errorf("origin = %s, want the corner at the origin", fp.Origin)
	}
	for i, part := range fp.Parts {
		short, _ := geo.SidesFromAreaPerimeter(part.Area, part.Region.Perimeter())
		if short < composite(spec.TypologyL).MinWidth-1 {
			t.Errorf("part %d is only %.2f m wide", i, short)
		}
	}
}

func TestUShape(t *testing.T) {
	checkComposite(t, spec.TypologyU, rectPlot(), spec.SetbackPolicy{}, 3)
}

func TestTShape(t *testing.T) {
	checkComposite(t, spec.TypologyT, rectPlot(), spec.SetbackPolicy{}, 2)
}

func TestHShape(t *testing.T) {
	fp := checkComposite(t, spec.TypologyH, rectPlot(), spec.SetbackPolicy{}, 3)
	if fp.Origin.Kind != selection.KindEdgePair {
		t.Errorf("origin = %s, want an edge pair", fp.Origin)
	}
}

func TestLShapeWithSetback(t *testing.T) {
	// 2 m off the 14 m arms leaves a 10 m wide L.
	fp := checkComposite(t, spec.TypologyL, lPlot(), spec.SetbackPolicy{Uniform: 2}, 2)
	if fp.Origin.Kind != selection.KindCorner {
		t.Errorf("origin = %s, want a corner", fp.Origin)
	}
	if !fp.Region.Contains(geo.Pt(7, 30)) || !fp.Region.Contains(geo.Pt(50, 7)) {
		t.Error("expected one wing along each arm")
	}
}

func TestCompositeRespectsCap(t *testing.T) {
	p := composite(spec.TypologyL)
	p.MaxFootprint = 500
	fps := generate(t, Request{Plot: lPlot(), Params: p})
	if len(fps) != 1 {
		t.Fatalf("expected one capped footprint, got %d", len(fps))
	}
	// Both wings are shrunk together until they fit.
	if fps[0].Area > 500+1e-6 || fps[0].Area < 400 {
		t.Errorf("footprint area %f, want just under the 500 m² cap", fps[0].Area)
	}
	if len(fps[0].Parts) != 2 {
		t.Errorf("expected both wings to survive the cap, got %d parts", len(fps[0].Parts))
	}
}

func TestBuildableOnNonConvexPlots(t *testing.T) {
	u := geo.RegionOf(geo.NewPolygon(
		geo.Pt(0, 0), geo.Pt(50, 0), geo.Pt(50, 45), geo.Pt(35, 45), geo.Pt(35, 15), geo.Pt(15, 15), geo.Pt(15, 45), geo.Pt(0, 45)))
	tests := []struct {
		name   string
		plot   geo.Region
		sb     spec.SetbackPolicy
		lo, hi float64
	}{
		{"L uniform", lPlot(), spec.SetbackPolicy{Uniform: 2}, 1220, 1224},
		{"U uniform", u, spec.SetbackPolicy{Uniform: 3}, 939, 943},
		// Baseline 2 everywhere, then 4 more off the 76 m south edge.
		{"L directional", lPlot(), spec.SetbackPolicy{Front: 6, Rear: 2, Side: 2, RoadSides: []spec.Side{spec.South}}, 914, 921},
	}
	e := NewEngine(DefaultPolicy(), nil)
	for _, tt := range tests {
		got, ok := e.Buildable(Request{Plot: tt.plot, Setback: tt.sb})
		if !ok {
			t.Errorf("%s: expected a buildable area", tt.name)
			continue
		}
		if got.Area() < tt.lo || got.Area() > tt.hi {
			t.Errorf("%s: buildable area %f outside [%.0f, %.0f]", tt.name, got.Area(), tt.lo, tt.hi)
		}
		if !within(got, tt.plot, 0.01) {
			t.Errorf("%s: buildable area leaves the plot", tt.name)
		}
	}
}

func TestPerimeterOnLPlot(t *testing.T) {
	plot := geo.RegionOf(geo.NewPolygon(
		geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(100, 50), geo.Pt(50, 50), geo.Pt(50, 100), geo.Pt(0, 100)))
	req := Request{Plot: plot, Setback: spec.SetbackPolicy{Uniform: 3}}
	req.Params, _ = spec.DefaultParams(spec.TypologyPerimeter)
	buildable, ok := NewEngine(DefaultPolicy(), nil).Buildable(req)
	if !ok {
		t.Fatal("expected a buildable area")
	}

	fps := generate(t, req)
	if len(fps) != 1 {
		t.Fatalf("expected one ring, got %d", len(fps))
	}
	ring := fps[0].Region
	if len(ring.Parts) != 1 || len(ring.Parts[0].Holes) != 1 {
		t.Fatalf("expected a single part with one courtyard, got %d parts", len(ring.Parts))
	}
	if fps[0].Area <= 0 || fps[0].Area >= buildable.Area()-100 {
		t.Errorf("ring area %f of %f buildable", fps[0].Area, buildable.Area())
	}
	if !within(ring, buildable, 0.01) {
		t.Error("ring crosses the setback line")
	}
	// The courtyard is an L as well: both arms keep open space.
	if ring.Contains(geo.Pt(25, 75)) || ring.Contains(geo.Pt(75, 25)) {
		t.Error("courtyard was filled in")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, shape := range []spec.Typology{spec.TypologyL, spec.TypologyLamella} {
		p1, _ := spec.DefaultParams(shape)
		p2, _ := spec.DefaultParams(shape)
		p1.Base().Seed, p2.Base().Seed = 3, 3
		a := generate(t, Request{Plot: geo.RectRegion(0, 0, 80, 60), Params: p1})
		b := generate(t, Request{Plot: geo.RectRegion(0, 0, 80, 60), Params: p2})
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: same seed gave different footprints", shape)
		}
	}
}

func TestOppositeEdges(t *testing.T) {
	tol := 45 * s1.Degree
	cases := []struct {
		d1, d2 geo.Point2D
		want   bool
	}{
		{geo.Pt(1, 0), geo.Pt(-1, 0), true},
		{geo.Pt(1, 0), geo.Pt(-1, 0.5), true},
		{geo.Pt(1, 0), geo.Pt(0, 1), false},
		{geo.Pt(1, 0), geo.Pt(1, 0), false},
	}
	for _, c := range cases {
		if got := opposite(c.d1, c.d2, tol); got != c.want {
			t.Errorf("opposite(%v, %v) = %v, want %v", c.d1, c.d2, got, c.want)
		}
	}
}

func TestFeatureCollection(t *testing.T) {
	fps := generate(t, Request{Plot: rectPlot(), Params: composite(spec.TypologyU)})
	fc := FeatureCollection(fps, geo.LocalFrame())
	if len(fc.Features) != len(fps) {
		t.Fatalf("features = %d, want %d", len(fc.Features), len(fps))
	}
	f := fc.Features[0]
	if f.Properties["type"] != "generated" || f.Properties["subtype"] != "u" {
		t.Errorf("unexpected properties %v", f.Properties)
	}
	if _, err := json.Marshal(fc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parts, ok := f.Properties["parts"].([]map[string]any)
	if !ok || len(parts) != len(fps[0].Parts) {
		t.Errorf("parts property = %v", f.Properties["parts"])
	}
}

func TestFootprintIDStable(t *testing.T) {
	a := footprintID(7, spec.TypologyTower, 0)
	if a != footprintID(7, spec.TypologyTower, 0) {
		t.Error("id is not stable")
	}
	if a == footprintID(7, spec.TypologyTower, 1) || a == footprintID(8, spec.TypologyTower, 0) {
		t.Error("ids collide")
	}
}

func TestNewEngineFillsPolicy(t *testing.T) {
	e := NewEngine(Policy{WingRetention: 0.8}, nil)
	got := e.Policy()
	if got.WingRetention != 0.8 {
		t.Errorf("wing retention = %v, want 0.8", got.WingRetention)
	}
	if got.TowerContainment != DefaultPolicy().TowerContainment || got.MaxAnchors != 20 {
		t.Errorf("defaults not filled: %+v", got)
	}
}
