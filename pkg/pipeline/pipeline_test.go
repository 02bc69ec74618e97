package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/cache"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
)

const localSite = `
name: local-tower
frame: local
plot:
  type: Polygon
  coordinates: [[[0, 0], [60, 0], [60, 40], [0, 40], [0, 0]]]
setback:
  uniform: 6
typology: tower
params:
  width: 20
  spacing: 8
`

const geoSite = `{
  "name": "bengaluru",
  "plot": {"type": "Polygon", "coordinates": [[[77.59, 12.97], [77.59055, 12.97], [77.59055, 12.97036], [77.59, 12.97036], [77.59, 12.97]]]},
  "setback": {"uniform": 6},
  "typology": "tower",
  "params": {"width": 20, "spacing": 8}
}`

func newRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return New(massing.NewEngine(massing.DefaultPolicy(), nil), c, nil)
}

func TestRunLocalSite(t *testing.T) {
	res, err := newRunner(t, nil).RunBytes(context.Background(), []byte(localSite), Options{})
	if err != nil {
		t.Fatalf("RunBytes: %v", err)
	}
	if len(res.Footprints.Features) == 0 {
		t.Fatal("expected at least one footprint")
	}
	if !res.Report.Valid {
		t.Errorf("report invalid: %v", res.Report.Errors)
	}
	f := res.Footprints.Features[0]
	if f.Properties["type"] != "generated" {
		t.Errorf("type = %v, want generated", f.Properties["type"])
	}
	b := f.Geometry.Bound()
	if b.Min[0] < 6-1e-6 || b.Max[0] > 54+1e-6 || b.Min[1] < 6-1e-6 || b.Max[1] > 34+1e-6 {
		t.Errorf("footprint bound %v crosses the setback line", b)
	}
}

func TestRunGeographicSite(t *testing.T) {
	res, err := newRunner(t, nil).RunBytes(context.Background(), []byte(geoSite), Options{})
	if err != nil {
		t.Fatalf("RunBytes: %v", err)
	}
	if len(res.Footprints.Features) == 0 {
		t.Fatal("expected at least one footprint")
	}
	plot := orb.Bound{Min: orb.Point{77.59, 12.97}, Max: orb.Point{77.59055, 12.97036}}
	for _, f := range res.Footprints.Features {
		b := f.Geometry.Bound()
		if !plot.Contains(b.Min) || !plot.Contains(b.Max) {
			t.Errorf("footprint %v leaves the plot %v", b, plot)
		}
		area, _ := f.Properties["area"].(float64)
		if area < 300 || area > 401 {
			t.Errorf("tower area %.1f m², want about 400", area)
		}
	}
}

func TestRunSeedOverride(t *testing.T) {
	seed := uint64(42)
	res, err := newRunner(t, nil).RunBytes(context.Background(), []byte(localSite), Options{Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed != 42 {
		t.Errorf("seed = %d, want 42", res.Seed)
	}
}

func TestRunSeedOverrideLeavesSiteUntouched(t *testing.T) {
	site, err := spec.Parse([]byte(localSite))
	if err != nil {
		t.Fatal(err)
	}
	site.Params.Base().Seed = 7
	params := site.Params

	seed := uint64(42)
	res, err := newRunner(t, nil).Run(context.Background(), site, Options{Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed != 42 {
		t.Errorf("result seed = %d, want 42", res.Seed)
	}
	if site.Params != params || site.Params.Base().Seed != 7 {
		t.Errorf("site seed changed to %d", site.Params.Base().Seed)
	}
}

func TestRunUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newRunner(t, c)
	ctx := context.Background()

	first, err := r.RunBytes(ctx, []byte(localSite), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Error("first run should not be cached")
	}
	second, err := r.RunBytes(ctx, []byte(localSite), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second run should come from the cache")
	}
	if len(second.Footprints.Features) != len(first.Footprints.Features) {
		t.Errorf("cached result has %d features, want %d",
			len(second.Footprints.Features), len(first.Footprints.Features))
	}

	seed := uint64(9)
	third, _ := r.RunBytes(ctx, []byte(localSite), Options{Seed: &seed})
	if third.Cached {
		t.Error("a different seed must not hit the cache")
	}
}

func TestRunInvalidSite(t *testing.T) {
	bad := `
frame: local
plot: {type: Polygon, coordinates: [[[0,0],[60,0],[60,40],[0,40],[0,0]]]}
setback: {uniform: -3}
typology: lamella
`
	res, err := newRunner(t, nil).RunBytes(context.Background(), []byte(bad), Options{})
	if !errors.Is(err, ErrInvalidSite) {
		t.Fatalf("expected ErrInvalidSite, got %v", err)
	}
	if res == nil || res.Report.Valid {
		t.Error("expected an invalid report with the error")
	}
}

func TestProjectLocalSite(t *testing.T) {
	site, err := spec.Parse([]byte(`
frame: local
plot: {type: Polygon, coordinates: [[[0,0],[60,0],[60,40],[0,40],[0,0]]]}
obstacles:
  - {type: Polygon, coordinates: [[[50,30],[60,30],[60,40],[50,40],[50,30]]]}
clearance: {parking_width: 2.5, road_width: 3}
typology: u
params: {target: [30, 20]}
`))
	if err != nil {
		t.Fatal(err)
	}
	frame, req, err := Project(site)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if frame.Geographic() {
		t.Error("local site should not be projected")
	}
	if math.Abs(req.Plot.Area()-2400) > 1e-6 {
		t.Errorf("plot area = %f, want 2400", req.Plot.Area())
	}
	if len(req.Obstacles) != 1 || math.Abs(req.Obstacles[0].Area()-100) > 1e-6 {
		t.Errorf("obstacles = %+v", req.Obstacles)
	}
	if req.Clearance != 5.5 {
		t.Errorf("clearance = %v, want 5.5", req.Clearance)
	}
	if req.Target == nil || req.Target.X != 30 || req.Target.Y != 20 {
		t.Errorf("target = %v, want (30, 20)", req.Target)
	}
}

func TestProjectRejectsLinePlot(t *testing.T) {
	site, err := spec.Parse([]byte("frame: local\nplot: {type: LineString, coordinates: [[0,0],[10,0]]}\ntypology: tower\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Project(site); !errors.Is(err, geo.ErrUnsupportedGeometry) {
		t.Errorf("expected ErrUnsupportedGeometry, got %v", err)
	}
}

func TestRunReportsMetrics(t *testing.T) {
	res, err := newRunner(t, nil).RunBytes(context.Background(), []byte(localSite), Options{})
	if err != nil {
		t.Fatalf("RunBytes: %v", err)
	}
	if res.Metrics == nil {
		t.Fatal("expected metrics")
	}
	if !approxEqual(res.Metrics.PlotAreaM2, 2400, 1e-6) || !approxEqual(res.Metrics.BuildableAreaM2, 1344, 1) {
		t.Errorf("plot/buildable = %.1f/%.1f", res.Metrics.PlotAreaM2, res.Metrics.BuildableAreaM2)
	}
	if res.Metrics.Footprints != len(res.Footprints.Features) {
		t.Errorf("metrics count %d, features %d", res.Metrics.Footprints, len(res.Footprints.Features))
	}
	if res.Metrics.Coverage <= 0 || res.Metrics.Coverage > 1 {
		t.Errorf("coverage = %.3f", res.Metrics.Coverage)
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
