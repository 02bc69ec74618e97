package constraint

import (
	"reflect"
	"testing"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
)

func lShape() geo.Region {
	return geo.RegionOf(geo.NewPolygon(
		geo.Pt(0, 0), geo.Pt(40, 0), geo.Pt(40, 15), geo.Pt(15, 15), geo.Pt(15, 35), geo.Pt(0, 35)))
}

func TestEnforceWithinBudgetIsIdentity(t *testing.T) {
	l := lShape()
	got, ok := Enforce(l, 1000, 0)
	if !ok {
		t.Fatal("expected feasible")
	}
	if !reflect.DeepEqual(got, l) {
		t.Error("region within budget should be returned unchanged")
	}
	got, ok = Enforce(l, 0, 0)
	if !ok || !reflect.DeepEqual(got, l) {
		t.Error("zero budget means uncapped")
	}
}

func TestEnforceShrinksL(t *testing.T) {
	got, ok := Enforce(lShape(), 500, 0)
	if !ok {
		t.Fatal("expected the L to shrink under 500 m²")
	}
	// Steps of 1, 1 then 0.2 stop at a 3 m erosion, about 488 m².
	if got.Area() > 500 || got.Area() < 480 {
		t.Errorf("expected area in (480, 500], got %f", got.Area())
	}
	if len(got.Parts) != 1 {
		t.Errorf("expected the L to stay one part, got %d", len(got.Parts))
	}
	if !got.Contains(geo.Pt(7, 30)) || !got.Contains(geo.Pt(35, 7)) {
		t.Error("shrunk L lost one of its arms")
	}
}

func TestEnforceMinAreaBlocks(t *testing.T) {
	// The same L reaches the budget when no floor is set, so only minArea
	// can make it infeasible.
	if got, ok := Enforce(lShape(), 500, 0); !ok || got.Area() > 500 {
		t.Fatalf("expected the L to fit 500 m² without a floor, got %f", got.Area())
	}
	if got, ok := Enforce(lShape(), 500, 450); !ok || got.Area() < 450 {
		t.Errorf("a floor under the result should not block, got %f", got.Area())
	}
	if _, ok := Enforce(lShape(), 500, 550); ok {
		t.Error("expected infeasible when min area sits above the budget")
	}
}

func TestEnforceVanishes(t *testing.T) {
	// A 4 m strip cannot lose enough area without collapsing.
	if _, ok := Enforce(geo.RectRegion(0, 0, 100, 4), 1, 0); ok {
		t.Error("expected infeasible for a thin strip")
	}
}

func TestShrinkStep(t *testing.T) {
	cases := []struct {
		area, max, want float64
	}{
		{2100, 1000, 2.0},
		{1600, 1000, 1.0},
		{1200, 1000, 0.2},
	}
	for _, c := range cases {
		if got := ShrinkStep(c.area, c.max); got != c.want {
			t.Errorf("ShrinkStep(%v, %v) = %v, want %v", c.area, c.max, got, c.want)
		}
	}
}

func TestCollidesMatchesBruteForce(t *testing.T) {
	obstacles := []geo.Region{
		geo.RectRegion(0, 0, 10, 10),
		geo.RectRegion(30, 30, 40, 40),
		geo.RectRegion(50, 0, 51, 100),
	}
	candidates := []geo.Region{
		geo.RectRegion(9.5, 0, 20, 10),  // 5 m² overlap
		geo.RectRegion(9.95, 0, 20, 10), // 0.5 m² overlap
		geo.RectRegion(12, 12, 28, 28),  // clear
		geo.RectRegion(35, 35, 45, 45),  // 25 m² overlap
		geo.RectRegion(10, 0, 20, 10),   // touching edge
		lShape().Translate(geo.Pt(45, 20)),
	}
	for i, c := range candidates {
		want := false
		for _, o := range obstacles {
			if geo.IntersectionArea(c, o) > DefaultEpsilon {
				want = true
			}
		}
		if got := Collides(c, obstacles, DefaultEpsilon); got != want {
			t.Errorf("candidate %d: Collides = %v, brute force %v", i, got, want)
		}
	}
}

func TestGuardAdd(t *testing.T) {
	g := NewGuard(0)
	block := geo.RectRegion(0, 0, 20, 20)
	if g.Collides(block) {
		t.Error("empty guard should never collide")
	}
	g.Add(block)
	if g.Len() != 1 {
		t.Fatalf("expected 1 obstacle, got %d", g.Len())
	}
	if !g.Collides(geo.RectRegion(10, 10, 30, 30)) {
		t.Error("expected collision with the placed block")
	}
	if g.Collides(geo.RectRegion(28, 0, 48, 20)) {
		t.Error("block 8 m away should not collide")
	}
}
