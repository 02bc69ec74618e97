package geo

import (
	"math"
	"sort"
)

// Part is one connected piece of a Region: an outer ring with optional holes.
// Outer rings are kept counterclockwise and holes clockwise.
type Part struct {
	Outer Polygon
	Holes []Polygon
}

// Area returns the outer area minus the hole areas.
func (p Part) Area() float64 {
	a := p.Outer.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	return math.Max(0, a)
}

// Perimeter returns the length of all rings of the part.
func (p Part) Perimeter() float64 {
	l := p.Outer.Perimeter()
	for _, h := range p.Holes {
		l += h.Perimeter()
	}
	return l
}

// Contains reports whether pt is inside the outer ring and outside every hole.
func (p Part) Contains(pt Point2D) bool {
	if !p.Outer.Contains(pt) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// Rings returns the outer ring followed by the holes.
func (p Part) Rings() []Polygon {
	return append([]Polygon{p.Outer}, p.Holes...)
}

// Region is a planar area made of zero or more disjoint parts. The zero value
// is the empty region. Regions are treated as immutable values: every
// operation returns a new Region.
type Region struct {
	Parts []Part
}

// RegionOf builds a region whose parts are the given rings without holes.
// Rings are oriented counterclockwise and empty rings are skipped.
func RegionOf(polys ...Polygon) Region {
	var r Region
	for _, p := range polys {
		if p.IsEmpty() {
			continue
		}
		r.Parts = append(r.Parts, Part{Outer: p.EnsureCCW()})
	}
	return r
}

// RectRegion returns the axis-aligned rectangle region.
func RectRegion(minX, minY, maxX, maxY float64) Region {
	return RegionOf(Rect(minX, minY, maxX, maxY))
}

// IsEmpty reports whether the region has no area.
func (r Region) IsEmpty() bool {
	return len(r.Parts) == 0 || r.Area() < 1e-9
}

// Area returns the total area of all parts.
func (r Region) Area() float64 {
	total := 0.0
	for _, p := range r.Parts {
		total += p.Area()
	}
	return total
}

// Perimeter returns the total boundary length of all parts, holes included.
func (r Region) Perimeter() float64 {
	total := 0.0
	for _, p := range r.Parts {
		total += p.Perimeter()
	}
	return total
}

// Compactness returns 4π·area/perimeter², 1.0 for a circle.
func (r Region) Compactness() float64 {
	per := r.Perimeter()
	if per < 1e-9 {
		return 0
	}
	return 4 * math.Pi * r.Area() / (per * per)
}

// Contains reports whether pt lies inside any part.
func (r Region) Contains(pt Point2D) bool {
	for _, p := range r.Parts {
		if p.Contains(pt) {
			return true
		}
	}
	return false
}

// BoundingBox returns the axis-aligned bounds of all outer rings.
func (r Region) BoundingBox() (Point2D, Point2D) {
	first := true
	var minP, maxP Point2D
	for _, p := range r.Parts {
		lo, hi := p.Outer.BoundingBox()
		if first {
			minP, maxP = lo, hi
			first = false
			continue
		}
		minP = Pt(math.Min(minP.X, lo.X), math.Min(minP.Y, lo.Y))
		maxP = Pt(math.Max(maxP.X, hi.X), math.Max(maxP.Y, hi.Y))
	}
	return minP, maxP
}

// Centroid returns the area-weighted centroid of the outer rings.
func (r Region) Centroid() Point2D {
	var sum Point2D
	total := 0.0
	for _, p := range r.Parts {
		a := p.Outer.Area()
		sum = sum.Add(p.Outer.Centroid().Scale(a))
		total += a
	}
	if total < 1e-12 {
		return sum
	}
	return sum.Scale(1 / total)
}

// Vertices returns every vertex of every outer ring.
func (r Region) Vertices() []Point2D {
	var pts []Point2D
	for _, p := range r.Parts {
		pts = append(pts, p.Outer.Vertices...)
	}
	return pts
}

// Split returns each part as its own region.
func (r Region) Split() []Region {
	out := make([]Region, 0, len(r.Parts))
	for _, p := range r.Parts {
		out = append(out, Region{Parts: []Part{p}})
	}
	return out
}

// Largest returns the part with the greatest area as a region.
func (r Region) Largest() Region {
	best := -1
	bestArea := 0.0
	for i, p := range r.Parts {
		if a := p.Area(); best < 0 || a > bestArea {
			best, bestArea = i, a
		}
	}
	if best < 0 {
		return Region{}
	}
	return Region{Parts: []Part{r.Parts[best]}}
}

// Merge returns a region holding the parts of all given regions. The parts
// are assumed not to overlap; use Union when they may.
func Merge(regions ...Region) Region {
	var out Region
	for _, r := range regions {
		out.Parts = append(out.Parts, r.Parts...)
	}
	return out
}

// DropSmallerThan removes parts whose area is below minArea.
func (r Region) DropSmallerThan(minArea float64) Region {
	var out Region
	for _, p := range r.Parts {
		if p.Area() >= minArea {
			out.Parts = append(out.Parts, p)
		}
	}
	return out
}

// IsConvex reports whether the region is a single convex part without holes.
func (r Region) IsConvex() bool {
	return len(r.Parts) == 1 && len(r.Parts[0].Holes) == 0 && r.Parts[0].Outer.IsConvex()
}

// Translate returns the region shifted by d.
func (r Region) Translate(d Point2D) Region {
	out := Region{Parts: make([]Part, len(r.Parts))}
	for i, p := range r.Parts {
		np := Part{Outer: p.Outer.Translate(d)}
		for _, h := range p.Holes {
			np.Holes = append(np.Holes, h.Translate(d))
		}
		out.Parts[i] = np
	}
	return out
}

// assemble classifies loose rings into parts: a ring nested inside an even
// number of other rings is an outer ring, an odd nesting depth makes it a
// hole of its innermost enclosing outer ring.
func assemble(rings []Polygon) Region {
	type entry struct {
		ring  Polygon
		area  float64
		depth int
		owner int
	}
	entries := make([]entry, 0, len(rings))
	for _, ring := range rings {
		ring = ring.Clean(1e-7)
		if ring.IsEmpty() || ring.Area() < 1e-7 {
			continue
		}
		entries = append(entries, entry{ring: ring, area: ring.Area(), owner: -1})
	}
	// Larger rings first so an enclosing ring always precedes what it holds.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].area > entries[j].area })

	for i := range entries {
		inside := interiorPoint(entries[i].ring)
		for j := 0; j < i; j++ {
			if entries[j].ring.Contains(inside) {
				entries[i].depth++
				if entries[j].depth%2 == 0 {
					entries[i].owner = j
				}
			}
		}
	}

	index := make(map[int]int)
	var out Region
	for i, e := range entries {
		if e.depth%2 == 0 {
			index[i] = len(out.Parts)
			out.Parts = append(out.Parts, Part{Outer: e.ring.EnsureCCW()})
		}
	}
	for _, e := range entries {
		if e.depth%2 == 1 && e.owner >= 0 {
			k := index[e.owner]
			out.Parts[k].Holes = append(out.Parts[k].Holes, e.ring.EnsureCW())
		}
	}
	return out
}

// interiorPoint returns a point just inside the ring near its first edge.
func interiorPoint(ring Polygon) Point2D {
	ccw := ring.EnsureCCW()
	n := len(ccw.Vertices)
	for i := 0; i < n; i++ {
		a, b := ccw.Edge(i)
		if a.Distance(b) < 1e-6 {
			continue
		}
		mid := MidPoint(a, b)
		step := math.Min(1e-4, a.Distance(b)*1e-3)
		inside := mid.Add(b.Sub(a).Normalize().Perp().Scale(step))
		if ccw.Contains(inside) {
			return inside
		}
	}
	return ring.Vertices[0]
}
