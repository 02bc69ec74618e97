package geo

import "math"

// Polygon is a single closed ring defined by its vertices in order. The
// closing vertex is implicit: the last vertex connects back to the first.
type Polygon struct {
	Vertices []Point2D
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// Rect returns the axis-aligned rectangle spanning (minX, minY)-(maxX, maxY)
// in counterclockwise order.
func Rect(minX, minY, maxX, maxY float64) Polygon {
	return NewPolygon(Pt(minX, minY), Pt(maxX, minY), Pt(maxX, maxY), Pt(minX, maxY))
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// EnsureCW returns the polygon with vertices in clockwise order.
func (p Polygon) EnsureCW() Polygon {
	if p.SignedArea() > 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Centroid returns the centroid of the polygon.
func (p Polygon) Centroid() Point2D {
	n := len(p.Vertices)
	if n == 0 {
		return Point2D{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		// Degenerate: return average.
		sum := Point2D{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{cx * f, cy * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return minP, maxP
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// OnBoundary reports whether pt lies within tol of any edge of the polygon.
func (p Polygon) OnBoundary(pt Point2D, tol float64) bool {
	for i := range p.Vertices {
		a, b := p.Edge(i)
		if PointSegmentDistance(pt, a, b) <= tol {
			return true
		}
	}
	return false
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Vertices[i].Distance(p.Vertices[j])
	}
	return total
}

// IsConvex reports whether every turn of the ring has the same sign.
// Collinear vertices are ignored.
func (p Polygon) IsConvex() bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := p.Vertices[(i+n-1)%n]
		b := p.Vertices[i]
		c := p.Vertices[(i+1)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) < 1e-9 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// IsConvexVertex reports whether the interior angle at vertex i of a
// counterclockwise ring is below 180 degrees.
func (p Polygon) IsConvexVertex(i int) bool {
	n := len(p.Vertices)
	a := p.Vertices[(i+n-1)%n]
	b := p.Vertices[i%n]
	c := p.Vertices[(i+1)%n]
	return b.Sub(a).Cross(c.Sub(b)) > 1e-9
}

// InteriorAngle returns the interior angle at vertex i of a counterclockwise
// ring, in radians.
func (p Polygon) InteriorAngle(i int) float64 {
	n := len(p.Vertices)
	a := p.Vertices[(i+n-1)%n]
	b := p.Vertices[i%n]
	c := p.Vertices[(i+1)%n]
	in := b.Sub(a)
	out := c.Sub(b)
	turn := math.Atan2(in.Cross(out), in.Dot(out))
	return math.Pi - turn
}

// Clean drops repeated vertices (closer than tol), a repeated closing vertex,
// and vertices that are collinear with their neighbours.
func (p Polygon) Clean(tol float64) Polygon {
	pts := make([]Point2D, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		if !v.IsFinite() {
			continue
		}
		if len(pts) > 0 && pts[len(pts)-1].Distance(v) <= tol {
			continue
		}
		pts = append(pts, v)
	}
	for len(pts) > 1 && pts[0].Distance(pts[len(pts)-1]) <= tol {
		pts = pts[:len(pts)-1]
	}
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		for i := 0; i < len(pts); i++ {
			n := len(pts)
			a := pts[(i+n-1)%n]
			b := pts[i]
			c := pts[(i+1)%n]
			span := a.Distance(c)
			if span < 1e-12 || math.Abs(b.Sub(a).Cross(c.Sub(a)))/span <= tol {
				pts = append(pts[:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	if len(pts) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: pts}
}

// Translate returns the polygon shifted by d.
func (p Polygon) Translate(d Point2D) Polygon {
	out := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Add(d)
	}
	return Polygon{Vertices: out}
}

// MaxDistanceTo returns the maximum distance from any vertex to the given point.
func (p Polygon) MaxDistanceTo(pt Point2D) float64 {
	maxDist := 0.0
	for _, v := range p.Vertices {
		maxDist = math.Max(maxDist, v.Distance(pt))
	}
	return maxDist
}
