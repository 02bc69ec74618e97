package geo

import "math"

// Point2D is a position or a vector in the plan frame, in metres with X
// east and Y north.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt builds a Point2D.
func Pt(x, y float64) Point2D { return Point2D{X: x, Y: y} }

func (p Point2D) Add(q Point2D) Point2D      { return Point2D{p.X + q.X, p.Y + q.Y} }
func (p Point2D) Sub(q Point2D) Point2D      { return Point2D{p.X - q.X, p.Y - q.Y} }
func (p Point2D) Scale(s float64) Point2D    { return Point2D{p.X * s, p.Y * s} }
func (p Point2D) Dot(q Point2D) float64      { return p.X*q.X + p.Y*q.Y }
func (p Point2D) Length() float64            { return math.Hypot(p.X, p.Y) }
func (p Point2D) Distance(q Point2D) float64 { return p.Sub(q).Length() }

// Cross is the z component of the 3D cross product; positive when q lies
// counterclockwise of p.
func (p Point2D) Cross(q Point2D) float64    { return p.X*q.Y - p.Y*q.X }

// Perp is p turned a quarter counterclockwise, so for an edge direction it
// points to the interior of a counterclockwise ring.
func (p Point2D) Perp() Point2D { return Point2D{-p.Y, p.X} }

// Angle is the bearing of the vector in radians counterclockwise from east.
func (p Point2D) Angle() float64 { return math.Atan2(p.Y, p.X) }

// Normalize returns the unit vector along p, or zero for a zero vector.
func (p Point2D) Normalize() Point2D {
	l := p.Length()
	if l < 1e-12 {
		return Point2D{}
	}
	return p.Scale(1 / l)
}

// Lerp interpolates from p (t = 0) to q (t = 1).
func (p Point2D) Lerp(q Point2D, t float64) Point2D {
	return p.Add(q.Sub(p).Scale(t))
}

func (p Point2D) IsFinite() bool {
	for _, v := range [2]float64{p.X, p.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MidPoint returns the midpoint of pq.
func MidPoint(p, q Point2D) Point2D { return p.Lerp(q, 0.5) }

// Direction returns the unit vector at angle radians from east.
func Direction(angle float64) Point2D { return Point2D{math.Cos(angle), math.Sin(angle)} }
