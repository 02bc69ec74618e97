package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Frame maps input coordinates to the local plan (metres, X east, Y north)
// and back. A geographic frame goes through spherical mercator and removes
// its scale distortion at the frame origin, which is accurate to well under
// a centimetre across a single plot. The zero Frame is the identity.
type Frame struct {
	geographic bool
	origin     orb.Point // mercator metres
	scale      float64   // ground metres per mercator metre
}

// LocalFrame returns the identity frame for input already in metres.
func LocalFrame() Frame {
	return Frame{scale: 1}
}

// GeographicFrame returns a frame centred on the given longitude/latitude.
func GeographicFrame(origin orb.Point) Frame {
	return Frame{
		geographic: true,
		origin:     project.WGS84.ToMercator(origin),
		scale:      math.Cos(origin[1] * math.Pi / 180),
	}
}

// FrameFor returns a geographic frame centred on the bound of g.
func FrameFor(g orb.Geometry) Frame {
	return GeographicFrame(g.Bound().Center())
}

// Geographic reports whether the frame converts from longitude/latitude.
func (f Frame) Geographic() bool {
	return f.geographic
}

// ToPlan converts an input coordinate to the local plan.
func (f Frame) ToPlan(p orb.Point) Point2D {
	if !f.geographic {
		return Pt(p[0], p[1])
	}
	m := project.WGS84.ToMercator(p)
	return Pt((m[0]-f.origin[0])*f.scale, (m[1]-f.origin[1])*f.scale)
}

// FromPlan converts a local plan point back to an input coordinate.
func (f Frame) FromPlan(p Point2D) orb.Point {
	if !f.geographic {
		return orb.Point{p.X, p.Y}
	}
	m := orb.Point{p.X/f.scale + f.origin[0], p.Y/f.scale + f.origin[1]}
	return project.Mercator.ToWGS84(m)
}
