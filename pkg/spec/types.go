package spec

import (
	"strings"

	"github.com/paulmach/orb"
)

// Site is the top-level description of one generation job: a plot, what is
// already on or around it, the setback policy and the typology to try.
type Site struct {
	Name      string        `yaml:"name" json:"name"`
	Frame     FrameKind     `yaml:"frame" json:"frame"`
	Plot      Geometry      `yaml:"plot" json:"plot"`
	Obstacles []Geometry    `yaml:"obstacles" json:"obstacles"`
	Existing  []Geometry    `yaml:"existing" json:"existing"`
	Setback   SetbackPolicy `yaml:"setback" json:"setback"`
	Clearance *Clearance    `yaml:"clearance" json:"clearance,omitempty"`
	Typology  Typology      `yaml:"typology" json:"typology"`
	Params    Params        `yaml:"-" json:"params"`
}

// FrameKind selects how plot coordinates are interpreted.
type FrameKind string

const (
	FrameWGS84 FrameKind = "wgs84"
	FrameLocal FrameKind = "local"
)

// Geometry is a polygonal GeoJSON geometry (Polygon, MultiPolygon, or a
// Feature wrapping one) embedded in a site file.
type Geometry struct {
	orb.Geometry
}

// Typology names a footprint archetype.
type Typology string

const (
	TypologyTower     Typology = "tower"
	TypologyPerimeter Typology = "perimeter"
	TypologyLamella   Typology = "lamella"
	TypologyL         Typology = "l"
	TypologyU         Typology = "u"
	TypologyT         Typology = "t"
	TypologyH         Typology = "h"
)

// Typologies lists every supported typology in a stable order.
var Typologies = []Typology{
	TypologyTower, TypologyPerimeter, TypologyLamella,
	TypologyL, TypologyU, TypologyT, TypologyH,
}

var typologyAliases = map[string]Typology{
	"tower":     TypologyTower,
	"point":     TypologyTower,
	"perimeter": TypologyPerimeter,
	"courtyard": TypologyPerimeter,
	"lamella":   TypologyLamella,
	"slab":      TypologyLamella,
	"l":         TypologyL,
	"l-shape":   TypologyL,
	"lshape":    TypologyL,
	"u":         TypologyU,
	"u-shape":   TypologyU,
	"ushape":    TypologyU,
	"t":         TypologyT,
	"t-shape":   TypologyT,
	"tshape":    TypologyT,
	"h":         TypologyH,
	"h-shape":   TypologyH,
	"hshape":    TypologyH,
}

// IsComposite reports whether the typology is built from wings.
func (t Typology) IsComposite() bool {
	switch t {
	case TypologyL, TypologyU, TypologyT, TypologyH:
		return true
	}
	return false
}

// Side is a cardinal side of a plot.
type Side string

const (
	North Side = "north"
	South Side = "south"
	East  Side = "east"
	West  Side = "west"
)

// Sides lists the cardinal sides in a stable order.
var Sides = []Side{North, East, South, West}

// Opposite returns the side across the plot.
func (s Side) Opposite() Side {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return s
}

// Valid reports whether s names a cardinal side.
func (s Side) Valid() bool {
	switch s {
	case North, South, East, West:
		return true
	}
	return false
}

// SetbackPolicy describes mandatory clearance from the plot boundary. Either
// a uniform distance, or front/rear/side distances where "front" applies to
// every side with road access and "rear" to the sides opposite them.
type SetbackPolicy struct {
	Uniform   float64 `yaml:"uniform" json:"uniform"`
	Front     float64 `yaml:"front" json:"front"`
	Rear      float64 `yaml:"rear" json:"rear"`
	Side      float64 `yaml:"side" json:"side"`
	RoadSides []Side  `yaml:"road_sides" json:"road_sides"`
}

// Directional reports whether the policy uses front/rear/side distances.
// Without any road side there is no front to measure from, so the policy
// falls back to a uniform setback.
func (p SetbackPolicy) Directional() bool {
	return len(p.RoadSides) > 0 && (p.Front > 0 || p.Rear > 0 || p.Side > 0)
}

// HasRoad reports whether s is declared as a road-access side.
func (p SetbackPolicy) HasRoad(s Side) bool {
	for _, r := range p.RoadSides {
		if strings.EqualFold(string(r), string(s)) {
			return true
		}
	}
	return false
}

// Clearance reserves a peripheral ring for parking and an access road.
type Clearance struct {
	ParkingWidth float64 `yaml:"parking_width" json:"parking_width"`
	RoadWidth    float64 `yaml:"road_width" json:"road_width"`
}

// Width returns the total ring width.
func (c *Clearance) Width() float64 {
	if c == nil {
		return 0
	}
	return c.ParkingWidth + c.RoadWidth
}
