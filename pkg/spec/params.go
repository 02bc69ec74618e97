package spec

import (
	"fmt"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// Params is the typology-specific parameter set. Exactly one implementation
// exists per typology family, chosen when the site file is decoded.
type Params interface {
	Typology() Typology
	Base() *CommonParams
}

// CommonParams holds the dimensional rules shared by every typology.
// Lengths are metres and areas square metres.
type CommonParams struct {
	// Orientation is the running axis in degrees counterclockwise from east.
	// Nil lets the engine follow the dominant plot edge.
	Orientation *float64 `yaml:"orientation" json:"orientation,omitempty"`

	MinWidth  float64 `yaml:"min_width" json:"min_width"`
	MaxWidth  float64 `yaml:"max_width" json:"max_width"`
	MinLength float64 `yaml:"min_length" json:"min_length"`
	MaxLength float64 `yaml:"max_length" json:"max_length"`
	Gap       float64 `yaml:"gap" json:"gap"`

	Target     []float64 `yaml:"target" json:"target,omitempty"`
	VastuAvoid bool      `yaml:"vastu_avoid" json:"vastu_avoid"`
	Seed       uint64    `yaml:"seed" json:"seed"`

	MaxFootprint float64 `yaml:"max_footprint" json:"max_footprint,omitempty"`
	MaxFloors    int     `yaml:"max_floors" json:"max_floors,omitempty"`
	MaxGFA       float64 `yaml:"max_gfa" json:"max_gfa,omitempty"`
}

// TargetPoint returns the anchor point when one is set.
func (c *CommonParams) TargetPoint() (orb.Point, bool) {
	if len(c.Target) < 2 {
		return orb.Point{}, false
	}
	return orb.Point{c.Target[0], c.Target[1]}, true
}

// FootprintCap returns the largest area a single footprint may take, the
// smaller of MaxFootprint and MaxGFA spread over MaxFloors. Zero means
// uncapped.
func (c *CommonParams) FootprintCap() float64 {
	limit := c.MaxFootprint
	if c.MaxGFA > 0 && c.MaxFloors > 0 {
		gfa := c.MaxGFA / float64(c.MaxFloors)
		if limit <= 0 || gfa < limit {
			limit = gfa
		}
	}
	return limit
}

// TowerParams configures point towers on a grid.
type TowerParams struct {
	CommonParams `yaml:",inline"`

	Width float64 `yaml:"width" json:"width"`
	// Length defaults to Width for a square tower.
	Length  float64 `yaml:"length" json:"length"`
	Spacing float64 `yaml:"spacing" json:"spacing"`
	// MaxCount limits the number of towers. Zero places as many as fit.
	MaxCount int `yaml:"max_count" json:"max_count"`
}

func (p *TowerParams) Typology() Typology  { return TypologyTower }
func (p *TowerParams) Base() *CommonParams { return &p.CommonParams }

// Size returns the tower width and length.
func (p *TowerParams) Size() (float64, float64) {
	if p.Length <= 0 {
		return p.Width, p.Width
	}
	return p.Width, p.Length
}

// PerimeterParams configures a courtyard block along the buildable edge.
type PerimeterParams struct {
	CommonParams `yaml:",inline"`

	Depth float64 `yaml:"depth" json:"depth"`
}

func (p *PerimeterParams) Typology() Typology  { return TypologyPerimeter }
func (p *PerimeterParams) Base() *CommonParams { return &p.CommonParams }

// LamellaParams configures parallel slab rows.
type LamellaParams struct {
	CommonParams `yaml:",inline"`

	Depth      float64 `yaml:"depth" json:"depth"`
	RowSpacing float64 `yaml:"row_spacing" json:"row_spacing"`
}

func (p *LamellaParams) Typology() Typology  { return TypologyLamella }
func (p *LamellaParams) Base() *CommonParams { return &p.CommonParams }

// CompositeParams configures the wing-based L, U, T and H shapes.
type CompositeParams struct {
	CommonParams `yaml:",inline"`

	Shape     Typology `yaml:"-" json:"shape"`
	WingDepth float64  `yaml:"wing_depth" json:"wing_depth"`
}

func (p *CompositeParams) Typology() Typology  { return p.Shape }
func (p *CompositeParams) Base() *CommonParams { return &p.CommonParams }

// CloneParams returns a deep copy of p, so a caller can override fields
// without touching the original.
func CloneParams(p Params) Params {
	var out Params
	switch v := p.(type) {
	case *TowerParams:
		c := *v
		out = &c
	case *PerimeterParams:
		c := *v
		out = &c
	case *LamellaParams:
		c := *v
		out = &c
	case *CompositeParams:
		c := *v
		out = &c
	default:
		return p
	}
	b := out.Base()
	if b.Orientation != nil {
		o := *b.Orientation
		b.Orientation = &o
	}
	b.Target = append([]float64(nil), b.Target...)
	return out
}

func defaultCommon() CommonParams {
	return CommonParams{
		MinWidth:  10,
		MaxWidth:  25,
		MinLength: 15,
		MaxLength: 60,
		Gap:       6,
	}
}

// DefaultParams returns the parameter set for t with every default filled.
func DefaultParams(t Typology) (Params, error) {
	switch {
	case t == TypologyTower:
		return &TowerParams{CommonParams: defaultCommon(), Width: 20, Spacing: 8}, nil
	case t == TypologyPerimeter:
		return &PerimeterParams{CommonParams: defaultCommon(), Depth: 12}, nil
	case t == TypologyLamella:
		return &LamellaParams{CommonParams: defaultCommon(), Depth: 12, RowSpacing: 15}, nil
	case t.IsComposite():
		return &CompositeParams{CommonParams: defaultCommon(), Shape: t, WingDepth: 14}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTypology, t)
}

// decodeParams decodes the params node over the defaults for t.
func decodeParams(t Typology, node *yaml.Node) (Params, error) {
	p, err := DefaultParams(t)
	if err != nil {
		return nil, err
	}
	if node != nil && node.Kind != 0 {
		if err := node.Decode(p); err != nil {
			return nil, fmt.Errorf("decoding %s params: %w", t, err)
		}
	}
	return p, nil
}
