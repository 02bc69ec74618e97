package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTypology is returned for a typology name that is not supported.
var ErrUnknownTypology = errors.New("unknown typology")

// ErrMissingPlot is returned when a site has no plot geometry.
var ErrMissingPlot = errors.New("site has no plot")

// Load reads a site from a YAML or JSON file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse decodes a site from YAML. JSON input is accepted as well since it is
// a subset of YAML.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parsing site: %w", err)
	}
	if site.Plot.Geometry == nil {
		return nil, ErrMissingPlot
	}
	return &site, nil
}

// ParseTypology resolves a typology name, accepting the common aliases
// ("point", "slab", "l-shape" and so on) in any case.
func ParseTypology(name string) (Typology, error) {
	t, ok := typologyAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTypology, name)
	}
	return t, nil
}

// UnmarshalYAML decodes a site and picks the params type from its typology.
func (s *Site) UnmarshalYAML(value *yaml.Node) error {
	type plain Site
	var raw struct {
		plain  `yaml:",inline"`
		Params yaml.Node `yaml:"params"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Site(raw.plain)

	if s.Frame == "" {
		s.Frame = FrameWGS84
	}
	if s.Frame != FrameWGS84 && s.Frame != FrameLocal {
		return fmt.Errorf("unknown frame %q (want %q or %q)", s.Frame, FrameWGS84, FrameLocal)
	}
	t, err := ParseTypology(string(s.Typology))
	if err != nil {
		return err
	}
	s.Typology = t
	s.Params, err = decodeParams(t, &raw.Params)
	return err
}

// UnmarshalYAML reads a GeoJSON object written in YAML or JSON.
func (g *Geometry) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	if t, _ := raw["type"].(string); t == "Feature" {
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return fmt.Errorf("geometry: %w", err)
		}
		g.Geometry = f.Geometry
		return nil
	}
	gj, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	g.Geometry = gj.Geometry()
	return nil
}

// MarshalJSON writes the geometry as GeoJSON.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.Geometry == nil {
		return []byte("null"), nil
	}
	return geojson.NewGeometry(g.Geometry).MarshalJSON()
}
