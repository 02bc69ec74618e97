package massing

import (
	"github.com/paulmach/orb/geojson"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
)

// FeatureCollection encodes footprints as GeoJSON in the given frame. Each
// feature carries its id, the "generated" type tag, its subtype and area,
// and for composites the ordered parts.
func FeatureCollection(fps []Footprint, frame geo.Frame) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, fp := range fps {
		f := geojson.NewFeature(frame.Geometry(fp.Region))
		f.ID = fp.ID
		f.Properties["id"] = fp.ID
		f.Properties["type"] = "generated"
		f.Properties["subtype"] = string(fp.Subtype)
		f.Properties["area"] = fp.Area
		f.Properties["origin"] = fp.Origin.String()
		if len(fp.Parts) > 0 {
			parts := make([]map[string]any, 0, len(fp.Parts))
			for _, p := range fp.Parts {
				parts = append(parts, map[string]any{
					"subtype":  string(p.Subtype),
					"area":     p.Area,
					"geometry": geojson.NewGeometry(frame.Geometry(p.Region)),
				})
			}
			f.Properties["parts"] = parts
		}
		fc.Append(f)
	}
	return fc
}
