package massing

import "github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"

// vastuReserve returns the north-east cell of a 3×3 grid over the
// buildable bounds, kept free of buildings.
func vastuReserve(buildable geo.Region) geo.Region {
	lo, hi := buildable.BoundingBox()
	w, h := hi.X-lo.X, hi.Y-lo.Y
	return geo.RectRegion(lo.X+2*w/3, lo.Y+2*h/3, hi.X, hi.Y)
}
