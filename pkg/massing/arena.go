package massing

import "github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"

// ref indexes a region held by an arena.
type ref int

// arena owns the regions built during one run. Wings, segments and
// candidates refer to them by index and never modify them.
type arena struct {
	regions []geo.Region
}

func (a *arena) put(r geo.Region) ref {
	a.regions = append(a.regions, r)
	return ref(len(a.regions) - 1)
}

func (a *arena) get(i ref) geo.Region {
	return a.regions[i]
}

// merge returns the union of disjoint regions by reference.
func (a *arena) merge(refs []ref) geo.Region {
	parts := make([]geo.Region, 0, len(refs))
	for _, i := range refs {
		parts = append(parts, a.regions[i])
	}
	return geo.Merge(parts...)
}
