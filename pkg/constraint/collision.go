package constraint

import (
	"github.com/dhconnelly/rtreego"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
)

// DefaultEpsilon is the overlap area, in m², above which two shapes collide.
const DefaultEpsilon = 1.0

// Guard answers collision queries against a growing set of obstacles. An
// R-tree over obstacle bounds narrows each query to the obstacles whose
// boxes overlap the candidate before exact intersection areas are computed.
// A Guard is not safe for concurrent use.
type Guard struct {
	tree *rtreego.Rtree
	eps  float64
	n    int
}

type obstacle struct {
	region geo.Region
	rect   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (o *obstacle) Bounds() rtreego.Rect {
	return o.rect
}

// NewGuard returns a guard over the given obstacles. A non-positive eps
// selects DefaultEpsilon.
func NewGuard(eps float64, obstacles ...geo.Region) *Guard {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	g := &Guard{tree: rtreego.NewTree(2, 25, 50), eps: eps}
	for _, o := range obstacles {
		g.Add(o)
	}
	return g
}

// Add registers a region, typically a block placed earlier in the same
// generation run, as an obstacle for later queries.
func (g *Guard) Add(r geo.Region) {
	if r.IsEmpty() {
		return
	}
	g.tree.Insert(&obstacle{region: r, rect: rect(r)})
	g.n++
}

// Len returns the number of registered obstacles.
func (g *Guard) Len() int {
	return g.n
}

// Collides reports whether c overlaps any obstacle by more than the guard's
// epsilon.
func (g *Guard) Collides(c geo.Region) bool {
	if c.IsEmpty() || g.n == 0 {
		return false
	}
	for _, hit := range g.tree.SearchIntersect(rect(c)) {
		o := hit.(*obstacle)
		if geo.IntersectionArea(c, o.region) > g.eps {
			return true
		}
	}
	return false
}

// Collides reports whether c overlaps any obstacle by more than eps.
func Collides(c geo.Region, obstacles []geo.Region, eps float64) bool {
	return NewGuard(eps, obstacles...).Collides(c)
}

// rect returns the bounds of r as an R-tree rectangle. Degenerate extents are
// padded since the tree requires positive side lengths.
func rect(r geo.Region) rtreego.Rect {
	lo, hi := r.BoundingBox()
	w := max(hi.X-lo.X, 1e-6)
	h := max(hi.Y-lo.Y, 1e-6)
	rr, _ := rtreego.NewRect(rtreego.Point{lo.X, lo.Y}, []float64{w, h})
	return rr
}
