// Package selection picks one candidate out of many, deterministically for a
// seed, while spreading successive seeds across structurally different
// anchors.
package selection

import (
	"fmt"
	"math"
	"sort"
)

// OriginKind names the plot feature a candidate was anchored to.
type OriginKind int

const (
	KindGrid OriginKind = iota
	KindRow
	KindRing
	KindCorner
	KindEdge
	KindEdgePair
	KindTarget
)

var kindNames = [...]string{"grid", "row", "ring", "corner", "edge", "edge-pair", "target"}

func (k OriginKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Variant tags the size variant a candidate was built with.
type Variant int

const (
	VariantStandard Variant = iota
	VariantSlim
	VariantDeep
)

var variantNames = [...]string{"standard", "slim", "deep"}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Origin identifies where a candidate came from.
type Origin struct {
	Kind    OriginKind
	Index   int
	Variant Variant
}

func (o Origin) String() string {
	return fmt.Sprintf("%s#%d/%s", o.Kind, o.Index, o.Variant)
}

// Anchor returns the structural family of the origin, without the variant.
// Candidates sharing an anchor form one diversity group.
func (o Origin) Anchor() Origin {
	return Origin{Kind: o.Kind, Index: o.Index}
}

func (o Origin) less(p Origin) bool {
	if o.Kind != p.Kind {
		return o.Kind < p.Kind
	}
	if o.Index != p.Index {
		return o.Index < p.Index
	}
	return o.Variant < p.Variant
}

// Candidate is a scored option of any payload type.
type Candidate[T any] struct {
	Value  T
	Score  float64
	Origin Origin
}

// Score returns the ranking score of a shape: its area, weighted by its
// compactness for composite shapes.
func Score(area, compactness float64, composite bool) float64 {
	if composite {
		return area * compactness
	}
	return area
}

// Diversify orders candidates for diversity: groups by anchor, sorts each
// group by descending score, then interleaves the groups round-robin in
// ascending anchor order. Candidates with a non-finite score are dropped.
func Diversify[T any](cands []Candidate[T]) []Candidate[T] {
	groups := make(map[Origin][]Candidate[T])
	var keys []Origin
	for _, c := range cands {
		if math.IsNaN(c.Score) || math.IsInf(c.Score, 0) {
			continue
		}
		k := c.Origin.Anchor()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	for _, k := range keys {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Score > g[j].Score })
	}

	out := make([]Candidate[T], 0, len(cands))
	for round := 0; ; round++ {
		added := false
		for _, k := range keys {
			if g := groups[k]; round < len(g) {
				out = append(out, g[round])
				added = true
			}
		}
		if !added {
			return out
		}
	}
}

// Select returns diverse[seed % len(diverse)]. ok is false when no candidate
// has a usable score.
func Select[T any](cands []Candidate[T], seed uint64) (Candidate[T], bool) {
	diverse := Diversify(cands)
	if len(diverse) == 0 {
		var zero Candidate[T]
		return zero, false
	}
	return diverse[seed%uint64(len(diverse))], true
}
