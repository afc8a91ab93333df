// Package morph cross-fades two fully assembled scenes: padded
// per-attribute interpolation for the face and edge streams, and greedy
// nearest-neighbour correspondence for the glow-dot layer.
package morph

import (
	"sort"

	"github.com/lumenfold/lumenfold/internal/dots"
)

// DefaultMatchDistance is the nearest-neighbour cutoff for dot pairing.
const DefaultMatchDistance = 0.6

// Pair links a from-dot to a to-dot.
type Pair struct {
	From, To int
}

// Correspondence is the dot-layer morph plan. Matched pairs interpolate
// position and size; unmatched from-dots fade out, unmatched to-dots fade
// in.
type Correspondence struct {
	Pairs   []Pair
	FadeOut []int // indices into the from set
	FadeIn  []int // indices into the to set
}

// MatchDots pairs dots greedily from the larger side to the smaller,
// visiting larger dots first, with a maximum-distance cutoff.
func MatchDots(from, to []dots.Dot, maxDist float64) Correspondence {
	if maxDist <= 0 {
		maxDist = DefaultMatchDistance
	}

	fromLarger := len(from) >= len(to)
	big, small := from, to
	if !fromLarger {
		big, small = to, from
	}

	order := make([]int, len(big))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return big[order[a]].Size > big[order[b]].Size
	})

	used := make([]bool, len(small))
	var c Correspondence
	maxSq := maxDist * maxDist

	bigMatched := make([]bool, len(big))
	for _, bi := range order {
		best := -1
		bestSq := maxSq
		for si := range small {
			if used[si] {
				continue
			}
			d := big[bi].Pos.DistSq(small[si].Pos)
			if d < bestSq {
				bestSq = d
				best = si
			}
		}
		if best < 0 {
			continue
		}
		used[best] = true
		bigMatched[bi] = true
		if fromLarger {
			c.Pairs = append(c.Pairs, Pair{From: bi, To: best})
		} else {
			c.Pairs = append(c.Pairs, Pair{From: best, To: bi})
		}
	}

	for bi, m := range bigMatched {
		if m {
			continue
		}
		if fromLarger {
			c.FadeOut = append(c.FadeOut, bi)
		} else {
			c.FadeIn = append(c.FadeIn, bi)
		}
	}
	for si, m := range used {
		if m {
			continue
		}
		if fromLarger {
			c.FadeIn = append(c.FadeIn, si)
		} else {
			c.FadeOut = append(c.FadeOut, si)
		}
	}
	return c
}

// DotInstance is one dot of the blended layer at a morph position.
type DotInstance struct {
	Dot dots.Dot
	// FadeDir is -1 for a fading-out dot, +1 for a fading-in dot, 0 for
	// matched dots.
	FadeDir int
	// MatchFlag is 1 for matched dots.
	MatchFlag int
}

// BlendDots evaluates the dot layer at morphT. Matched pairs interpolate
// position and size; fading dots scale their intensity toward zero.
func (c Correspondence) BlendDots(from, to []dots.Dot, morphT float64) []DotInstance {
	out := make([]DotInstance, 0, len(c.Pairs)+len(c.FadeOut)+len(c.FadeIn))
	for _, p := range c.Pairs {
		a, b := from[p.From], to[p.To]
		d := a
		d.Pos = a.Pos.Lerp(b.Pos, morphT)
		d.Size = a.Size + (b.Size-a.Size)*morphT
		d.Intensity = a.Intensity + (b.Intensity-a.Intensity)*morphT
		d.Color = a.Color.Lerp(b.Color, morphT)
		// Discrete tier choice snaps at the midpoint.
		if morphT >= 0.5 {
			d.Tier = b.Tier
		}
		out = append(out, DotInstance{Dot: d, MatchFlag: 1})
	}
	for _, i := range c.FadeOut {
		d := from[i]
		d.Intensity *= 1 - morphT
		out = append(out, DotInstance{Dot: d, FadeDir: -1})
	}
	for _, i := range c.FadeIn {
		d := to[i]
		d.Intensity *= morphT
		out = append(out, DotInstance{Dot: d, FadeDir: +1})
	}
	return out
}
