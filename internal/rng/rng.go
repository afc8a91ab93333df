// Package rng implements the deterministic random kernel: a string hash
// producing 32-bit states and a uniform [0,1) stream. Both are exact
// 32-bit integer recurrences, so the same seed label yields bit-identical
// sequences on every host.
package rng

import "errors"

// ErrInvalidSeed reports an absent or empty seed label.
var ErrInvalidSeed = errors.New("invalid seed")

// Stream produces uniforms in [0,1). Each call advances the state.
type Stream func() float64

// StringHash returns a producer of 32-bit hash states derived from s
// (xmur3). Repeated calls walk the avalanche chain, so independent
// sub-streams can be split off one label.
func StringHash(s string) func() uint32 {
	h := uint32(1779033703) ^ uint32(len(s))
	for _, c := range s {
		h = (h ^ uint32(c)) * 3432918353
		h = h<<13 | h>>19
	}
	return func() uint32 {
		h = (h ^ h>>16) * 2246822507
		h = (h ^ h>>13) * 3266489909
		h ^= h >> 16
		return h
	}
}

// UniformStream returns a uniform [0,1) stream seeded from a 32-bit state
// (mulberry32).
func UniformStream(seed uint32) Stream {
	state := seed
	return func() float64 {
		state += 0x6D2B79F5
		z := state
		z = (z ^ z>>15) * (z | 1)
		z ^= z + (z^z>>7)*(z|61)
		return float64(z^z>>14) / 4294967296.0
	}
}

// FromLabel builds the canonical stream for a seed label:
// UniformStream(StringHash(label)()). An empty label is rejected.
func FromLabel(label string) (Stream, error) {
	if label == "" {
		return nil, ErrInvalidSeed
	}
	return UniformStream(StringHash(label)()), nil
}

// MustFromLabel is FromLabel for call sites that have already validated
// the label. It panics on an empty label.
func MustFromLabel(label string) Stream {
	s, err := FromLabel(label)
	if err != nil {
		panic(err)
	}
	return s
}

// Range returns a uniform value in [lo, hi).
func (s Stream) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s()
}

// Signed returns a uniform value in [-half, half).
func (s Stream) Signed(half float64) float64 {
	return (s()*2 - 1) * half
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (s Stream) Intn(n int) int {
	i := int(s() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports true with probability p.
func (s Stream) Chance(p float64) bool { return s() < p }
