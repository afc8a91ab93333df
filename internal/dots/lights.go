package dots

import (
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
)

// MaxLights is the fixed significant-light slot count.
const MaxLights = 10

// Light is one significant light entry. Zero-intensity entries pad the
// set out to MaxLights.
type Light struct {
	Pos       geom.Vec3
	Color     params.RGB
	Intensity float64
}

// LightSet is the fixed-size significant-light pack; Count records the
// real size.
type LightSet struct {
	Lights [MaxLights]Light
	Count  int
}

// SignificantLights filters the hero and medium tiers into the bounded
// light set, truncating at MaxLights.
func SignificantLights(all []Dot) LightSet {
	var set LightSet
	for _, d := range all {
		if d.Tier != TierHero && d.Tier != TierMedium {
			continue
		}
		if set.Count >= MaxLights {
			break
		}
		set.Lights[set.Count] = Light{
			Pos:       d.Pos,
			Color:     d.Color,
			Intensity: d.Intensity,
		}
		set.Count++
	}
	return set
}

// Illumination sums the inverse-square contributions of every light at p,
// clamped to 3.0 per the face lighting contract.
func (s LightSet) Illumination(p geom.Vec3) float64 {
	sum := 0.0
	for i := 0; i < s.Count; i++ {
		l := s.Lights[i]
		d2 := p.DistSq(l.Pos)
		if d2 < 1e-6 {
			d2 = 1e-6
		}
		sum += l.Intensity / d2
	}
	if sum > 3.0 {
		sum = 3.0
	}
	return sum
}
