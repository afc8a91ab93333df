// Package text derives the deterministic portrait title and alt-text.
// Fixing (seed, controls) fixes the title bit-for-bit; alt-text is fixed
// up to the caller-supplied node count.
package text

import (
	"fmt"

	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

var dimWords = []string{"Quiet", "Dim", "Hushed", "Shadowed"}
var brightWords = []string{"Radiant", "Blazing", "Luminous", "Incandescent"}
var midLightWords = []string{"Glowing", "Amber", "Soft", "Smouldering"}

var sparseForms = []string{"Whisper", "Thread", "Trace", "Sliver"}
var denseForms = []string{"Storm", "Swarm", "Cascade", "Torrent"}
var midForms = []string{"Field", "Current", "Drift", "Bloom"}

var coherentTails = []string{"of Aligned Light", "in Slow Orbit", "of Gathered Sparks", "Holding Still"}
var fracturedTails = []string{"of Broken Glass", "Coming Apart", "of Scattered Shards", "in Freefall"}
var midTails = []string{"of Drifting Embers", "Between Tides", "of Folded Paper", "at Dusk"}

var hueBands = []string{"Crimson", "Amber", "Golden", "Verdant", "Teal", "Azure", "Violet", "Rose"}

func pick(words []string, random rng.Stream) string {
	return words[random.Intn(len(words))]
}

// GenerateTitle samples the descriptor lists keyed off control thresholds
// with cross-sample randomness from the caller's stream.
func GenerateTitle(c params.Controls, random rng.Stream) string {
	c = c.Sanitize()

	var light string
	switch {
	case c.Luminosity < 0.33:
		light = pick(dimWords, random)
	case c.Luminosity > 0.72:
		light = pick(brightWords, random)
	default:
		light = pick(midLightWords, random)
	}

	var form string
	switch {
	case c.Density < 0.3:
		form = pick(sparseForms, random)
	case c.Density > 0.7:
		form = pick(denseForms, random)
	default:
		form = pick(midForms, random)
	}

	var tail string
	switch {
	case c.Coherence > 0.66 && c.Fracture < 0.5:
		tail = pick(coherentTails, random)
	case c.Fracture > 0.66:
		tail = pick(fracturedTails, random)
	default:
		tail = pick(midTails, random)
	}

	// High chroma earns a hue word drawn from the palette band.
	if c.Chroma > 0.55 {
		band := hueBands[int(c.Hue*float64(len(hueBands)))%len(hueBands)]
		return fmt.Sprintf("%s %s %s %s", light, band, form, tail)
	}
	return fmt.Sprintf("%s %s %s", light, form, tail)
}

// GenerateAltText emits a one-sentence description carrying a structural
// phrase, the node count, and the title.
func GenerateAltText(c params.Controls, nodeCount int, title string) string {
	c = c.Sanitize()

	var structure string
	switch {
	case c.Density < 0.3:
		structure = "a sparse field of light against the dark"
	case c.Density > 0.7:
		structure = "a dense field of overlapping light"
	default:
		structure = "a field of light suspended in darkness"
	}

	var texture string
	switch {
	case c.Fracture > 0.66:
		texture = "splintered into sharp fragments"
	case c.Coherence > 0.66:
		texture = "flowing in aligned currents"
	default:
		texture = "drifting in loose clusters"
	}

	return fmt.Sprintf(
		"Abstract generative artwork titled %q: %s, %s, built from %d energy nodes.",
		title, structure, texture, nodeCount,
	)
}
