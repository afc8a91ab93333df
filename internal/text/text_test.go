package text

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

func TestGenerateTitleDeterministic(t *testing.T) {
	c := params.DefaultControls()
	a := GenerateTitle(c, rng.MustFromLabel("seed:title"))
	b := GenerateTitle(c, rng.MustFromLabel("seed:title"))
	if a != b {
		t.Errorf("titles differ for the same stream: %q vs %q", a, b)
	}
}

func TestGenerateTitleWordCount(t *testing.T) {
	muted := params.DefaultControls()
	muted.Chroma = 0.3
	vivid := params.DefaultControls()
	vivid.Chroma = 0.9

	mutedTitle := GenerateTitle(muted, rng.MustFromLabel("title-words"))
	vividTitle := GenerateTitle(vivid, rng.MustFromLabel("title-words"))

	// The hue word only appears above the chroma threshold. Tails may span
	// several words, so compare against the shared leading structure.
	if len(strings.Fields(vividTitle)) <= len(strings.Fields(mutedTitle)) {
		t.Errorf("vivid title %q not longer than muted %q", vividTitle, mutedTitle)
	}
}

func TestGenerateTitleThresholds(t *testing.T) {
	contains := func(list []string, word string) bool {
		for _, w := range list {
			if w == word {
				return true
			}
		}
		return false
	}

	dim := params.DefaultControls()
	dim.Luminosity = 0.1
	first := strings.Fields(GenerateTitle(dim, rng.MustFromLabel("title-dim")))[0]
	if !contains(dimWords, first) {
		t.Errorf("dim title starts with %q, want a dim descriptor", first)
	}

	bright := params.DefaultControls()
	bright.Luminosity = 0.9
	first = strings.Fields(GenerateTitle(bright, rng.MustFromLabel("title-bright")))[0]
	if !contains(brightWords, first) {
		t.Errorf("bright title starts with %q, want a bright descriptor", first)
	}
}

func TestGenerateAltText(t *testing.T) {
	c := params.DefaultControls()
	title := "Glowing Field at Dusk"
	alt := GenerateAltText(c, 137, title)

	if !strings.Contains(alt, fmt.Sprintf("%q", title)) {
		t.Errorf("alt text missing the title: %q", alt)
	}
	if !strings.Contains(alt, "137 energy nodes") {
		t.Errorf("alt text missing the node count: %q", alt)
	}
	if !strings.HasPrefix(alt, "Abstract generative artwork") {
		t.Errorf("alt text prefix: %q", alt)
	}
}

func TestGenerateAltTextTracksControls(t *testing.T) {
	sparse := params.DefaultControls()
	sparse.Density = 0.1
	dense := params.DefaultControls()
	dense.Density = 0.9

	a := GenerateAltText(sparse, 10, "T")
	b := GenerateAltText(dense, 10, "T")
	if !strings.Contains(a, "sparse") {
		t.Errorf("sparse alt text: %q", a)
	}
	if !strings.Contains(b, "dense") {
		t.Errorf("dense alt text: %q", b)
	}

	fractured := params.DefaultControls()
	fractured.Fracture = 0.9
	if alt := GenerateAltText(fractured, 10, "T"); !strings.Contains(alt, "splintered") {
		t.Errorf("fractured alt text: %q", alt)
	}
}
