// Package seed handles portrait seeds: free-form strings and canonical
// tag triples drawn from fixed, localisable word lists. Tags and labels
// round-trip without loss; every downstream random stream derives from
// the label.
package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumenfold/lumenfold/internal/rng"
)

// TagListLength is the fixed length of each per-slot word list.
const TagListLength = 24

// Tag is the canonical ordered triple of word-list indices.
type Tag struct {
	Arrangement int `json:"arrangement"`
	Structure   int `json:"structure"`
	Detail      int `json:"detail"`
}

type wordLists struct {
	arrangement [TagListLength]string
	structure   [TagListLength]string
	detail      [TagListLength]string
}

// locales holds the per-language word lists. Unknown languages fall back
// to English.
var locales = map[string]wordLists{
	"en": {
		arrangement: [TagListLength]string{
			"drifting", "woven", "scattered", "folded", "radiant", "hollow",
			"gathered", "splintered", "quiet", "restless", "tidal", "veiled",
			"burning", "frozen", "spiralling", "anchored", "wandering", "braided",
			"fractured", "luminous", "submerged", "suspended", "tangled", "still",
		},
		structure: [TagListLength]string{
			"lattice", "chorus", "archive", "orchard", "harbor", "cathedral",
			"meadow", "engine", "garden", "furnace", "library", "reef",
			"glacier", "loom", "observatory", "thicket", "antenna", "quarry",
			"aviary", "carousel", "lighthouse", "labyrinth", "orrery", "atlas",
		},
		detail: [TagListLength]string{
			"embers", "static", "feathers", "glass", "moss", "sparks",
			"salt", "smoke", "petals", "wires", "frost", "ink",
			"honey", "gravel", "ribbons", "ash", "dew", "circuitry",
			"lichen", "foam", "filament", "resin", "grain", "echoes",
		},
	},
}

func listsFor(lang string) wordLists {
	if l, ok := locales[lang]; ok {
		return l
	}
	return locales["en"]
}

// Label renders the tag to its stable human-readable label in the given
// language.
func (t Tag) Label(lang string) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	l := listsFor(lang)
	return l.arrangement[t.Arrangement] + " " +
		l.structure[t.Structure] + " " +
		l.detail[t.Detail], nil
}

// Validate checks the indices against the fixed list length.
func (t Tag) Validate() error {
	for _, i := range [3]int{t.Arrangement, t.Structure, t.Detail} {
		if i < 0 || i >= TagListLength {
			return fmt.Errorf("%w: tag index %d outside word list", rng.ErrInvalidSeed, i)
		}
	}
	return nil
}

// Encode renders the tag to its compact comma form for share URLs.
func (t Tag) Encode() string {
	return fmt.Sprintf("%d,%d,%d", t.Arrangement, t.Structure, t.Detail)
}

// Seed is a parsed seed: always a non-empty label, plus the tag when the
// input was canonical.
type Seed struct {
	Label string
	Tag   *Tag
}

// Parse interprets s as a comma triple, a word-list label, or a free-form
// string, in that order. Empty input fails with the invalid-seed error.
func Parse(s string, lang string) (Seed, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Seed{}, fmt.Errorf("%w: empty seed", rng.ErrInvalidSeed)
	}

	if tag, ok := parseTriple(s); ok {
		if err := tag.Validate(); err != nil {
			return Seed{}, err
		}
		label, err := tag.Label(lang)
		if err != nil {
			return Seed{}, err
		}
		return Seed{Label: label, Tag: &tag}, nil
	}

	if tag, ok := parseLabel(s, lang); ok {
		return Seed{Label: s, Tag: &tag}, nil
	}

	return Seed{Label: s}, nil
}

func parseTriple(s string) (Tag, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Tag{}, false
	}
	var idx [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Tag{}, false
		}
		idx[i] = n
	}
	return Tag{Arrangement: idx[0], Structure: idx[1], Detail: idx[2]}, true
}

func parseLabel(s, lang string) (Tag, bool) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return Tag{}, false
	}
	l := listsFor(lang)
	find := func(list [TagListLength]string, w string) int {
		for i, v := range list {
			if v == w {
				return i
			}
		}
		return -1
	}
	a := find(l.arrangement, parts[0])
	st := find(l.structure, parts[1])
	d := find(l.detail, parts[2])
	if a < 0 || st < 0 || d < 0 {
		return Tag{}, false
	}
	return Tag{Arrangement: a, Structure: st, Detail: d}, true
}

// RandomTag draws a uniform tag from the word lists.
func RandomTag(random rng.Stream) Tag {
	return Tag{
		Arrangement: random.Intn(TagListLength),
		Structure:   random.Intn(TagListLength),
		Detail:      random.Intn(TagListLength),
	}
}
