// Package share implements the external interchange surfaces: the v2
// share-URL grammar (with v1 migration), and still-config export/import
// with validation.
package share

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/lumenfold/lumenfold/internal/params"
)

// State is the shareable portrait state.
type State struct {
	Name     string
	Seed     string
	Controls params.Controls
}

// canonical v2 parameter keys, in emission order.
//
//	n  name            s  seed
//	d  density         l  luminosity   f  fracture   c  coherence
//	h  hue             sp spectrum     ch chroma
//	sc scale           dv division     ft faceting   fl flow
var v2Keys = []string{"n", "s", "d", "l", "f", "c", "h", "sp", "ch", "sc", "dv", "ft", "fl"}

func fmt2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func fmt3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// Encode renders the canonical v2 query string. Structure axes carry two
// decimals, colour axes three.
func Encode(s State) string {
	c := s.Controls.Sanitize()
	vals := map[string]string{
		"n":  s.Name,
		"s":  s.Seed,
		"d":  fmt2(c.Density),
		"l":  fmt2(c.Luminosity),
		"f":  fmt2(c.Fracture),
		"c":  fmt2(c.Coherence),
		"h":  fmt3(c.Hue),
		"sp": fmt3(c.Spectrum),
		"ch": fmt3(c.Chroma),
		"sc": fmt2(c.Scale),
		"dv": fmt2(c.Division),
		"ft": fmt2(c.Faceting),
		"fl": fmt2(c.Flow),
	}
	var b strings.Builder
	for _, k := range v2Keys {
		v, ok := vals[k]
		if !ok || v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// Decode parses a share query string. A v1 URL is detected by the
// presence of the palette key `p` and migrated through the closed-form
// legacy palette mapping. Out-of-range numeric fields are clamped; absent
// fields fall back to the documented defaults.
func Decode(query string) (State, error) {
	vals, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return State{}, fmt.Errorf("malformed share query: %w", err)
	}

	d := params.DefaultControls()
	axis := func(key string, def float64) float64 {
		raw := vals.Get(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}

	st := State{
		Name: vals.Get("n"),
		Seed: vals.Get("s"),
	}
	st.Controls = params.Controls{
		Density:    axis("d", d.Density),
		Luminosity: axis("l", d.Luminosity),
		Fracture:   axis("f", d.Fracture),
		Coherence:  axis("c", d.Coherence),
		Hue:        axis("h", d.Hue),
		Spectrum:   axis("sp", d.Spectrum),
		Chroma:     axis("ch", d.Chroma),
		Scale:      axis("sc", d.Scale),
		Division:   axis("dv", d.Division),
		Faceting:   axis("ft", d.Faceting),
		Flow:       axis("fl", d.Flow),
		Topology:   params.TopologyFlowField,
	}

	if name := vals.Get("p"); name != "" {
		// v1 link: colour comes from the named palette, not axes.
		legacy, err := params.NamedLegacyPalette(name)
		if err != nil {
			return State{}, fmt.Errorf("v1 share link: %w", err)
		}
		hue, spectrum, chroma := legacy.ToAxes()
		st.Controls.Hue = hue
		st.Controls.Spectrum = spectrum
		st.Controls.Chroma = chroma
		// v1 carried depth where v2 carries scale.
		if raw := vals.Get("dp"); raw != "" {
			st.Controls.Scale = axis("dp", d.Scale)
		}
	}

	return st, nil
}
