package share

import (
	"encoding/json"
	"fmt"

	"github.com/lumenfold/lumenfold/internal/ease"
	"github.com/lumenfold/lumenfold/internal/params"
)

// Export shape limits.
const (
	MaxNameLen   = 40
	MaxIntentLen = 120

	KindStillV2 = "still-v2"
	KindStillV1 = "still"
)

// ColorConfig is the v2 colour block.
type ColorConfig struct {
	Hue      float64 `json:"hue"`
	Spectrum float64 `json:"spectrum"`
	Chroma   float64 `json:"chroma"`
}

// StructureConfig is the v2 structure block.
type StructureConfig struct {
	Density    float64 `json:"density"`
	Luminosity float64 `json:"luminosity"`
	Fracture   float64 `json:"fracture"`
	Coherence  float64 `json:"coherence"`
	Scale      float64 `json:"scale"`
	Division   float64 `json:"division"`
	Faceting   float64 `json:"faceting"`
	Flow       float64 `json:"flow"`
}

// StillConfig is the exported still shape.
type StillConfig struct {
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Intent    string          `json:"intent"`
	Color     ColorConfig     `json:"color"`
	Structure StructureConfig `json:"structure"`
}

// ExportStill builds the canonical v2 still config from a state. Name and
// intent are truncated to the export limits.
func ExportStill(name, intent string, c params.Controls) StillConfig {
	c = c.Sanitize()
	if len(name) > MaxNameLen {
		name = name[:MaxNameLen]
	}
	if len(intent) > MaxIntentLen {
		intent = intent[:MaxIntentLen]
	}
	return StillConfig{
		Kind:   KindStillV2,
		Name:   name,
		Intent: intent,
		Color: ColorConfig{
			Hue:      c.Hue,
			Spectrum: c.Spectrum,
			Chroma:   c.Chroma,
		},
		Structure: StructureConfig{
			Density:    c.Density,
			Luminosity: c.Luminosity,
			Fracture:   c.Fracture,
			Coherence:  c.Coherence,
			Scale:      c.Scale,
			Division:   c.Division,
			Faceting:   c.Faceting,
			Flow:       c.Flow,
		},
	}
}

// Controls reconstructs the control vector from a validated config.
func (sc StillConfig) Controls() params.Controls {
	return params.Controls{
		Density:    sc.Structure.Density,
		Luminosity: sc.Structure.Luminosity,
		Fracture:   sc.Structure.Fracture,
		Coherence:  sc.Structure.Coherence,
		Hue:        sc.Color.Hue,
		Spectrum:   sc.Color.Spectrum,
		Chroma:     sc.Color.Chroma,
		Scale:      sc.Structure.Scale,
		Division:   sc.Structure.Division,
		Faceting:   sc.Structure.Faceting,
		Flow:       sc.Structure.Flow,
		Topology:   params.TopologyFlowField,
	}.Sanitize()
}

// ValidateStillConfig checks a decoded JSON document against the import
// contract. Errors are human-readable strings for direct display.
func ValidateStillConfig(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("config must be a JSON object")
	}

	kind, _ := obj["kind"].(string)
	if len(kind) < len(KindStillV1) || kind[:len(KindStillV1)] != KindStillV1 {
		return fmt.Errorf("unsupported kind %q: expected a still config", kind)
	}

	name, ok := obj["name"].(string)
	if !ok || name == "" {
		return fmt.Errorf("config is missing a name")
	}
	if _, ok := obj["intent"].(string); !ok {
		return fmt.Errorf("config is missing an intent")
	}

	checkBlock := func(key string, fields []string) error {
		block, ok := obj[key].(map[string]any)
		if !ok {
			return fmt.Errorf("config is missing the %s block", key)
		}
		for _, f := range fields {
			raw, ok := block[f]
			if !ok {
				continue // absent fields fall back to defaults
			}
			num, ok := raw.(float64)
			if !ok {
				return fmt.Errorf("%s.%s must be a number", key, f)
			}
			if num < 0 || num > 1 {
				return fmt.Errorf("%s.%s %.3f is outside [0,1]", key, f, num)
			}
		}
		return nil
	}

	if kind == KindStillV1 {
		// Legacy palette block uses its own ranges; only structure is
		// checked against [0,1].
		if _, ok := obj["palette"].(map[string]any); !ok {
			return fmt.Errorf("legacy config is missing the palette block")
		}
		return checkBlock("structure", []string{
			"density", "luminosity", "fracture", "coherence",
			"depth", "division", "faceting", "flow",
		})
	}

	if err := checkBlock("color", []string{"hue", "spectrum", "chroma"}); err != nil {
		return err
	}
	return checkBlock("structure", []string{
		"density", "luminosity", "fracture", "coherence",
		"scale", "division", "faceting", "flow",
	})
}

// ImportStill parses, validates and, for legacy documents, converts a
// still config. Legacy palette coordinates migrate through the same
// closed-form mapping as v1 share links; legacy depth becomes scale.
func ImportStill(data []byte) (StillConfig, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return StillConfig{}, fmt.Errorf("config is not valid JSON: %v", err)
	}
	if err := ValidateStillConfig(raw); err != nil {
		return StillConfig{}, err
	}

	obj := raw.(map[string]any)
	kind, _ := obj["kind"].(string)

	if kind == KindStillV1 {
		return importLegacy(obj)
	}

	var cfg StillConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return StillConfig{}, fmt.Errorf("config does not match the still shape: %v", err)
	}
	return cfg, nil
}

func importLegacy(obj map[string]any) (StillConfig, error) {
	num := func(block map[string]any, key string, def float64) float64 {
		if v, ok := block[key].(float64); ok {
			return v
		}
		return def
	}

	palette, _ := obj["palette"].(map[string]any)
	structure, _ := obj["structure"].(map[string]any)

	legacy := params.LegacyPalette{
		BaseHue:    num(palette, "hue", 0),
		HueRange:   num(palette, "range", 60),
		Saturation: num(palette, "saturation", 0.8),
	}
	hue, spectrum, chroma := legacy.ToAxes()

	name, _ := obj["name"].(string)
	intent, _ := obj["intent"].(string)
	d := params.DefaultControls()

	cfg := StillConfig{
		Kind:   KindStillV2,
		Name:   name,
		Intent: intent,
		Color: ColorConfig{
			Hue:      ease.Clamp01(hue),
			Spectrum: ease.Clamp01(spectrum),
			Chroma:   ease.Clamp01(chroma),
		},
		Structure: StructureConfig{
			Density:    num(structure, "density", d.Density),
			Luminosity: num(structure, "luminosity", d.Luminosity),
			Fracture:   num(structure, "fracture", d.Fracture),
			Coherence:  num(structure, "coherence", d.Coherence),
			Scale:      num(structure, "depth", d.Scale),
			Division:   num(structure, "division", d.Division),
			Faceting:   num(structure, "faceting", d.Faceting),
			Flow:       num(structure, "flow", d.Flow),
		},
	}
	return cfg, nil
}
