package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lumenfold/lumenfold/internal/dots"
)

// TextureResult reports which texture files were written or skipped.
type TextureResult struct {
	Written []string
	Skipped []string
}

// WriteDefaultTextures writes the renderer's static textures to dir: the
// glow sprite at its native resolution and a paper grain tile at the given
// size. Existing files are skipped unless force is set.
func WriteDefaultTextures(dir string, grainSize int, force bool) (TextureResult, error) {
	if grainSize <= 0 {
		grainSize = 512
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return TextureResult{}, fmt.Errorf("create texture directory: %w", err)
	}

	var result TextureResult
	write := func(name string, img image.Image) error {
		path := filepath.Join(dir, name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				result.Skipped = append(result.Skipped, path)
				return nil
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		result.Written = append(result.Written, path)
		return nil
	}

	if err := write("glow.png", dots.GlowTexture()); err != nil {
		return result, err
	}
	if err := write("grain.png", grainTile(grainSize)); err != nil {
		return result, err
	}
	return result, nil
}

// grainTile renders the paper grain field as a mid-gray texture.
func grainTile(size int) *image.RGBA {
	g := newGrainField()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := g.at(float64(x), float64(y))
			v := uint8(clamp01(0.5+0.5*n) * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}
