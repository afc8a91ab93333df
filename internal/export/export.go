// Package export writes the visual-export ZIP: the rendered still, its
// title and alt-text, and the still config as metadata.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/lumenfold/lumenfold/internal/share"
)

// pngSignature is the first four bytes of every PNG stream.
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47}

// Bundle is everything that goes into one export archive.
type Bundle struct {
	Image   image.Image
	Title   string
	AltText string
	Config  share.StillConfig
}

// ValidatePNG checks that data carries the PNG signature.
func ValidatePNG(data []byte) error {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return fmt.Errorf("export: image is not a PNG stream")
	}
	return nil
}

// WriteBundle encodes the bundle as a ZIP archive on w. Entry names and
// order are fixed: image.png, title.txt, alt-text.txt, metadata.json.
func WriteBundle(w io.Writer, b Bundle) error {
	if b.Image == nil {
		return fmt.Errorf("export: bundle has no image")
	}
	if b.Title == "" {
		return fmt.Errorf("export: bundle has no title")
	}
	if b.AltText == "" {
		return fmt.Errorf("export: bundle has no alt-text")
	}

	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, b.Image); err != nil {
		return fmt.Errorf("export: encode image: %w", err)
	}
	if err := ValidatePNG(imgBuf.Bytes()); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(b.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode metadata: %w", err)
	}

	zw := zip.NewWriter(w)
	entries := []struct {
		name string
		data []byte
	}{
		{"image.png", imgBuf.Bytes()},
		{"title.txt", []byte(b.Title)},
		{"alt-text.txt", []byte(b.AltText)},
		{"metadata.json", meta},
	}
	for _, e := range entries {
		f, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("export: create %s: %w", e.name, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return fmt.Errorf("export: write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: close archive: %w", err)
	}
	return nil
}

// ReadBundle parses an export archive back into a bundle. The image is
// returned decoded; missing or empty entries fail.
func ReadBundle(data []byte) (Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Bundle{}, fmt.Errorf("export: open archive: %w", err)
	}

	files := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return Bundle{}, fmt.Errorf("export: open %s: %w", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return Bundle{}, fmt.Errorf("export: read %s: %w", f.Name, err)
		}
		files[f.Name] = raw
	}

	imgData, ok := files["image.png"]
	if !ok {
		return Bundle{}, fmt.Errorf("export: archive is missing image.png")
	}
	if err := ValidatePNG(imgData); err != nil {
		return Bundle{}, err
	}
	img, err := png.Decode(bytes.NewReader(imgData))
	if err != nil {
		return Bundle{}, fmt.Errorf("export: decode image: %w", err)
	}

	title := string(files["title.txt"])
	if title == "" {
		return Bundle{}, fmt.Errorf("export: archive has an empty title")
	}
	alt := string(files["alt-text.txt"])
	if alt == "" {
		return Bundle{}, fmt.Errorf("export: archive has an empty alt-text")
	}

	cfg, err := share.ImportStill(files["metadata.json"])
	if err != nil {
		return Bundle{}, fmt.Errorf("export: metadata: %w", err)
	}

	return Bundle{Image: img, Title: title, AltText: alt, Config: cfg}, nil
}
