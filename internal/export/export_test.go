package export

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/share"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 40, A: 255})
		}
	}
	return img
}

func testBundle() Bundle {
	return Bundle{
		Image:   testImage(),
		Title:   "Glowing Field at Dusk",
		AltText: "Abstract generative artwork.",
		Config:  share.ExportStill("Glowing Field at Dusk", "", params.DefaultControls()),
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, testBundle()); err != nil {
		t.Fatalf("WriteBundle failed: %v", err)
	}

	back, err := ReadBundle(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadBundle failed: %v", err)
	}
	if back.Title != "Glowing Field at Dusk" {
		t.Errorf("title = %q", back.Title)
	}
	if back.AltText != "Abstract generative artwork." {
		t.Errorf("alt text = %q", back.AltText)
	}
	if back.Config.Kind != share.KindStillV2 {
		t.Errorf("config kind = %q", back.Config.Kind)
	}
	if b := back.Image.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("image bounds = %v", b)
	}
}

func TestWriteBundleEntryOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, testBundle()); err != nil {
		t.Fatalf("WriteBundle failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip open failed: %v", err)
	}
	want := []string{"image.png", "title.txt", "alt-text.txt", "metadata.json"}
	if len(zr.File) != len(want) {
		t.Fatalf("archive holds %d entries, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestWriteBundleRejectsIncomplete(t *testing.T) {
	var buf bytes.Buffer

	b := testBundle()
	b.Image = nil
	if err := WriteBundle(&buf, b); err == nil || !strings.Contains(err.Error(), "no image") {
		t.Errorf("missing image: %v", err)
	}

	b = testBundle()
	b.Title = ""
	if err := WriteBundle(&buf, b); err == nil || !strings.Contains(err.Error(), "no title") {
		t.Errorf("missing title: %v", err)
	}

	b = testBundle()
	b.AltText = ""
	if err := WriteBundle(&buf, b); err == nil || !strings.Contains(err.Error(), "no alt-text") {
		t.Errorf("missing alt-text: %v", err)
	}
}

func TestValidatePNG(t *testing.T) {
	if err := ValidatePNG([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
	if err := ValidatePNG([]byte("JFIF....")); err == nil {
		t.Error("non-PNG bytes accepted")
	}
	if err := ValidatePNG([]byte{0x89}); err == nil {
		t.Error("truncated stream accepted")
	}
}

func TestReadBundleRejectsForeignZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if _, err := f.Write([]byte("hi")); err != nil {
		t.Fatalf("zip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}

	if _, err := ReadBundle(buf.Bytes()); err == nil || !strings.Contains(err.Error(), "image.png") {
		t.Errorf("foreign archive: %v", err)
	}
}

func TestReadBundleRejectsGarbage(t *testing.T) {
	if _, err := ReadBundle([]byte("not a zip at all")); err == nil {
		t.Error("garbage bytes accepted")
	}
}
