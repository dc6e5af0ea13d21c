package imageproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, width, height int, fill color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func decodeNormalized(t *testing.T, encoded string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("Normalize output is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Normalize output is not png: %v", err)
	}
	return img
}

func TestNormalizeKeepsValidDimensions(t *testing.T) {
	encoded, err := Normalize(encodeTestPNG(t, 640, 480, color.RGBA{R: 200, A: 255}))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	img := decodeNormalized(t, encoded)
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Errorf("expected 640x480 preserved, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestNormalizeUpscalesSmallImages(t *testing.T) {
	encoded, err := Normalize(encodeTestPNG(t, 100, 50, color.White))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	img := decodeNormalized(t, encoded)
	if img.Bounds().Dx() < MinSize || img.Bounds().Dy() < MinSize {
		t.Errorf("expected sides raised to at least %d, got %dx%d", MinSize, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestNormalizeRespectsPixelBudget(t *testing.T) {
	encoded, err := Normalize(encodeTestPNG(t, 4000, 2000, color.White))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	img := decodeNormalized(t, encoded)
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width*height > MaxPixels {
		t.Errorf("pixel budget exceeded: %dx%d = %d", width, height, width*height)
	}
	aspect := float64(width) / float64(height)
	if aspect < 1.9 || aspect > 2.1 {
		t.Errorf("aspect ratio not preserved, got %f", aspect)
	}
}

func TestNormalizeFlattensTransparency(t *testing.T) {
	// fully transparent pixels must come back white, not black
	encoded, err := Normalize(encodeTestPNG(t, 400, 400, color.RGBA{}))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	img := decodeNormalized(t, encoded)
	r, g, b, _ := img.At(200, 200).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("expected white background, got rgb(%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeRejectsMissingImage(t *testing.T) {
	if _, err := Normalize(nil); !errors.Is(err, ErrImageRequired) {
		t.Fatalf("expected ErrImageRequired, got %v", err)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image")); err == nil {
		t.Fatal("expected a decode error")
	}
}
