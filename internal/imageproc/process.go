// Package imageproc prepares uploaded images for the Nova Canvas API: color
// flattening, size constraints and base64 PNG encoding, plus an optional
// content moderation gate.
package imageproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Dimension constraints enforced by the Nova Canvas model for input images.
const (
	MinSize   = 320
	MaxSize   = 4096
	MaxPixels = 4194304
)

var ErrImageRequired = errors.New("input image is required")

// Normalize decodes an uploaded image, flattens transparency onto a white
// background, scales it into the model's pixel budget and dimension range,
// and returns it as a base64-encoded PNG.
func Normalize(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrImageRequired
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	img = flatten(img)
	img = fitPixelBudget(img, MaxPixels)
	img = clampDimensions(img, MinSize, MaxSize)

	encoded, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// EncodePNG renders an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten composites the image onto a white background, discarding alpha.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	background := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(background, background.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(background, background.Bounds(), img, bounds.Min, draw.Over)
	return background
}

// fitPixelBudget downscales the image so width*height <= maxPixels, keeping
// the aspect ratio.
func fitPixelBudget(img image.Image, maxPixels int) image.Image {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width*height <= maxPixels {
		return img
	}
	aspect := float64(width) / float64(height)
	var newWidth, newHeight int
	if aspect > 1 {
		newWidth = int(math.Sqrt(float64(maxPixels) * aspect))
		newHeight = int(float64(newWidth) / aspect)
	} else {
		newHeight = int(math.Sqrt(float64(maxPixels) / aspect))
		newWidth = int(float64(newHeight) * aspect)
	}
	return scale(img, newWidth, newHeight)
}

// clampDimensions resizes any side that falls outside [minSize, maxSize].
func clampDimensions(img image.Image, minSize, maxSize int) image.Image {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width >= minSize && width <= maxSize && height >= minSize && height <= maxSize {
		return img
	}
	newWidth := clamp(width, minSize, maxSize)
	newHeight := clamp(height, minSize, maxSize)
	return scale(img, newWidth, newHeight)
}

func scale(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
