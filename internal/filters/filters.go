// Filters perform color manipulation and per-pixel operations
package filters

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/makeworld-the-better-one/dither/v2"

	"github.com/anas-shakeel/bmp24/internal/bmp"
	"github.com/anas-shakeel/bmp24/internal/utils"
)

// Inverts (negates) the image in-place
func Invert(img *bmp.Image) {
	// Iterate rows
	for row := range img.Height() {
		line := img.Row(row)
		// Iterate pixels in row
		for col := range line {
			line[col].R = 255 - line[col].R
			line[col].G = 255 - line[col].G
			line[col].B = 255 - line[col].B
		}
	}
}

// Converts an image to Black-and-White
func Grayscale(img *bmp.Image) {
	for row := range img.Height() {
		line := img.Row(row)
		for col, p := range line {
			// Find the average value for pixel
			avg := byte(utils.Average(int(p.R), int(p.G), int(p.B)))
			line[col] = bmp.Pixel{R: avg, G: avg, B: avg}
		}
	}
}

// Converts an image to Black-and-White (with ITU-R 601-2 Luma Transform)
func GrayscaleLuma(img *bmp.Image) {
	for row := range img.Height() {
		line := img.Row(row)
		for col, p := range line {
			L := byte(int(p.R)*299/1000 + int(p.G)*587/1000 + int(p.B)*114/1000)
			line[col] = bmp.Pixel{R: L, G: L, B: L}
		}
	}
}

// Adjusts the Brightness of an image in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Pixel values are clipped to [0, 255].
func Brightness(img *bmp.Image, factor float64, method string) error {
	type Operation func(x, y float64) float64
	var operation Operation

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x, y float64) float64 {
			return x + y
		}
	case "multiply":
		operation = func(x, y float64) float64 {
			return x * y
		}
	default:
		return errors.New("invalid method: method must be add or multiply")
	}

	// Apply brightness (or darkness)
	for row := range img.Height() {
		line := img.Row(row)
		for col, p := range line {
			line[col].R = utils.ClampByte(operation(float64(p.R), factor))
			line[col].G = utils.ClampByte(operation(float64(p.G), factor))
			line[col].B = utils.ClampByte(operation(float64(p.B), factor))
		}
	}

	return nil
}

// Adjusts the Contrast of an image in-place.
// factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(img *bmp.Image, factor float64) {
	totalPixels := img.Width() * img.Height()
	if totalPixels == 0 {
		return
	}

	// Compute mean for each channel
	var sumR, sumG, sumB int
	for row := range img.Height() {
		for _, p := range img.Row(row) {
			sumR += int(p.R)
			sumG += int(p.G)
			sumB += int(p.B)
		}
	}
	meanR := float64(sumR / totalPixels)
	meanG := float64(sumG / totalPixels)
	meanB := float64(sumB / totalPixels)

	// Apply contrast
	for row := range img.Height() {
		line := img.Row(row)
		for col, p := range line {
			line[col].R = utils.ClampByte(float64(p.R)*factor + (1-factor)*meanR)
			line[col].G = utils.ClampByte(float64(p.G)*factor + (1-factor)*meanG)
			line[col].B = utils.ClampByte(float64(p.B)*factor + (1-factor)*meanB)
		}
	}
}

// Keeps a single channel of the image, zeroing the other two.
// channel can one of (`red`, `green`, and `blue`)
func Channel(img *bmp.Image, channel string) error {
	var keep func(p bmp.Pixel) bmp.Pixel
	switch channel {
	case "red":
		keep = func(p bmp.Pixel) bmp.Pixel { return bmp.Pixel{R: p.R} }
	case "green":
		keep = func(p bmp.Pixel) bmp.Pixel { return bmp.Pixel{G: p.G} }
	case "blue":
		keep = func(p bmp.Pixel) bmp.Pixel { return bmp.Pixel{B: p.B} }
	default:
		return fmt.Errorf("invalid color channel %q: only red, green, and blue are supported", channel)
	}

	for row := range img.Height() {
		line := img.Row(row)
		for col, p := range line {
			line[col] = keep(p)
		}
	}
	return nil
}

// Reduces the image to pure black and white using Floyd-Steinberg error diffusion
func Dither(img *bmp.Image) *bmp.Image {
	if img.Width() == 0 || img.Height() == 0 {
		return img.Copy()
	}

	palette := []color.Color{color.Black, color.White}
	ditherer := dither.NewDitherer(palette)
	ditherer.Matrix = dither.FloydSteinberg
	ditherer.Serpentine = true

	return bmp.FromImage(ditherer.DitherPaletted(img.ToRGBA()))
}
