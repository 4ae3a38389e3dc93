package bmp

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"os"

	xbmp "golang.org/x/image/bmp"
)

// Converts the image to an opaque *image.RGBA
func (m *Image) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for y := range m.height {
		off := y * dst.Stride
		for _, p := range m.Row(y) {
			dst.Pix[off+0] = p.R
			dst.Pix[off+1] = p.G
			dst.Pix[off+2] = p.B
			dst.Pix[off+3] = 0xff
			off += 4
		}
	}
	return dst
}

// Converts any image.Image into an Image, dropping alpha
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img, _ := NewImage(b.Dx(), b.Dy(), Black)
	for y := range img.height {
		line := img.Row(y)
		for x := range line {
			c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			line[x] = Pixel{c.R, c.G, c.B}
		}
	}
	return img
}

// Decodes filename with both this package and golang.org/x/image/bmp and
// reports the first pixel on which they disagree.
func Verify(filename string) error {
	img, err := LoadFile(filename)
	if err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return &OpenError{Name: filename, Err: err}
	}
	defer file.Close()

	ref, err := xbmp.Decode(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("reference decoder rejected %s: %w", filename, err)
	}

	b := ref.Bounds()
	if b.Dx() != img.width || b.Dy() != img.height {
		return fmt.Errorf("%s: size mismatch: %dx%d vs reference %dx%d", filename, img.width, img.height, b.Dx(), b.Dy())
	}
	want := FromImage(ref)
	for y := range img.height {
		for x := range img.width {
			if got, exp := img.At(x, y), want.At(x, y); got != exp {
				return fmt.Errorf("%s: pixel (%d, %d) is %v, reference has %v", filename, x, y, got, exp)
			}
		}
	}
	return nil
}
