package bmp

import (
	"errors"
	"fmt"
	"io"

	"github.com/anas-shakeel/bmp24/internal/utils"
)

type Pixel struct {
	R, G, B byte
}

var (
	Black = Pixel{0, 0, 0}
	White = Pixel{255, 255, 255}
)

// An in-memory 24 bit image. Rows are stored top to bottom, contiguously.
type Image struct {
	width  int
	height int
	pix    []Pixel
}

// Creates an image filled with a single color
func NewImage(width, height int, fill Pixel) (*Image, error) {
	if width < 0 {
		return nil, errors.New("width must not be negative")
	} else if height < 0 {
		return nil, errors.New("height must not be negative")
	} else if !FitsLimit(width, height) {
		return nil, fmt.Errorf("image of %dx%d pixels exceeds the 4 GiB BMP limit", width, height)
	}

	pix := make([]Pixel, width*height)
	if fill != Black {
		for i := range pix {
			pix[i] = fill
		}
	}
	return &Image{width: width, height: height, pix: pix}, nil
}

func (m *Image) Width() int  { return m.width }
func (m *Image) Height() int { return m.height }

// Returns row i (0 is the top row). The slice aliases the image.
func (m *Image) Row(i int) []Pixel {
	return m.pix[i*m.width : (i+1)*m.width : (i+1)*m.width]
}

func (m *Image) At(x, y int) Pixel {
	return m.pix[y*m.width+x]
}

func (m *Image) Set(x, y int, p Pixel) {
	m.pix[y*m.width+x] = p
}

// Returns a deep copy of the image
func (m *Image) Copy() *Image {
	pix := make([]Pixel, len(m.pix))
	copy(pix, m.pix)
	return &Image{width: m.width, height: m.height, pix: pix}
}

// Reports whether both images have the same size and pixels
func (m *Image) Equal(o *Image) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

func (m *Image) String() string {
	return fmt.Sprintf("Image(%d,%d)", m.width, m.height)
}

// Print the image as colored blocks. Use for small images only
func (m *Image) Preview(w io.Writer) error {
	for y := range m.height {
		for _, p := range m.Row(y) {
			if _, err := io.WriteString(w, utils.ColoredBlock("  ", int(p.R), int(p.G), int(p.B))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
