package bmp

import (
	"io"
	"iter"
)

// Yields the padded on-disk rows of img in file order: the bottom image
// row first. Every row is a fresh slice of Stride(width) bytes, BGR per
// pixel, with zeroed padding.
func EncodeRows(img *Image) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		stride := Stride(img.width)

		for i := img.height - 1; i >= 0; i-- {
			buf := make([]byte, stride)
			for j, p := range img.Row(i) {
				buf[3*j] = p.B
				buf[3*j+1] = p.G
				buf[3*j+2] = p.R
			}
			if !yield(buf) {
				return
			}
		}
	}
}

// Reads height padded rows from r and scatters them into img, bottom row
// first. Padding bytes are skipped. img is left partially filled on error.
func DecodeRows(r io.Reader, img *Image) error {
	stride := Stride(img.width)
	if stride == 0 {
		return nil
	}
	buf := make([]byte, stride)

	for i := img.height - 1; i >= 0; i-- {
		n, err := io.ReadFull(r, buf)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return &TruncatedError{Section: "pixel data", Row: img.height - i, Want: stride, Got: n}
			}
			return &IOError{Op: "read pixel data", Err: err}
		}

		line := img.Row(i)
		for j := range line {
			line[j].B = buf[3*j]
			line[j].G = buf[3*j+1]
			line[j].R = buf[3*j+2]
		}
	}
	return nil
}

// Upper bound on the pixels readImage reserves before any row has arrived
const initialPixels = 1 << 20

// Decodes a width x height pixel array like DecodeRows, but grows the pixel
// buffer only as rows arrive, so a header claiming more rows than r holds
// costs no more memory than the bytes actually read.
func readImage(r io.Reader, width, height int) (*Image, error) {
	img := &Image{width: width, height: height, pix: []Pixel{}}
	stride := Stride(width)
	if stride == 0 || height == 0 {
		return img, nil
	}

	buf := make([]byte, stride)
	pix := make([]Pixel, 0, min(width*height, initialPixels))
	for row := 1; row <= height; row++ {
		n, err := io.ReadFull(r, buf)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, &TruncatedError{Section: "pixel data", Row: row, Want: stride, Got: n}
			}
			return nil, &IOError{Op: "read pixel data", Err: err}
		}
		for j := range width {
			pix = append(pix, Pixel{R: buf[3*j+2], G: buf[3*j+1], B: buf[3*j]})
		}
	}
	img.pix = pix

	// pix holds the rows in disk order (bottom first)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a, b := img.Row(top), img.Row(bottom)
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
	return img, nil
}
