// bmp package implements a reader and writer for 24-bit uncompressed bitmaps
package bmp

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Writes img to w as a 24-bit bottom-up BMP
func Save(w io.Writer, img *Image) error {
	if !FitsLimit(img.width, img.height) {
		return &UnsupportedError{Feature: fmt.Sprintf("image of %dx%d pixels exceeds the 4 GiB BMP limit", img.width, img.height)}
	}

	fh, ih := NewHeaders(img.width, img.height)
	if err := WriteHeaders(w, fh, ih); err != nil {
		return err
	}

	// Write the pixels (BottomUp: last row first)
	for row := range EncodeRows(img) {
		if _, err := w.Write(row); err != nil {
			return &IOError{Op: "write pixel data", Err: err}
		}
	}
	return nil
}

// Reads a 24-bit BMP from r. No image is returned on error.
func Load(r io.Reader) (*Image, error) {
	_, ih, err := ReadHeaders(r)
	if err != nil {
		return nil, err
	}

	return readImage(r, int(ih.Width), int(ih.Height))
}

// Saves the image onto local disk. A failed save may leave a partial file behind.
func SaveFile(filename string, img *Image) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return &OpenError{Name: filename, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &IOError{Name: filename, Op: "close", Err: cerr}
		}
	}()

	// Create a buffer (to reduce syscalls)
	w := bufio.NewWriter(file)
	if err := Save(w, img); err != nil {
		return withName(err, filename)
	}
	if err := w.Flush(); err != nil {
		return &IOError{Name: filename, Op: "flush", Err: err}
	}

	slog.Debug("saved bitmap", "file", filename, "width", img.width, "height", img.height, "stride", Stride(img.width))
	return nil
}

// Reads a Bitmap file
func LoadFile(filename string) (*Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &OpenError{Name: filename, Err: err}
	}
	defer file.Close()

	img, err := Load(bufio.NewReader(file))
	if err != nil {
		return nil, withName(err, filename)
	}

	slog.Debug("loaded bitmap", "file", filename, "width", img.width, "height", img.height)
	return img, nil
}

// Info describes a bitmap file without decoding its pixels
type Info struct {
	Filename string
	File     FileHeader
	DIB      InfoHeader
	Stride   int
	Padding  int
	Checksum uint64 // xxhash64 of the pixel array, padding included
}

// Reads the headers of a bitmap file and hashes its pixel array
func ReadInfo(filename string) (*Info, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &OpenError{Name: filename, Err: err}
	}
	defer file.Close()

	r := bufio.NewReader(file)
	fh, ih, err := ReadHeaders(r)
	if err != nil {
		return nil, withName(err, filename)
	}

	width := int(ih.Width)
	stride := Stride(width)
	size := int64(stride) * int64(ih.Height)

	d := xxhash.New()
	n, err := io.CopyN(d, r, size)
	if err != nil {
		if err == io.EOF {
			return nil, &TruncatedError{Name: filename, Section: "pixel data", Row: int(n/int64(max(stride, 1))) + 1, Want: stride, Got: int(n % int64(max(stride, 1)))}
		}
		return nil, &IOError{Name: filename, Op: "read pixel data", Err: err}
	}

	return &Info{
		Filename: filename,
		File:     fh,
		DIB:      ih,
		Stride:   stride,
		Padding:  stride - width*BytesPerPixel,
		Checksum: d.Sum64(),
	}, nil
}

// Print the Metadata of the bitmap (in human-readable format)
func (i *Info) Print(w io.Writer) {
	fmt.Fprintf(w, "Filename: \t%v\n", i.Filename)
	fmt.Fprintf(w, "Filesize: \t%v bytes\n", i.File.Size)
	fmt.Fprintf(w, "Width: \t\t%v px\n", i.DIB.Width)
	fmt.Fprintf(w, "Height: \t%v px\n", i.DIB.Height)
	fmt.Fprintf(w, "BitCount: \t%vbits\n", i.DIB.BitCount)
	fmt.Fprintf(w, "PixelOffset: \t%v bytes\n", i.File.OffBits)
	fmt.Fprintf(w, "PixelCount: \t%v pixels\n", int64(i.DIB.Width)*int64(i.DIB.Height))
	fmt.Fprintf(w, "Resolution: \t%vx%v px/m\n", i.DIB.XPixelsPerM, i.DIB.YPixelsPerM)
	fmt.Fprintf(w, "Stride: \t%v bytes\n", i.Stride)
	fmt.Fprintf(w, "Padding: \t%v bytes\n", i.Padding)
	fmt.Fprintf(w, "Checksum: \t%016x\n", i.Checksum)
}
